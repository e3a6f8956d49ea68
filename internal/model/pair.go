package model

import "github.com/shopspring/decimal"

// MatchStrategy names the evidence used to accept a transfer pair, in priority
// order from strongest to weakest.
type MatchStrategy string

const (
	StrategyExchangeAmount MatchStrategy = "exact-exchange-amount"
	StrategyConversion     MatchStrategy = "currency-conversion"
	StrategyCrossBankName  MatchStrategy = "cross-bank-name"
	StrategyAmountDate     MatchStrategy = "amount-date-heuristic"
)

// Strategies lists all match strategies in priority order.
var Strategies = []MatchStrategy{
	StrategyExchangeAmount,
	StrategyConversion,
	StrategyCrossBankName,
	StrategyAmountDate,
}

// TransferPair is one accepted match: a single real-world money movement seen
// as an outgoing row in one file and an incoming row in another.
type TransferPair struct {
	PairID        string
	Outgoing      Transaction
	Incoming      Transaction
	Strategy      MatchStrategy
	Confidence    float64 // [0,1], fixed at acceptance time
	MatchedAmount decimal.Decimal
}
