package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BankHint identifies the institution a statement came from, inferred from the
// filename or the row text. Unknown is a valid, common value.
type BankHint string

const (
	BankUnknown  BankHint = "unknown"
	BankWise     BankHint = "wise"
	BankRevolut  BankHint = "revolut"
	BankNayaPay  BankHint = "nayapay"
	BankPayoneer BankHint = "payoneer"
)

// PatternTag records which transfer-indicator pattern fired on a description.
type PatternTag string

const (
	PatternNone         PatternTag = ""
	PatternConversion   PatternTag = "currency-conversion"
	PatternSentTo       PatternTag = "sent-to"
	PatternReceivedFrom PatternTag = "received-from"
	PatternGeneric      PatternTag = "fund-transfer"
)

// TxID identifies a transaction by source file and row position. It is assigned
// once at ingestion and is unique across a detection run.
type TxID struct {
	Source int
	Row    int
}

// String renders a TxID like "s0r12".
func (id TxID) String() string {
	return fmt.Sprintf("s%dr%d", id.Source, id.Row)
}

// Less orders TxIDs by source file, then row.
func (id TxID) Less(other TxID) bool {
	if id.Source != other.Source {
		return id.Source < other.Source
	}
	return id.Row < other.Row
}

// Conversion holds the two legs of an inline currency conversion statement,
// e.g. "Converted 108.99 USD to 30,000.00 PKR".
type Conversion struct {
	FromAmount   decimal.Decimal
	FromCurrency string
	ToAmount     decimal.Decimal
	ToCurrency   string
}

// IsZero reports whether no conversion was stated.
func (c Conversion) IsZero() bool {
	return c.FromCurrency == "" && c.ToCurrency == ""
}

// Transaction is one normalized statement row.
type Transaction struct {
	ID        TxID
	Date      time.Time
	DateValid bool            // false when no known date format parsed the raw value
	Amount    decimal.Decimal // negative = outgoing, positive = incoming

	Description string
	Currency    string
	// ExchangeAmount is a secondary amount in another currency stated on the
	// row itself (e.g. an "Exchange To Amount" column). Zero when absent.
	ExchangeAmount decimal.Decimal
	Bank           BankHint

	// Set by the candidate classifier.
	TransferCandidate bool
	Pattern           PatternTag
	Counterparty      string     // name captured by sent-to / received-from phrasing
	Conversion        Conversion // legs captured by conversion phrasing
}

// HasExchangeAmount reports whether the row states a usable secondary amount.
func (t Transaction) HasExchangeAmount() bool {
	return !t.ExchangeAmount.IsZero()
}
