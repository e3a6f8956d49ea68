// Package match pairs outgoing transfer candidates with incoming transactions
// across statement files. One detection run is a single greedy pass in stable
// input order; every accepted pair consumes both transactions.
package match

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammar-qazi/HisaabFlow-sub002/internal/model"
	"github.com/ammar-qazi/HisaabFlow-sub002/internal/pairid"
)

// amountTolerance is the absolute tolerance for amount equality checks.
var amountTolerance = decimal.New(1, -2) // 0.01

// Options configures an Engine.
type Options struct {
	// Identity is the account holder's name, used by the name-based strategy
	// and the scorer. Required.
	Identity string
	// DateTolerance bounds the date gap for exchange-amount, conversion, and
	// amount-date matching. Default 24h.
	DateTolerance time.Duration
	// NameDateTolerance is the relaxed window for cross-bank name matching.
	// Default 3x DateTolerance.
	NameDateTolerance time.Duration
	// Logger receives per-decision trace output. Optional.
	Logger *slog.Logger
}

// Engine detects transfer pairs in a pool of normalized transactions.
type Engine struct {
	identity    string
	dateTol     time.Duration
	nameDateTol time.Duration
	log         *slog.Logger
}

// NewEngine validates options and constructs an Engine. Configuration errors
// are fatal for the run, unlike per-row data problems.
func NewEngine(opts Options) (*Engine, error) {
	if strings.TrimSpace(opts.Identity) == "" {
		return nil, errors.New("match: identity name is required")
	}
	if opts.DateTolerance == 0 {
		opts.DateTolerance = 24 * time.Hour
	}
	if opts.DateTolerance < 0 {
		return nil, fmt.Errorf("match: invalid date tolerance %s", opts.DateTolerance)
	}
	if opts.NameDateTolerance == 0 {
		opts.NameDateTolerance = 3 * opts.DateTolerance
	}
	if opts.NameDateTolerance < 0 {
		return nil, fmt.Errorf("match: invalid name date tolerance %s", opts.NameDateTolerance)
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		identity:    strings.TrimSpace(opts.Identity),
		dateTol:     opts.DateTolerance,
		nameDateTol: opts.NameDateTolerance,
		log:         log,
	}, nil
}

// Summary reports aggregate counts for one detection run.
type Summary struct {
	Transactions int
	Candidates   int
	Pairs        int
	Potentials   int
	ByStrategy   map[model.MatchStrategy]int
	DateInvalid  int // transactions excluded from matching for lack of a valid date
	ZeroAmount   int
}

// Result is the full output of one detection run.
type Result struct {
	Pairs      []model.TransferPair
	Potentials []model.Transaction
	Summary    Summary
}

// Detect runs one greedy deterministic pass over the pool. Each transaction
// ends the run matched, potential, or untouched; no transaction appears in
// two pairs and no pair joins two rows from the same source file.
func (e *Engine) Detect(pool []model.Transaction) Result {
	ordered := make([]model.Transaction, len(pool))
	copy(ordered, pool)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ID.Less(ordered[j].ID)
	})

	summary := Summary{
		Transactions: len(ordered),
		ByStrategy:   make(map[model.MatchStrategy]int),
	}
	matched := make(map[model.TxID]bool)

	var incomings []model.Transaction
	for _, txn := range ordered {
		if !txn.DateValid {
			summary.DateInvalid++
			continue
		}
		if txn.Amount.IsZero() {
			summary.ZeroAmount++
			continue
		}
		if txn.TransferCandidate {
			summary.Candidates++
		}
		// The incoming side is any positive-amount row: incoming transfer
		// descriptions vary too much to require a candidate flag.
		if txn.Amount.IsPositive() {
			incomings = append(incomings, txn)
		}
	}

	var pairs []model.TransferPair
	for _, out := range ordered {
		if !out.TransferCandidate || !out.DateValid || !out.Amount.IsNegative() {
			continue
		}
		if matched[out.ID] {
			continue
		}

		pair, ok := e.matchOutgoing(out, incomings, matched)
		if !ok {
			continue
		}
		matched[pair.Outgoing.ID] = true
		matched[pair.Incoming.ID] = true
		pairs = append(pairs, pair)
		summary.ByStrategy[pair.Strategy]++
		e.log.Debug("pair accepted",
			"pair_id", pair.PairID,
			"outgoing", pair.Outgoing.ID.String(),
			"incoming", pair.Incoming.ID.String(),
			"strategy", string(pair.Strategy),
			"confidence", pair.Confidence)
	}

	var potentials []model.Transaction
	for _, txn := range ordered {
		if txn.TransferCandidate && txn.DateValid && !matched[txn.ID] {
			potentials = append(potentials, txn)
		}
	}

	summary.Pairs = len(pairs)
	summary.Potentials = len(potentials)
	return Result{Pairs: pairs, Potentials: potentials, Summary: summary}
}

// matchOutgoing evaluates strategies in priority order and accepts the first
// one producing an eligible incoming transaction.
func (e *Engine) matchOutgoing(out model.Transaction, incomings []model.Transaction, matched map[model.TxID]bool) (model.TransferPair, bool) {
	for _, strategy := range model.Strategies {
		var eligible []model.Transaction
		for _, in := range incomings {
			if matched[in.ID] || in.ID.Source == out.ID.Source {
				continue
			}
			if e.eligible(strategy, out, in) {
				eligible = append(eligible, in)
			}
		}
		if len(eligible) == 0 {
			continue
		}

		in := closest(out, eligible)
		confidence := Score(out, in, strategy, crossBank(out, in), e.identity)
		return model.TransferPair{
			PairID:        pairid.New(out.ID, in.ID),
			Outgoing:      out,
			Incoming:      in,
			Strategy:      strategy,
			Confidence:    confidence,
			MatchedAmount: matchedAmount(strategy, out, in),
		}, true
	}
	return model.TransferPair{}, false
}

// eligible applies one strategy's conditions. A strategy whose required
// fields are absent simply does not fire.
func (e *Engine) eligible(strategy model.MatchStrategy, out, in model.Transaction) bool {
	switch strategy {
	case model.StrategyExchangeAmount:
		if !out.HasExchangeAmount() {
			return false
		}
		return amountsEqual(in.Amount, out.ExchangeAmount) && withinWindow(out.Date, in.Date, e.dateTol)

	case model.StrategyConversion:
		if out.Conversion.IsZero() || in.Conversion.IsZero() {
			return false
		}
		if out.Conversion.FromCurrency != in.Conversion.FromCurrency ||
			out.Conversion.ToCurrency != in.Conversion.ToCurrency {
			return false
		}
		if !amountsEqual(out.Conversion.FromAmount, in.Conversion.FromAmount) ||
			!amountsEqual(out.Conversion.ToAmount, in.Conversion.ToAmount) {
			return false
		}
		return sameDay(out.Date, in.Date) || withinWindow(out.Date, in.Date, e.dateTol)

	case model.StrategyCrossBankName:
		if !e.sharedName(out, in) {
			return false
		}
		amountOK := amountsEqual(out.Amount.Abs(), in.Amount) ||
			(out.HasExchangeAmount() && amountsEqual(out.ExchangeAmount, in.Amount))
		return amountOK && withinWindow(out.Date, in.Date, e.nameDateTol)

	case model.StrategyAmountDate:
		return amountsEqual(out.Amount.Abs(), in.Amount) && withinWindow(out.Date, in.Date, e.dateTol)
	}
	return false
}

// sharedName reports whether the two descriptions reference the configured
// identity, or mention the same extracted counterparty name.
func (e *Engine) sharedName(out, in model.Transaction) bool {
	if mentions(out.Description, e.identity) && mentions(in.Description, e.identity) {
		return true
	}
	if out.Counterparty != "" && strings.EqualFold(out.Counterparty, in.Counterparty) {
		return true
	}
	if out.Counterparty != "" && mentions(in.Description, out.Counterparty) {
		return true
	}
	if in.Counterparty != "" && mentions(out.Description, in.Counterparty) {
		return true
	}
	return false
}

// closest picks the incoming with the smallest date gap, breaking remaining
// ties by lowest (source,row). Deterministic by construction.
func closest(out model.Transaction, eligible []model.Transaction) model.Transaction {
	best := eligible[0]
	bestGap := dateGap(out.Date, best.Date)
	for _, in := range eligible[1:] {
		gap := dateGap(out.Date, in.Date)
		if gap < bestGap || (gap == bestGap && in.ID.Less(best.ID)) {
			best = in
			bestGap = gap
		}
	}
	return best
}

func matchedAmount(strategy model.MatchStrategy, out, in model.Transaction) decimal.Decimal {
	if strategy == model.StrategyExchangeAmount {
		return out.ExchangeAmount
	}
	return in.Amount
}

func amountsEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(amountTolerance)
}

func withinWindow(a, b time.Time, tol time.Duration) bool {
	return dateGap(a, b) <= tol
}

func dateGap(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func mentions(description, name string) bool {
	if name == "" {
		return false
	}
	return strings.Contains(strings.ToLower(description), strings.ToLower(name))
}

func crossBank(out, in model.Transaction) bool {
	return out.Bank != in.Bank && out.Bank != model.BankUnknown && in.Bank != model.BankUnknown
}
