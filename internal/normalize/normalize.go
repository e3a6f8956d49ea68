// Package normalize turns raw statement rows into canonical transactions:
// signed decimal amounts, validated dates, optional exchange amounts, and a
// source-bank hint. Parsing is lenient; a bad value never fails a batch.
package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammar-qazi/HisaabFlow-sub002/internal/ingest"
	"github.com/ammar-qazi/HisaabFlow-sub002/internal/model"
)

// dateFormats is the fixed ordered list of accepted date layouts. The first
// layout that parses wins.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"01/02/2006",
	"02-01-2006",
	"02.01.2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// Column name variants probed per canonical field. Header names arrive
// lowercased from ingest.
var (
	dateFields     = []string{"date", "completed date", "posting date", "transaction date", "value date", "timestamp", "created on"}
	amountFields   = []string{"amount", "transaction amount", "value"}
	descFields     = []string{"description", "details", "narration", "title", "reference", "merchant"}
	currencyFields = []string{"currency", "currency code"}
	exchangeFields = []string{"exchange to amount", "exchange amount", "exchange_to_amount", "converted amount", "to amount", "destination amount"}
)

// HintRule maps a filename/description substring to a bank hint.
type HintRule struct {
	Match string
	Bank  model.BankHint
}

// builtinHints cover the institutions seen in the wild. Config rules run first.
var builtinHints = []HintRule{
	{Match: "transferwise", Bank: model.BankWise},
	{Match: "wise", Bank: model.BankWise},
	{Match: "revolut", Bank: model.BankRevolut},
	{Match: "nayapay", Bank: model.BankNayaPay},
	{Match: "payoneer", Bank: model.BankPayoneer},
}

// Stats counts recoveries made while normalizing a batch. Purely informational.
type Stats struct {
	Rows        int
	DateInvalid int // rows whose date matched no known layout
	ZeroAmount  int // rows whose amount was empty or unparsable
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Rows += other.Rows
	s.DateInvalid += other.DateInvalid
	s.ZeroAmount += other.ZeroAmount
}

// Normalizer converts ingest batches into model transactions.
type Normalizer struct {
	hints []HintRule
}

// New creates a Normalizer. Extra hint rules take precedence over built-ins.
func New(extra []HintRule) *Normalizer {
	hints := make([]HintRule, 0, len(extra)+len(builtinHints))
	hints = append(hints, extra...)
	hints = append(hints, builtinHints...)
	return &Normalizer{hints: hints}
}

// Batch normalizes every row of a batch. Side-effect-free; rows with
// unparsable values are kept (with safe defaults) and counted in Stats so
// callers can audit data quality.
func (n *Normalizer) Batch(b ingest.Batch) ([]model.Transaction, Stats) {
	var (
		txns  []model.Transaction
		stats Stats
	)
	for _, row := range b.Rows {
		txn := n.row(b, row, &stats)
		txns = append(txns, txn)
		stats.Rows++
	}
	return txns, stats
}

func (n *Normalizer) row(b ingest.Batch, row ingest.Row, stats *Stats) model.Transaction {
	txn := model.Transaction{
		ID:          model.TxID{Source: b.Source, Row: row.Index},
		Description: probe(row.Fields, descFields),
		Currency:    strings.ToUpper(probe(row.Fields, currencyFields)),
	}

	amount, ok := ParseAmount(probe(row.Fields, amountFields))
	if !ok {
		stats.ZeroAmount++
	}
	txn.Amount = amount

	date, ok := ParseDate(probe(row.Fields, dateFields))
	if ok {
		txn.Date = date
		txn.DateValid = true
	} else {
		stats.DateInvalid++
	}

	if raw := probe(row.Fields, exchangeFields); raw != "" {
		if ex, ok := ParseAmount(raw); ok && !ex.IsZero() {
			txn.ExchangeAmount = ex.Abs()
		}
	}

	txn.Bank = n.InferBank(b.Name, txn.Description)
	return txn
}

// ParseAmount parses a raw amount string. Currency symbols and thousands
// separators are stripped; parenthesized values are negative; a leading
// explicit sign is honored. ok is false when nothing numeric was found, in
// which case the amount is zero. Callers must tolerate zero-amount rows.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"`)
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9' || r == '.':
			b.WriteRune(r)
		case r == ',':
			// thousands separator
		case r == '-' || r == '+':
			if b.Len() == 0 {
				b.WriteRune(r)
			}
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero, false
	}
	if neg {
		d = d.Neg()
	}
	return d, true
}

// ParseDate tries each known layout in order. ok is false when none parsed;
// the row is then excluded from matching rather than given a fabricated date.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// InferBank maps a filename or description onto a bank hint using the
// configured rules, falling back to unknown.
func (n *Normalizer) InferBank(filename, description string) model.BankHint {
	name := strings.ToLower(filename)
	desc := strings.ToLower(description)
	for _, rule := range n.hints {
		m := strings.ToLower(rule.Match)
		if m == "" {
			continue
		}
		if strings.Contains(name, m) || strings.Contains(desc, m) {
			return rule.Bank
		}
	}
	return model.BankUnknown
}

func probe(fields map[string]string, names []string) string {
	for _, name := range names {
		if v, ok := fields[name]; ok && v != "" {
			return v
		}
	}
	return ""
}
