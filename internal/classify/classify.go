// Package classify marks transactions whose descriptions read like one leg of
// a transfer. Each transaction is tested independently against an ordered
// pattern list; the first pattern that fires is recorded.
package classify

import (
	"regexp"
	"strings"

	"github.com/ammar-qazi/HisaabFlow-sub002/internal/model"
	"github.com/ammar-qazi/HisaabFlow-sub002/internal/normalize"
)

var (
	conversionRe = regexp.MustCompile(`(?i)\bconverted\s+([0-9.,]+)\s*([A-Za-z]{3})\s+(?:to|into)\s+([0-9.,]+)\s*([A-Za-z]{3})`)
	sentRe       = regexp.MustCompile(`(?i)\b(?:sent(?:\s+money)?\s+to|money\s+sent\s+to|transfer(?:red)?\s+to)\s+([A-Za-z][A-Za-z .'-]*)`)
	receivedRe   = regexp.MustCompile(`(?i)\b(?:incoming\s+(?:fund\s+)?transfer\s+from|received(?:\s+money)?\s+from|transfer(?:red)?\s+from|funds?\s+received\s+from)\s+([A-Za-z][A-Za-z .'-]*)`)
	genericRe    = regexp.MustCompile(`(?i)\b(?:incoming|outgoing)\s+fund\s+transfer\b|\bwire\s+transfer\b|\binternal\s+transfer\b|\bbalance\s+transfer\b`)
)

// Match is the outcome of testing one description.
type Match struct {
	Pattern      model.PatternTag
	Counterparty string
	Conversion   model.Conversion
}

// Describe tests a description against the pattern list in order:
// currency-conversion, sent-to, received-from, generic fund transfer.
func Describe(desc string) (Match, bool) {
	if m := conversionRe.FindStringSubmatch(desc); m != nil {
		from, okFrom := normalize.ParseAmount(m[1])
		to, okTo := normalize.ParseAmount(m[3])
		match := Match{Pattern: model.PatternConversion}
		if okFrom && okTo {
			match.Conversion = model.Conversion{
				FromAmount:   from.Abs(),
				FromCurrency: strings.ToUpper(m[2]),
				ToAmount:     to.Abs(),
				ToCurrency:   strings.ToUpper(m[4]),
			}
		}
		return match, true
	}
	if m := sentRe.FindStringSubmatch(desc); m != nil {
		return Match{Pattern: model.PatternSentTo, Counterparty: cleanName(m[1])}, true
	}
	if m := receivedRe.FindStringSubmatch(desc); m != nil {
		return Match{Pattern: model.PatternReceivedFrom, Counterparty: cleanName(m[1])}, true
	}
	if genericRe.MatchString(desc) {
		return Match{Pattern: model.PatternGeneric}, true
	}
	return Match{}, false
}

// Apply flags transfer candidates across a pool. Pure per transaction; a
// zero-amount row is never a candidate regardless of its text.
func Apply(pool []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(pool))
	for i, txn := range pool {
		m, ok := Describe(txn.Description)
		if !ok || txn.Amount.IsZero() {
			out[i] = txn
			continue
		}
		txn.TransferCandidate = true
		txn.Pattern = m.Pattern
		txn.Counterparty = m.Counterparty
		txn.Conversion = m.Conversion
		out[i] = txn
	}
	return out
}

func cleanName(s string) string {
	return strings.Trim(strings.TrimSpace(s), ".-")
}
