package match

import (
	"fmt"

	"github.com/ammar-qazi/HisaabFlow-sub002/internal/model"
)

// ValidationError describes a single invariant violation in a detection result.
type ValidationError struct {
	Invariant   int
	PairID      string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.PairID, e.Description)
}

// ValidateResult enforces 5 invariants on a detection result.
func ValidateResult(r Result) []ValidationError {
	var errs []ValidationError

	known := make(map[model.MatchStrategy]bool, len(model.Strategies))
	for _, s := range model.Strategies {
		known[s] = true
	}

	// Invariant 1: no transaction participates in more than one pair.
	seen := make(map[model.TxID]string)
	for _, p := range r.Pairs {
		for _, id := range []model.TxID{p.Outgoing.ID, p.Incoming.ID} {
			if prev, dup := seen[id]; dup {
				errs = append(errs, ValidationError{
					Invariant:   1,
					PairID:      p.PairID,
					Description: fmt.Sprintf("transaction %s already used by pair %s", id, prev),
				})
			}
			seen[id] = p.PairID
		}
	}

	for _, p := range r.Pairs {
		// Invariant 2: the two legs come from different source files.
		if p.Outgoing.ID.Source == p.Incoming.ID.Source {
			errs = append(errs, ValidationError{
				Invariant:   2,
				PairID:      p.PairID,
				Description: fmt.Sprintf("both legs from source %d", p.Outgoing.ID.Source),
			})
		}

		// Invariant 3: confidence stays in [0,1].
		if p.Confidence < 0 || p.Confidence > 1 {
			errs = append(errs, ValidationError{
				Invariant:   3,
				PairID:      p.PairID,
				Description: fmt.Sprintf("confidence %v out of range", p.Confidence),
			})
		}

		// Invariant 4: signs point the right way.
		if !p.Outgoing.Amount.IsNegative() || !p.Incoming.Amount.IsPositive() {
			errs = append(errs, ValidationError{
				Invariant:   4,
				PairID:      p.PairID,
				Description: "outgoing leg must be negative and incoming leg positive",
			})
		}

		// Invariant 5: a known strategy is recorded.
		if !known[p.Strategy] {
			errs = append(errs, ValidationError{
				Invariant:   5,
				PairID:      p.PairID,
				Description: fmt.Sprintf("unknown strategy %q", p.Strategy),
			})
		}
	}

	// Invariant 1 also covers potentials: a matched transaction cannot be
	// reported as a potential transfer.
	for _, txn := range r.Potentials {
		if pairID, dup := seen[txn.ID]; dup {
			errs = append(errs, ValidationError{
				Invariant:   1,
				PairID:      pairID,
				Description: fmt.Sprintf("matched transaction %s also reported as potential", txn.ID),
			})
		}
	}

	return errs
}
