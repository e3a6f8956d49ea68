package match

import "github.com/ammar-qazi/HisaabFlow-sub002/internal/model"

// Evidence weights. Base plus every increment can exceed 1, hence the clamp.
const (
	baseScore     = 0.50
	exchangeBonus = 0.30 // exact exchange-amount is the strongest evidence
	crossBonus    = 0.15 // the two legs carry different known bank hints
	sameDayBonus  = 0.10
	identityBonus = 0.10 // both descriptions mention the configured identity
)

// Score weighs the evidence for a pair into a [0,1] confidence. Pure and
// deterministic; the engine computes it once at acceptance time.
func Score(out, in model.Transaction, strategy model.MatchStrategy, isCrossBank bool, identity string) float64 {
	score := baseScore
	if isCrossBank {
		score += crossBonus
	}
	if strategy == model.StrategyExchangeAmount {
		score += exchangeBonus
	}
	if sameDay(out.Date, in.Date) {
		score += sameDayBonus
	}
	if mentions(out.Description, identity) && mentions(in.Description, identity) {
		score += identityBonus
	}

	if score > 1 {
		return 1
	}
	if score < 0 {
		return 0
	}
	return score
}
