package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ammar-qazi/HisaabFlow-sub002/internal/model"
)

func TestScore_Base(t *testing.T) {
	out := tx(0, 0, "-100", date(2025, 3, 1))
	in := tx(1, 0, "100", date(2025, 3, 2))

	got := Score(out, in, model.StrategyAmountDate, false, "Ammar Qazi")
	assert.InDelta(t, 0.5, got, 0.0001)
}

func TestScore_ExchangeStrategyStrongest(t *testing.T) {
	out := tx(0, 0, "-100", date(2025, 3, 2))
	in := tx(1, 0, "100", date(2025, 3, 1))

	exchange := Score(out, in, model.StrategyExchangeAmount, false, "Ammar Qazi")
	heuristic := Score(out, in, model.StrategyAmountDate, false, "Ammar Qazi")
	assert.InDelta(t, 0.3, exchange-heuristic, 0.0001)
}

func TestScore_CrossBankBonus(t *testing.T) {
	out := tx(0, 0, "-100", date(2025, 3, 2))
	in := tx(1, 0, "100", date(2025, 3, 1))

	same := Score(out, in, model.StrategyAmountDate, false, "Ammar Qazi")
	cross := Score(out, in, model.StrategyAmountDate, true, "Ammar Qazi")
	assert.InDelta(t, 0.15, cross-same, 0.0001)
}

func TestScore_SameDayBonus(t *testing.T) {
	out := tx(0, 0, "-100", date(2025, 3, 1))
	in := tx(1, 0, "100", date(2025, 3, 1))

	got := Score(out, in, model.StrategyAmountDate, false, "Ammar Qazi")
	assert.InDelta(t, 0.6, got, 0.0001)
}

func TestScore_IdentityMentionBonus(t *testing.T) {
	out := tx(0, 0, "-100", date(2025, 3, 1))
	out.Description = "Sent money to Ammar Qazi"
	in := tx(1, 0, "100", date(2025, 3, 2))
	in.Description = "Incoming fund transfer from Ammar Qazi"

	with := Score(out, in, model.StrategyAmountDate, false, "Ammar Qazi")
	without := Score(out, in, model.StrategyAmountDate, false, "Somebody Else")
	assert.InDelta(t, 0.1, with-without, 0.0001)
}

func TestScore_ClampedToOne(t *testing.T) {
	out := tx(0, 0, "-100", date(2025, 3, 1))
	out.Description = "Sent money to Ammar Qazi"
	in := tx(1, 0, "100", date(2025, 3, 1))
	in.Description = "Received from Ammar Qazi"

	got := Score(out, in, model.StrategyExchangeAmount, true, "Ammar Qazi")
	assert.InDelta(t, 1.0, got, 0.0001)
}

func TestScore_Deterministic(t *testing.T) {
	out := tx(0, 0, "-100", date(2025, 3, 1))
	in := tx(1, 0, "100", date(2025, 3, 1))

	first := Score(out, in, model.StrategyCrossBankName, true, "Ammar Qazi")
	second := Score(out, in, model.StrategyCrossBankName, true, "Ammar Qazi")
	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, 0.0)
	assert.LessOrEqual(t, first, 1.0)
}
