package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeScheduleApply(t *testing.T) {
	t.Run("Flat Percent", func(t *testing.T) {
		fees := FeeSchedule{Percent: 10}
		assert.InDelta(t, 0.3, fees.Apply(3), 1e-9)
		assert.InDelta(t, 10, fees.Apply(100), 1e-9)
	})

	t.Run("Minimum Fee Floor", func(t *testing.T) {
		fees := FeeSchedule{Percent: 1, MinFee: 5}
		assert.InDelta(t, 5, fees.Apply(100), 1e-9, "1%% of 100 is below the floor")
		assert.InDelta(t, 10, fees.Apply(1000), 1e-9, "above the floor the percent applies")
	})

	t.Run("Fee Never Exceeds Amount", func(t *testing.T) {
		fees := FeeSchedule{Percent: 10, MinFee: 50}
		fee := fees.Apply(20)
		assert.InDelta(t, 20, fee, 1e-9)
		assert.GreaterOrEqual(t, 20-fee, 0.0, "net amount must stay non-negative")
	})

	t.Run("Zero Percent", func(t *testing.T) {
		fees := FeeSchedule{}
		assert.Zero(t, fees.Apply(500))
	})
}

func TestReferralBonus(t *testing.T) {
	orig := ReferralBonusPercent
	defer func() { ReferralBonusPercent = orig }()

	ReferralBonusPercent = 10
	assert.InDelta(t, 20, ReferralBonus(200), 1e-9)

	ReferralBonusPercent = 25
	assert.InDelta(t, 50, ReferralBonus(200), 1e-9)
}

func TestDailyProfit(t *testing.T) {
	orig := DailyProfitPercent
	defer func() { DailyProfitPercent = orig }()

	DailyProfitPercent = 5
	assert.InDelta(t, 5, DailyProfit(100), 1e-9)

	DailyProfitPercent = 1.5
	assert.InDelta(t, 15, DailyProfit(1000), 1e-9)
}
