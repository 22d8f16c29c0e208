package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusApproved.Terminal())
	assert.True(t, StatusRejected.Terminal())
}

func TestInvestmentAccruedToday(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

	t.Run("Never Accrued", func(t *testing.T) {
		inv := Investment{}
		assert.False(t, inv.AccruedToday(now))
	})

	t.Run("Accrued Yesterday", func(t *testing.T) {
		yesterday := now.Add(-24 * time.Hour)
		inv := Investment{LastAccrualAt: &yesterday}
		assert.False(t, inv.AccruedToday(now))
	})

	t.Run("Accrued Earlier Today", func(t *testing.T) {
		morning := time.Date(2025, 3, 14, 0, 30, 0, 0, time.UTC)
		inv := Investment{LastAccrualAt: &morning}
		assert.True(t, inv.AccruedToday(now))
	})

	t.Run("Accrued Exactly At Midnight", func(t *testing.T) {
		midnight := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
		inv := Investment{LastAccrualAt: &midnight}
		assert.True(t, inv.AccruedToday(now))
	})

	t.Run("Accrued Just Before Midnight", func(t *testing.T) {
		lateYesterday := time.Date(2025, 3, 13, 23, 59, 59, 0, time.UTC)
		inv := Investment{LastAccrualAt: &lateYesterday}
		assert.False(t, inv.AccruedToday(now))
	})
}
