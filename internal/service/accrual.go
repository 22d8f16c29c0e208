package service

import (
	"fmt"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/ledger"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/notify"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"github.com/robfig/cron/v3"
)

// StartAccrualScheduler runs the daily profit sweep shortly after midnight.
// The sweep itself skips investments already accrued today, so an extra
// manual run never double-credits.
func StartAccrualScheduler() *cron.Cron {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 5 0 * * *", func() {
		result, err := ledger.AccrueAllActiveInvestments()
		if err != nil {
			logger.Error("daily accrual run failed: %v", err)
			notify.Admins(fmt.Sprintf("Daily accrual run failed: %v", err))
			return
		}

		notify.Admins(fmt.Sprintf(
			"Daily accrual done: %d investments credited, %d skipped, total profit %.2f.",
			result.Accrued, result.Skipped, result.TotalProfit))
	})
	if err != nil {
		logger.Fatal("unable to schedule accrual job: %v", err)
	}

	c.Start()
	logger.Info("Accrual scheduler started")

	return c
}
