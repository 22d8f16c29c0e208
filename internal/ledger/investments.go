package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/models"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateInvestment records a new pending investment. No balance effect until
// an admin approves it.
func CreateInvestment(accountID int64, amount float64, proofRef string) (*models.Investment, error) {
	if amount <= 0 || amount < MinInvestmentAmount {
		return nil, ErrInvalidAmount
	}

	exists, err := models.CheckIfAccountExistsByID(accountID)
	if err != nil {
		return nil, logger.WrapError(err, "")
	}
	if !exists {
		return nil, ErrNotFound
	}

	inv := models.Investment{
		AccountID: accountID,
		Amount:    amount,
		Status:    models.StatusPending,
		ProofRef:  proofRef,
	}
	if err := db.DB.Create(&inv).Error; err != nil {
		return nil, logger.WrapError(err, "")
	}

	return &inv, nil
}

// ApproveInvestment finalizes a pending investment. Approval activates
// profit accrual and bumps total_invested; the principal itself is only
// credited when the principal-credit mode is switched on. The referral
// engine runs in the same transaction when this is the member's first
// approved investment.
func ApproveInvestment(investmentID, adminID int64) (*models.Investment, error) {
	var inv models.Investment

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(
			&inv, investmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return logger.WrapError(err, "")
		}

		now := time.Now()
		res := tx.Model(&models.Investment{}).
			Where("id = ? AND status = ?", investmentID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":       models.StatusApproved,
				"approved_by":  adminID,
				"finalized_at": now,
			})
		if res.Error != nil {
			return logger.WrapError(res.Error, "")
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyFinalized
		}

		var account models.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(
			&account, inv.AccountID).Error; err != nil {
			return logger.WrapError(err, "")
		}

		if err := tx.Model(&account).Update("total_invested", gorm.Expr(
			"total_invested + ?", inv.Amount)).Error; err != nil {
			return logger.WrapError(err, "")
		}

		if CreditPrincipalOnApproval {
			if err := Credit(tx, inv.AccountID, inv.Amount, models.TxDepositApproved,
				fmt.Sprintf("investment #%d approved", inv.ID), &adminID); err != nil {
				return err
			}
		}

		approvedBefore, err := models.CountApprovedInvestments(tx, inv.AccountID, inv.ID)
		if err != nil {
			return err
		}

		if err := evaluateReferral(tx, inv.AccountID, inv.ID,
			inv.Amount, approvedBefore == 0); err != nil {
			return err
		}

		inv.Status = models.StatusApproved
		inv.ApprovedBy = &adminID
		inv.FinalizedAt = &now

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Audit("investment approved id=%d account=%d amount=%.2f admin=%d",
		inv.ID, inv.AccountID, inv.Amount, adminID)

	return &inv, nil
}

// RejectInvestment finalizes a pending investment with no balance effect.
func RejectInvestment(investmentID, adminID int64) (*models.Investment, error) {
	var inv models.Investment

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(
			&inv, investmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return logger.WrapError(err, "")
		}

		now := time.Now()
		res := tx.Model(&models.Investment{}).
			Where("id = ? AND status = ?", investmentID, models.StatusPending).
			Updates(map[string]interface{}{
				"status":       models.StatusRejected,
				"approved_by":  adminID,
				"finalized_at": now,
			})
		if res.Error != nil {
			return logger.WrapError(res.Error, "")
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyFinalized
		}

		inv.Status = models.StatusRejected
		inv.ApprovedBy = &adminID
		inv.FinalizedAt = &now

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

// AccrueDailyProfit credits one day of profit to the investment owner.
// Idempotent per calendar day: a second call the same day fails with
// ErrAlreadyAccruedToday and leaves every counter untouched.
func AccrueDailyProfit(investmentID int64, profitAmount float64) (*models.Investment, error) {
	if profitAmount <= 0 {
		return nil, ErrInvalidAmount
	}

	var inv models.Investment

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(
			&inv, investmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return logger.WrapError(err, "")
		}

		if inv.Status != models.StatusApproved {
			return ErrNotApproved
		}

		now := time.Now()
		if inv.AccruedToday(now) {
			return ErrAlreadyAccruedToday
		}

		if err := tx.Model(&inv).Updates(map[string]interface{}{
			"days_active":     gorm.Expr("days_active + 1"),
			"profit_accrued":  gorm.Expr("profit_accrued + ?", profitAmount),
			"last_accrual_at": now,
		}).Error; err != nil {
			return logger.WrapError(err, "")
		}

		if err := Credit(tx, inv.AccountID, profitAmount, models.TxProfitAccrual,
			fmt.Sprintf("daily profit for investment #%d", inv.ID), nil); err != nil {
			return err
		}

		if err := tx.Model(&models.Account{}).
			Where("id = ?", inv.AccountID).
			Update("total_earned", gorm.Expr(
				"total_earned + ?", profitAmount)).Error; err != nil {
			return logger.WrapError(err, "")
		}

		inv.DaysActive++
		inv.ProfitAccrued += profitAmount
		inv.LastAccrualAt = &now

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

// AccrualRunResult summarizes one scheduled accrual sweep.
type AccrualRunResult struct {
	Accrued     int
	Skipped     int
	TotalProfit float64
}

// AccrueAllActiveInvestments applies the configured daily profit percent to
// every approved investment. Investments already accrued today are skipped,
// so re-running the sweep within one day is harmless.
func AccrueAllActiveInvestments() (*AccrualRunResult, error) {
	var ids []int64
	err := db.DB.Model(&models.Investment{}).
		Where("status = ?", models.StatusApproved).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, logger.WrapError(err, "")
	}

	var result AccrualRunResult
	for _, id := range ids {
		var inv models.Investment
		if err := db.DB.First(&inv, id).Error; err != nil {
			return nil, logger.WrapError(err, "")
		}

		profit := DailyProfit(inv.Amount)
		if _, err := AccrueDailyProfit(id, profit); err != nil {
			if errors.Is(err, ErrAlreadyAccruedToday) || errors.Is(err, ErrNotApproved) {
				result.Skipped++
				continue
			}
			return nil, err
		}

		result.Accrued++
		result.TotalProfit += profit
	}

	logger.Info("accrual run finished: accrued=%d skipped=%d total=%.2f",
		result.Accrued, result.Skipped, result.TotalProfit)

	return &result, nil
}
