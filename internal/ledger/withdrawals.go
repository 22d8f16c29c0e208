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

// RequestWithdrawal creates a pending withdrawal after checking the amount
// against the current balance. No hold is placed; the balance check is
// repeated under a row lock at approval time, which is what actually
// prevents overdrafts from concurrent approvals.
func RequestWithdrawal(accountID int64, amount float64, method, details string) (*models.Withdrawal, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var withdrawal models.Withdrawal

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(
			&account, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return logger.WrapError(err, "")
		}

		if account.Balance < amount {
			return ErrInsufficientBalance
		}

		fee := Fees.Apply(amount)
		withdrawal = models.Withdrawal{
			AccountID: accountID,
			Amount:    amount,
			Fee:       fee,
			NetAmount: amount - fee,
			Method:    method,
			Details:   details,
			Status:    models.StatusPending,
		}

		if err := tx.Create(&withdrawal).Error; err != nil {
			return logger.WrapError(err, "")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &withdrawal, nil
}

// ApproveWithdrawal finalizes a pending withdrawal and debits the full
// requested amount (the fee stays with the platform). The debit re-validates
// the balance under the account row lock; on ErrInsufficientBalance the
// whole transaction rolls back and the withdrawal stays pending.
func ApproveWithdrawal(withdrawalID, adminID int64) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(
			&withdrawal, withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return logger.WrapError(err, "")
		}

		now := time.Now()
		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", withdrawalID, models.StatusPending).
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

		if err := Debit(tx, withdrawal.AccountID, withdrawal.Amount,
			models.TxWithdrawalApproved,
			fmt.Sprintf("withdrawal #%d approved", withdrawal.ID), &adminID); err != nil {
			return err
		}

		withdrawal.Status = models.StatusApproved
		withdrawal.ApprovedBy = &adminID
		withdrawal.FinalizedAt = &now

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Audit("withdrawal approved id=%d account=%d amount=%.2f net=%.2f admin=%d",
		withdrawal.ID, withdrawal.AccountID, withdrawal.Amount, withdrawal.NetAmount, adminID)

	return &withdrawal, nil
}

// RejectWithdrawal finalizes a pending withdrawal with no balance effect.
func RejectWithdrawal(withdrawalID, adminID int64) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(
			&withdrawal, withdrawalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return logger.WrapError(err, "")
		}

		now := time.Now()
		res := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", withdrawalID, models.StatusPending).
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

		withdrawal.Status = models.StatusRejected
		withdrawal.ApprovedBy = &adminID
		withdrawal.FinalizedAt = &now

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &withdrawal, nil
}
