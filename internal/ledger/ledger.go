package ledger

import (
	"errors"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/models"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Credit and Debit are the only two ways any code in this repo changes an
// account balance. Each locks the account row, applies the delta and appends
// the matching Transaction row inside the same database transaction, so the
// balance and the audit trail cannot diverge.

// Credit adds amount to the account balance and records a transaction of the
// given type. When tx is nil a fresh transaction is opened.
func Credit(tx *gorm.DB, accountID int64, amount float64,
	txType models.TransactionType, description string, adminID *int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	run := func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(
			&account, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return logger.WrapError(err, "")
		}

		if err := tx.Model(&account).Update("balance", gorm.Expr(
			"balance + ?", amount)).Error; err != nil {
			return logger.WrapError(err, "")
		}

		if err := tx.Create(&models.Transaction{
			AccountID:   accountID,
			Type:        txType,
			Amount:      amount,
			Description: description,
			AdminID:     adminID,
		}).Error; err != nil {
			return logger.WrapError(err, "")
		}

		logger.Audit("credit account=%d amount=%.2f type=%s", accountID, amount, txType)

		return nil
	}

	if tx == nil {
		return db.DB.Transaction(run)
	}
	return run(tx)
}

// Debit subtracts amount from the account balance, failing with
// ErrInsufficientBalance when the locked balance cannot cover it. The
// transaction row is recorded with a negative amount.
func Debit(tx *gorm.DB, accountID int64, amount float64,
	txType models.TransactionType, description string, adminID *int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	run := func(tx *gorm.DB) error {
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

		if err := tx.Model(&account).Update("balance", gorm.Expr(
			"balance - ?", amount)).Error; err != nil {
			return logger.WrapError(err, "")
		}

		if err := tx.Create(&models.Transaction{
			AccountID:   accountID,
			Type:        txType,
			Amount:      -amount,
			Description: description,
			AdminID:     adminID,
		}).Error; err != nil {
			return logger.WrapError(err, "")
		}

		logger.Audit("debit account=%d amount=%.2f type=%s", accountID, amount, txType)

		return nil
	}

	if tx == nil {
		return db.DB.Transaction(run)
	}
	return run(tx)
}
