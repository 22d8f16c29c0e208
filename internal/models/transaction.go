package models

import (
	"database/sql"
	"time"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"gorm.io/gorm"
)

type TransactionType string

const (
	TxDepositApproved    TransactionType = "deposit_approved"
	TxWithdrawalApproved TransactionType = "withdrawal_approved"
	TxReferralBonus      TransactionType = "referral_bonus"
	TxProfitAccrual      TransactionType = "profit_accrual"
	TxAdminAdjustment    TransactionType = "admin_adjustment"
)

// Transaction is the append-only audit trail of balance changes. Amount is
// signed: credits positive, debits negative. Rows are written only by the
// ledger credit/debit gateway, inside the same database transaction as the
// balance update.
type Transaction struct {
	ID          int64           `gorm:"primaryKey,autoIncrement"`
	AccountID   int64           `gorm:"index;not null;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Type        TransactionType `gorm:"index"`
	Amount      float64
	Description string
	AdminID     *int64
	CreatedAt   time.Time
}

// SumTransactionsForAccount returns the signed sum of all transactions of
// the account. Used to reconcile against the stored balance.
func SumTransactionsForAccount(tx *gorm.DB, accountID int64) (float64, error) {
	if tx == nil {
		tx = db.DB
	}

	var sum sql.NullFloat64
	if err := tx.Model(&Transaction{}).
		Where("account_id = ?", accountID).
		Select("SUM(amount)").
		Scan(&sum).Error; err != nil {
		return 0, logger.WrapError(err, "")
	}

	if sum.Valid {
		return sum.Float64, nil
	}

	return 0, nil
}
