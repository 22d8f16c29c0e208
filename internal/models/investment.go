package models

import (
	"time"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"gorm.io/gorm"
)

// RecordStatus is the admin-approval state shared by investments and
// withdrawals. Pending is the only non-terminal state.
type RecordStatus string

const (
	StatusPending  RecordStatus = "Pending"
	StatusApproved RecordStatus = "Approved"
	StatusRejected RecordStatus = "Rejected"
)

// Terminal reports whether the status allows no further transition.
func (s RecordStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Investment is a member deposit progressing through admin approval.
// Principal is not returned to balance; while approved, the record accrues
// daily profit into the owner's balance.
type Investment struct {
	ID            int64 `gorm:"primaryKey,autoIncrement"`
	AccountID     int64 `gorm:"index;not null;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Amount        float64
	Status        RecordStatus `gorm:"index"`
	ProofRef      string       // opaque payment proof reference, e.g. a telegram file id
	DaysActive    int
	ProfitAccrued float64
	LastAccrualAt *time.Time
	ApprovedBy    *int64
	FinalizedAt   *time.Time
	CreatedAt     time.Time
}

// AccruedToday reports whether a daily profit accrual was already applied
// during the calendar day containing now.
func (i *Investment) AccruedToday(now time.Time) bool {
	if i.LastAccrualAt == nil {
		return false
	}

	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !i.LastAccrualAt.Before(startOfToday)
}

// CountApprovedInvestments counts approved investments of the account,
// excluding the given investment id.
func CountApprovedInvestments(tx *gorm.DB, accountID, excludeID int64) (int64, error) {
	if tx == nil {
		tx = db.DB
	}

	var count int64
	err := tx.Model(&Investment{}).
		Where("account_id = ? AND status = ? AND id <> ?", accountID, StatusApproved, excludeID).
		Count(&count).Error
	if err != nil {
		return 0, logger.WrapError(err, "")
	}

	return count, nil
}

func CountActiveInvestments(tx *gorm.DB, accountID int64) (int64, error) {
	if tx == nil {
		tx = db.DB
	}

	var count int64
	err := tx.Model(&Investment{}).
		Where("account_id = ? AND status = ?", accountID, StatusApproved).
		Count(&count).Error
	if err != nil {
		return 0, logger.WrapError(err, "")
	}

	return count, nil
}
