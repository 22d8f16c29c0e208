package models

import (
	"errors"
	"time"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"gorm.io/gorm"
)

type ReferralStatus string

const (
	ReferralPending ReferralStatus = "Pending"
	ReferralPaid    ReferralStatus = "Paid"
)

// Referral links a referrer to a referred member. The bonus is paid at most
// once, on the referred member's first approved investment; BonusPaid only
// ever moves false -> true.
type Referral struct {
	ID                int64 `gorm:"primaryKey,autoIncrement"`
	ReferrerID        int64 `gorm:"index"`
	ReferredID        int64 `gorm:"uniqueIndex"`
	ReferredNickname  string
	BonusAmount       float64
	Status            ReferralStatus `gorm:"index"`
	FirstInvestment   bool
	BonusPaid         bool
	FirstInvestmentID *int64      `gorm:"index"`
	Investment        *Investment `gorm:"foreignKey:FirstInvestmentID"`
	PaidAt            *time.Time
	CreatedAt         time.Time
}

// GetPendingReferralForReferred loads the pending referral of a referred
// member. Returns (nil, nil) when the member was not referred or the bonus
// was already paid.
func GetPendingReferralForReferred(tx *gorm.DB, referredID int64) (*Referral, error) {
	if tx == nil {
		tx = db.DB
	}

	var ref Referral
	err := tx.Where("referred_id = ? AND status = ?", referredID, ReferralPending).
		First(&ref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, logger.WrapError(err, "")
	}

	return &ref, nil
}
