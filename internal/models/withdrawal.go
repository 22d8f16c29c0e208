package models

import (
	"time"
)

// Withdrawal is a payout request. The full requested amount is debited on
// approval, the fee stays with the platform and the member receives NetAmount.
type Withdrawal struct {
	ID          int64 `gorm:"primaryKey,autoIncrement"`
	AccountID   int64 `gorm:"index;not null;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Amount      float64
	Fee         float64
	NetAmount   float64
	Method      string
	Details     string
	Status      RecordStatus `gorm:"index"`
	ApprovedBy  *int64
	FinalizedAt *time.Time
	CreatedAt   time.Time
}
