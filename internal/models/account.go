package models

import (
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"gorm.io/gorm"
)

const referralCodeLength = 8

const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Account is the aggregate root of a member's money state. Balance is
// mutated only through the ledger package, never by handlers directly.
type Account struct {
	ID               int64  `gorm:"primaryKey"` // telegram user id
	Nickname         string `gorm:"unique"`
	Balance          float64
	TotalInvested    float64
	TotalEarned      float64
	ReferralEarnings float64
	ReferralCount    int
	ReferralCode     string `gorm:"uniqueIndex"`
	ReferredBy       *int64 `gorm:"index"`
	Banned           bool
	CreatedAt        time.Time
}

// NewReferralCode generates a short uppercase code. Uniqueness is enforced
// by the database index, callers retry on a constraint violation.
func NewReferralCode() (string, error) {
	code := make([]byte, referralCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralCodeAlphabet))))
		if err != nil {
			return "", logger.WrapError(err, "")
		}
		code[i] = referralCodeAlphabet[n.Int64()]
	}

	return string(code), nil
}

func CheckIfAccountExistsByID(accountID int64) (bool, error) {
	var exists bool
	err := db.DB.Model(&Account{}).
		Select("count(*) > 0").
		Where("id = ?", accountID).
		Scan(&exists).Error
	if err != nil {
		return true, logger.WrapError(err, "")
	}

	return exists, nil
}

func CheckIfAccountExistsByNickname(nn string) (bool, error) {
	var exists bool

	err := db.DB.Model(&Account{}).
		Select("count(*) > 0").
		Where("nickname = ?", nn).
		Scan(&exists).Error
	if err != nil {
		return true, logger.WrapError(err, "")
	}

	return exists, nil
}

// GetAccountByReferralCode resolves a referral code to its owning account.
// Returns (nil, nil) when the code does not exist.
func GetAccountByReferralCode(tx *gorm.DB, code string) (*Account, error) {
	if tx == nil {
		tx = db.DB
	}

	var account Account
	err := tx.Where("referral_code = ?", code).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, logger.WrapError(err, "")
	}

	return &account, nil
}

// IsAccountBanned reports the soft-ban flag. Unknown accounts read as banned
// so the auth middleware fails closed.
func IsAccountBanned(accountID int64) (bool, error) {
	var account Account
	err := db.DB.Select("banned").First(&account, accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return true, logger.WrapError(err, "")
	}

	return account.Banned, nil
}
