package ledger

import (
	"errors"
	"strings"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/models"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"gorm.io/gorm"
)

const referralCodeRetries = 3

// RegisterAccount creates a member account with a fresh referral code and,
// when a valid referral code was supplied, the pending referral record.
// Returns the account together with the created referral (nil if none).
//
// A unique violation aborts the whole transaction, so each referral code
// attempt runs in its own transaction. A violation on the account id or
// nickname is a caller race, not a code collision, and returns
// ErrAccountExists instead of burning retries.
func RegisterAccount(accountID int64, nickname, referralCode string) (*models.Account, *models.Referral, error) {
	for attempt := 0; ; attempt++ {
		code, err := models.NewReferralCode()
		if err != nil {
			return nil, nil, err
		}

		account := models.Account{
			ID:           accountID,
			Nickname:     nickname,
			ReferralCode: code,
		}

		var referral *models.Referral

		err = db.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&account).Error; err != nil {
				if isUniqueViolation(err) {
					return err
				}
				return logger.WrapError(err, "")
			}

			referral, err = RegisterReferral(tx, referralCode, account.ID, nickname)
			return err
		})
		if err == nil {
			return &account, referral, nil
		}
		if !isUniqueViolation(err) {
			return nil, nil, err
		}

		taken, checkErr := accountIdentityTaken(accountID, nickname)
		if checkErr != nil {
			return nil, nil, checkErr
		}
		if taken {
			return nil, nil, ErrAccountExists
		}

		if attempt >= referralCodeRetries {
			return nil, nil, logger.WrapError(err, "referral code generation exhausted retries")
		}
	}
}

func accountIdentityTaken(accountID int64, nickname string) (bool, error) {
	if exists, err := models.CheckIfAccountExistsByID(accountID); err != nil || exists {
		return exists, err
	}
	return models.CheckIfAccountExistsByNickname(nickname)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}

// AccountSummary is the member-facing view of the ledger state.
type AccountSummary struct {
	AccountID         int64   `json:"account_id"`
	Nickname          string  `json:"nickname"`
	Balance           float64 `json:"balance"`
	TotalInvested     float64 `json:"total_invested"`
	TotalEarned       float64 `json:"total_earned"`
	ReferralEarnings  float64 `json:"referral_earnings"`
	ReferralCount     int     `json:"referral_count"`
	ReferralCode      string  `json:"referral_code"`
	ActiveInvestments int64   `json:"active_investments"`
}

func GetAccountSummary(accountID int64) (*AccountSummary, error) {
	var account models.Account
	err := db.DB.First(&account, accountID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, logger.WrapError(err, "")
	}

	active, err := models.CountActiveInvestments(nil, accountID)
	if err != nil {
		return nil, err
	}

	return &AccountSummary{
		AccountID:         account.ID,
		Nickname:          account.Nickname,
		Balance:           account.Balance,
		TotalInvested:     account.TotalInvested,
		TotalEarned:       account.TotalEarned,
		ReferralEarnings:  account.ReferralEarnings,
		ReferralCount:     account.ReferralCount,
		ReferralCode:      account.ReferralCode,
		ActiveInvestments: active,
	}, nil
}

// Reconciliation compares the stored balance against the signed transaction
// sum. The two must match at all times; a mismatch means a bug or manual
// interference with the tables.
type Reconciliation struct {
	AccountID      int64   `json:"account_id"`
	Balance        float64 `json:"balance"`
	TransactionSum float64 `json:"transaction_sum"`
	Consistent     bool    `json:"consistent"`
}

func ReconcileAccount(accountID int64) (*Reconciliation, error) {
	var rec Reconciliation

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return logger.WrapError(err, "")
		}

		sum, err := models.SumTransactionsForAccount(tx, accountID)
		if err != nil {
			return err
		}

		rec = Reconciliation{
			AccountID:      accountID,
			Balance:        account.Balance,
			TransactionSum: sum,
			Consistent:     floatsEqual(account.Balance, sum),
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func floatsEqual(a, b float64) bool {
	const tolerance = 1e-6
	diff := a - b
	return diff < tolerance && diff > -tolerance
}

// AdminAdjust applies a signed manual balance correction. Positive amounts
// credit, negative amounts debit with the usual balance check.
func AdminAdjust(accountID int64, amount float64, note string, adminID int64) error {
	if amount == 0 {
		return ErrInvalidAmount
	}

	if amount > 0 {
		return Credit(nil, accountID, amount, models.TxAdminAdjustment, note, &adminID)
	}
	return Debit(nil, accountID, -amount, models.TxAdminAdjustment, note, &adminID)
}

// SetAccountBanned flips the soft-ban flag. Accounts are never deleted.
func SetAccountBanned(accountID int64, banned bool) error {
	res := db.DB.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("banned", banned)
	if res.Error != nil {
		return logger.WrapError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	logger.Audit("account %d banned=%v", accountID, banned)

	return nil
}
