package ledger

import (
	"fmt"
	"time"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/models"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegisterReferral resolves a referral code supplied at signup and creates
// the pending referral record. Invalid and self-referential codes are
// silently ignored: signup must not fail over a bad code. Returns the
// created referral, or nil when none was created.
func RegisterReferral(tx *gorm.DB, referralCode string, referredID int64, referredNickname string) (*models.Referral, error) {
	if referralCode == "" {
		return nil, nil
	}

	referrer, err := models.GetAccountByReferralCode(tx, referralCode)
	if err != nil {
		return nil, err
	}
	if referrer == nil || referrer.ID == referredID {
		return nil, nil
	}

	ref := models.Referral{
		ReferrerID:       referrer.ID,
		ReferredID:       referredID,
		ReferredNickname: referredNickname,
		Status:           models.ReferralPending,
		FirstInvestment:  true,
	}
	if err := tx.Create(&ref).Error; err != nil {
		return nil, logger.WrapError(err, "")
	}

	if err := tx.Model(&models.Account{}).
		Where("id = ?", referredID).
		Update("referred_by", referrer.ID).Error; err != nil {
		return nil, logger.WrapError(err, "")
	}

	return &ref, nil
}

// evaluateReferral pays the referrer bonus when the referred member's first
// investment is approved. Runs inside the approval transaction. The
// pending->paid conditional update makes a second evaluation for the same
// member a no-op, so the bonus cannot pay out twice.
func evaluateReferral(tx *gorm.DB, referredID, investmentID int64,
	investmentAmount float64, isFirstInvestment bool) error {
	if !isFirstInvestment {
		return nil
	}

	ref, err := models.GetPendingReferralForReferred(tx, referredID)
	if err != nil {
		return err
	}
	if ref == nil || ref.BonusPaid || !ref.FirstInvestment {
		return nil
	}

	bonus := ReferralBonus(investmentAmount)
	now := time.Now()

	res := tx.Model(&models.Referral{}).
		Where("id = ? AND status = ?", ref.ID, models.ReferralPending).
		Updates(map[string]interface{}{
			"status":              models.ReferralPaid,
			"bonus_paid":          true,
			"bonus_amount":        bonus,
			"first_investment_id": investmentID,
			"paid_at":             now,
		})
	if res.Error != nil {
		return logger.WrapError(res.Error, "")
	}
	if res.RowsAffected == 0 {
		return nil
	}

	if err := Credit(tx, ref.ReferrerID, bonus, models.TxReferralBonus,
		fmt.Sprintf("referral bonus for member %d first investment", referredID), nil); err != nil {
		return err
	}

	var referrer models.Account
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(
		&referrer, ref.ReferrerID).Error; err != nil {
		return logger.WrapError(err, "")
	}

	if err := tx.Model(&referrer).
		Updates(map[string]interface{}{
			"referral_earnings": gorm.Expr("referral_earnings + ?", bonus),
			"referral_count":    gorm.Expr("referral_count + 1"),
		}).Error; err != nil {
		return logger.WrapError(err, "")
	}

	logger.Audit("referral bonus paid referrer=%d referred=%d bonus=%.2f",
		ref.ReferrerID, referredID, bonus)

	return nil
}
