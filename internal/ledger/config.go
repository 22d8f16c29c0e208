package ledger

import (
	"os"
	"strconv"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"
)

// Business knobs, overridable from the environment.
var (
	Fees                      = FeeSchedule{Percent: 10, MinFee: 0}
	ReferralBonusPercent      = 10.0
	DailyProfitPercent        = 1.5
	MinInvestmentAmount       = 0.0
	CreditPrincipalOnApproval = false
)

func init() {
	Fees.Percent = envFloat("WITHDRAWAL_FEE_PERCENT", Fees.Percent)
	Fees.MinFee = envFloat("WITHDRAWAL_MIN_FEE", Fees.MinFee)
	ReferralBonusPercent = envFloat("REFERRAL_BONUS_PERCENT", ReferralBonusPercent)
	DailyProfitPercent = envFloat("DAILY_PROFIT_PERCENT", DailyProfitPercent)
	MinInvestmentAmount = envFloat("MIN_INVESTMENT_AMOUNT", MinInvestmentAmount)

	if raw, ok := os.LookupEnv("CREDIT_PRINCIPAL_ON_APPROVAL"); ok {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			logger.Fatal("invalid CREDIT_PRINCIPAL_ON_APPROVAL value: %v", err)
		}
		CreditPrincipalOnApproval = val
	}
}

func envFloat(name string, def float64) float64 {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return def
	}

	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.Fatal("invalid %s value: %v", name, err)
	}

	return val
}

// FeeSchedule computes the platform fee kept from a withdrawal.
type FeeSchedule struct {
	Percent float64
	MinFee  float64
}

// Apply returns the fee for the given withdrawal amount. The fee never
// exceeds the amount itself, so net stays non-negative.
func (f FeeSchedule) Apply(amount float64) float64 {
	fee := amount * f.Percent / 100

	if fee < f.MinFee {
		fee = f.MinFee
	}
	if fee > amount {
		fee = amount
	}

	return fee
}

// ReferralBonus computes the referrer payout for a first approved investment.
func ReferralBonus(investmentAmount float64) float64 {
	return investmentAmount * ReferralBonusPercent / 100
}

// DailyProfit computes one day of profit for an approved investment.
func DailyProfit(investmentAmount float64) float64 {
	return investmentAmount * DailyProfitPercent / 100
}
