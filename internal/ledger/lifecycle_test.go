package ledger

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// These tests run against a real Postgres instance and are skipped unless
// the POSTGRES_* variables are set, e.g.:
//
//	POSTGRES_HOST=localhost POSTGRES_PORT=5432 POSTGRES_USER=postgres \
//	POSTGRES_PASSWORD=postgres POSTGRES_DB=ledger_test go test ./internal/ledger/

var (
	connectOnce sync.Once
	migrateErr  error
)

func requireTestDB(t *testing.T) {
	t.Helper()

	for _, name := range []string{
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER",
		"POSTGRES_PASSWORD", "POSTGRES_DB",
	} {
		if _, ok := os.LookupEnv(name); !ok {
			t.Skipf("%s is not set, skipping database test", name)
		}
	}

	connectOnce.Do(func() {
		db.Connect()
		migrateErr = db.DB.AutoMigrate(
			&models.Account{},
			&models.Investment{},
			&models.Withdrawal{},
			&models.Referral{},
			&models.Transaction{},
		)
	})
	require.NoError(t, migrateErr)
}

// pinConfig fixes the tunable percentages for the duration of a test so
// environment overrides cannot skew the expected amounts.
func pinConfig(t *testing.T) {
	t.Helper()

	origFees := Fees
	origBonus := ReferralBonusPercent
	origMin := MinInvestmentAmount
	origPrincipal := CreditPrincipalOnApproval
	t.Cleanup(func() {
		Fees = origFees
		ReferralBonusPercent = origBonus
		MinInvestmentAmount = origMin
		CreditPrincipalOnApproval = origPrincipal
	})

	Fees = FeeSchedule{Percent: 10, MinFee: 0}
	ReferralBonusPercent = 10
	MinInvestmentAmount = 0
	CreditPrincipalOnApproval = false
}

func registerMember(t *testing.T, referralCode string) *models.Account {
	t.Helper()

	id := time.Now().UnixNano()
	account, _, err := RegisterAccount(id, fmt.Sprintf("member_%d", id), referralCode)
	require.NoError(t, err)
	return account
}

func reloadAccount(t *testing.T, accountID int64) *models.Account {
	t.Helper()

	var account models.Account
	require.NoError(t, db.DB.First(&account, accountID).Error)
	return &account
}

func countTransactions(t *testing.T, accountID int64, txType models.TransactionType) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.DB.Model(&models.Transaction{}).
		Where("account_id = ? AND type = ?", accountID, txType).
		Count(&n).Error)
	return n
}

const testAdminID int64 = 1

func TestInvestmentLifecycle(t *testing.T) {
	requireTestDB(t)
	pinConfig(t)

	member := registerMember(t, "")

	inv, err := CreateInvestment(member.ID, 100, "utr-12345")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, inv.Status)

	inv, err = ApproveInvestment(inv.ID, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, inv.Status)

	account := reloadAccount(t, member.ID)
	assert.InDelta(t, 0, account.Balance, 1e-9)
	assert.InDelta(t, 100, account.TotalInvested, 1e-9)

	// a second approval must be rejected and leave the ledger untouched
	_, err = ApproveInvestment(inv.ID, testAdminID)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
	_, err = RejectInvestment(inv.ID, testAdminID)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	account = reloadAccount(t, member.ID)
	assert.InDelta(t, 0, account.Balance, 1e-9)
	assert.InDelta(t, 100, account.TotalInvested, 1e-9)

	inv, err = AccrueDailyProfit(inv.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.DaysActive)

	account = reloadAccount(t, member.ID)
	assert.InDelta(t, 5, account.Balance, 1e-9)
	assert.InDelta(t, 5, account.TotalEarned, 1e-9)

	// same calendar day, nothing to accrue
	_, err = AccrueDailyProfit(inv.ID, 5)
	assert.ErrorIs(t, err, ErrAlreadyAccruedToday)

	account = reloadAccount(t, member.ID)
	assert.InDelta(t, 5, account.Balance, 1e-9)
	assert.InDelta(t, 5, account.TotalEarned, 1e-9)

	w, err := RequestWithdrawal(member.ID, 3, "upi", "member@upi")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, w.Fee, 1e-9)
	assert.InDelta(t, 2.7, w.NetAmount, 1e-9)

	w, err = ApproveWithdrawal(w.ID, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, w.Status)

	account = reloadAccount(t, member.ID)
	assert.InDelta(t, 2, account.Balance, 1e-9)

	_, err = ApproveWithdrawal(w.ID, testAdminID)
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	rec, err := ReconcileAccount(member.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
	assert.InDelta(t, 2, rec.Balance, 1e-9)
	assert.InDelta(t, 2, rec.TransactionSum, 1e-9)
}

func TestReferralBonusPaysExactlyOnce(t *testing.T) {
	requireTestDB(t)
	pinConfig(t)

	referrer := registerMember(t, "")
	referred := registerMember(t, referrer.ReferralCode)

	inv, err := CreateInvestment(referred.ID, 200, "utr-67890")
	require.NoError(t, err)
	inv, err = ApproveInvestment(inv.ID, testAdminID)
	require.NoError(t, err)

	account := reloadAccount(t, referrer.ID)
	assert.InDelta(t, 20, account.Balance, 1e-9)
	assert.InDelta(t, 20, account.ReferralEarnings, 1e-9)
	assert.Equal(t, 1, account.ReferralCount)
	assert.EqualValues(t, 1, countTransactions(t, referrer.ID, models.TxReferralBonus))

	var ref models.Referral
	require.NoError(t, db.DB.First(&ref, "referred_id = ?", referred.ID).Error)
	assert.Equal(t, models.ReferralPaid, ref.Status)
	assert.True(t, ref.BonusPaid)
	assert.InDelta(t, 20, ref.BonusAmount, 1e-9)

	// re-running the evaluation must find the referral already paid
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		return evaluateReferral(tx, referred.ID, inv.ID, 200, true)
	})
	require.NoError(t, err)

	account = reloadAccount(t, referrer.ID)
	assert.InDelta(t, 20, account.Balance, 1e-9)
	assert.Equal(t, 1, account.ReferralCount)
	assert.EqualValues(t, 1, countTransactions(t, referrer.ID, models.TxReferralBonus))

	// later investments do not pay again either
	inv2, err := CreateInvestment(referred.ID, 300, "utr-67891")
	require.NoError(t, err)
	_, err = ApproveInvestment(inv2.ID, testAdminID)
	require.NoError(t, err)

	account = reloadAccount(t, referrer.ID)
	assert.InDelta(t, 20, account.Balance, 1e-9)
	assert.EqualValues(t, 1, countTransactions(t, referrer.ID, models.TxReferralBonus))

	rec, err := ReconcileAccount(referrer.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
}

func TestRegisterAccountDuplicateIdentity(t *testing.T) {
	requireTestDB(t)

	member := registerMember(t, "")

	// same nickname, different id
	_, _, err := RegisterAccount(time.Now().UnixNano(), member.Nickname, "")
	assert.ErrorIs(t, err, ErrAccountExists)

	// same id, different nickname
	_, _, err = RegisterAccount(member.ID, fmt.Sprintf("other_%d", member.ID), "")
	assert.ErrorIs(t, err, ErrAccountExists)
}
