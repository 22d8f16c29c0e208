package service

import (
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/middleware"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	connectOnce sync.Once
	migrateErr  error
)

// requireTestDB skips unless the POSTGRES_* variables point at a test
// database, mirroring the gate in the ledger package tests.
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

func TestGetUserReferralsEmptyList(t *testing.T) {
	requireTestDB(t)
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	// an id no account uses, so the member has no referrals
	c.Set(middleware.ContextUserIDKey, time.Now().UnixNano())

	GetUserReferrals(c)

	assert.Equal(t, 404, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}
