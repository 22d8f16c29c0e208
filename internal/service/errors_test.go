package service

import (
	"net/http/httptest"
	"testing"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/ledger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondLifecycleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"Not Found", ledger.ErrNotFound, 404},
		{"Already Finalized", ledger.ErrAlreadyFinalized, 409},
		{"Insufficient Balance", ledger.ErrInsufficientBalance, 402},
		{"Invalid Amount", ledger.ErrInvalidAmount, 400},
		{"Store Failure", assert.AnError, 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondLifecycleError(c, tc.err)
			c.Writer.WriteHeaderNow()

			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}
