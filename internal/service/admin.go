package service

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/ledger"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/middleware"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/notify"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminLoginAttemptLimit  = 5
	adminLoginAttemptWindow = 15 * time.Minute
)

// AdminService holds the handlers that need the redis client (login
// throttling). The rest of the admin handlers are plain functions.
type AdminService struct {
	redisService *redis.RedisService
}

func NewAdminService(redisService *redis.RedisService) *AdminService {
	return &AdminService{redisService: redisService}
}

type adminLoginInput struct {
	AdminID  int64  `json:"admin_id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (i *adminLoginInput) Validate() error {
	validate = validator.New()
	return validate.Struct(i)
}

// Login checks the shared admin password and issues a JWT. Attempts are
// throttled per client IP through redis.
func (a *AdminService) Login(c *gin.Context) {
	attemptsKey := "admin:login_attempts:" + c.ClientIP()
	attempts, err := a.redisService.IncrKeyWithTTL(
		c.Request.Context(), attemptsKey, adminLoginAttemptWindow)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}
	if attempts > adminLoginAttemptLimit {
		c.JSON(429, gin.H{"error": "Too many login attempts"})
		return
	}

	var input adminLoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Unable to unmarshal body"})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	passwordHash, ok := os.LookupEnv("ADMIN_PASSWORD_HASH")
	if !ok {
		logger.Error("ADMIN_PASSWORD_HASH not set")
		c.Status(500)
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(passwordHash), []byte(input.Password)); err != nil {
		c.JSON(401, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := middleware.NewAdminToken(input.AdminID)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	if err := a.redisService.DeleteKey(c.Request.Context(), attemptsKey); err != nil {
		logger.Warn("%v", err)
	}

	c.JSON(200, gin.H{"access_token": token})
}

type adjustInput struct {
	Amount float64 `json:"amount" validate:"required"`
	Note   string  `json:"note" validate:"required,max=256"`
}

func (i *adjustInput) Validate() error {
	validate = validator.New()
	return validate.Struct(i)
}

// AdjustBalance applies a signed manual correction to a member balance.
func AdjustBalance(c *gin.Context) {
	id, ok := recordIDFromParam(c)
	if !ok {
		return
	}

	var input adjustInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Unable to unmarshal body"})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	adminID, err := middleware.GetAdminIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	if err := ledger.AdminAdjust(id, input.Amount, input.Note, adminID); err != nil {
		respondLifecycleError(c, err)
		return
	}

	notify.User(id, fmt.Sprintf(
		"Your balance was adjusted by %.2f. Reason: %s", input.Amount, input.Note))
	LedgerFeed.Publish(c.Request.Context(), LedgerEventData{
		Type:      "admin_adjustment",
		AccountID: id,
		Amount:    input.Amount,
	})

	c.Status(200)
}

func setBanned(c *gin.Context, banned bool) {
	id, ok := recordIDFromParam(c)
	if !ok {
		return
	}

	if err := ledger.SetAccountBanned(id, banned); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.Status(200)
}

func BanAccount(c *gin.Context)   { setBanned(c, true) }
func UnbanAccount(c *gin.Context) { setBanned(c, false) }

// Reconcile reports whether the stored balance matches the transaction sum.
func Reconcile(c *gin.Context) {
	id, ok := recordIDFromParam(c)
	if !ok {
		return
	}

	rec, err := ledger.ReconcileAccount(id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	if !rec.Consistent {
		logger.Error("reconciliation mismatch for account %d: balance=%.2f sum=%.2f",
			rec.AccountID, rec.Balance, rec.TransactionSum)
	}

	c.JSON(200, rec)
}

// RunAccrual triggers the daily sweep by hand, e.g. after a missed cron run.
// Safe to repeat: already-accrued investments are skipped.
func RunAccrual(c *gin.Context) {
	result, err := ledger.AccrueAllActiveInvestments()
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, result)
}

func GetAccountSummaryByID(c *gin.Context) {
	id, ok := recordIDFromParam(c)
	if !ok {
		return
	}

	summary, err := ledger.GetAccountSummary(id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	c.JSON(200, summary)
}
