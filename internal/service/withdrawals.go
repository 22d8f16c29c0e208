package service

import (
	"errors"
	"fmt"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/ledger"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/middleware"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/models"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/notify"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var withdrawalAllowedPaymentSystems = map[string]bool{
	"imps": true,
	"neft": true,
	"rtgs": true,
	"upi":  true,
}

type withdrawalInput struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentSystem string  `json:"payment_system" validate:"required"`
	Details       string  `json:"details" validate:"required,max=256"`
}

func (i *withdrawalInput) Validate() error {
	validate = validator.New()
	return validate.Struct(i)
}

func CreateWithdrawal(c *gin.Context) {
	var input withdrawalInput

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Unable to unmarshal body"})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	if _, ok := withdrawalAllowedPaymentSystems[input.PaymentSystem]; !ok {
		c.JSON(400, gin.H{"error": "payment system not supported"})
		return
	}

	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	withdrawal, err := ledger.RequestWithdrawal(
		userID, input.Amount, input.PaymentSystem, input.Details)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientBalance) {
			c.JSON(402, gin.H{"error": "Insufficient balance"})
			return
		}
		if errors.Is(err, ledger.ErrInvalidAmount) {
			c.JSON(400, gin.H{"error": "Invalid amount"})
			return
		}
		if errors.Is(err, ledger.ErrNotFound) {
			c.JSON(404, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	notify.Admins(fmt.Sprintf(
		"New withdrawal #%d: member %d, amount %.2f (net %.2f, %s). Waiting for approval.",
		withdrawal.ID, withdrawal.AccountID, withdrawal.Amount,
		withdrawal.NetAmount, withdrawal.Method))

	c.JSON(200, withdrawal)
}

func GetUserWithdrawals(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var withdrawals []models.Withdrawal
	err = db.DB.Order("id DESC").Find(&withdrawals, "account_id = ?", userID).Error
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	if len(withdrawals) == 0 {
		c.String(404, "[]")
		return
	}

	c.JSON(200, withdrawals)
}

func ApproveWithdrawal(c *gin.Context) {
	id, ok := recordIDFromParam(c)
	if !ok {
		return
	}

	adminID, err := middleware.GetAdminIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	withdrawal, err := ledger.ApproveWithdrawal(id, adminID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	notify.User(withdrawal.AccountID, fmt.Sprintf(
		"Your withdrawal #%d was approved. %.2f is on the way (fee %.2f).",
		withdrawal.ID, withdrawal.NetAmount, withdrawal.Fee))
	LedgerFeed.Publish(c.Request.Context(), LedgerEventData{
		Type:      "withdrawal_approved",
		AccountID: withdrawal.AccountID,
		RecordID:  withdrawal.ID,
		Amount:    -withdrawal.Amount,
	})

	c.JSON(200, withdrawal)
}

func RejectWithdrawal(c *gin.Context) {
	id, ok := recordIDFromParam(c)
	if !ok {
		return
	}

	adminID, err := middleware.GetAdminIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	withdrawal, err := ledger.RejectWithdrawal(id, adminID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	notify.User(withdrawal.AccountID, fmt.Sprintf(
		"Your withdrawal #%d of %.2f was rejected. The amount stays on your balance.",
		withdrawal.ID, withdrawal.Amount))

	c.JSON(200, withdrawal)
}

func GetPendingWithdrawals(c *gin.Context) {
	var withdrawals []models.Withdrawal
	err := db.DB.Order("id ASC").
		Find(&withdrawals, "status = ?", models.StatusPending).Error
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	if len(withdrawals) == 0 {
		c.String(404, "[]")
		return
	}

	c.JSON(200, withdrawals)
}
