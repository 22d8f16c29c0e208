package service

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/ledger"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/middleware"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/models"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/notify"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type investmentInput struct {
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	ProofRef string  `json:"proof_ref"`
}

func (i *investmentInput) Validate() error {
	validate = validator.New()
	return validate.Struct(i)
}

func CreateInvestment(c *gin.Context) {
	var input investmentInput

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": "Unable to unmarshal body"})
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	inv, err := ledger.CreateInvestment(userID, input.Amount, input.ProofRef)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			if ledger.MinInvestmentAmount > 0 {
				c.JSON(400, gin.H{"error": fmt.Sprintf(
					"Minimum investment amount is %.0f", ledger.MinInvestmentAmount)})
			} else {
				c.JSON(400, gin.H{"error": "Invalid amount"})
			}
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
		"New investment #%d: member %d, amount %.2f. Waiting for approval.",
		inv.ID, inv.AccountID, inv.Amount))

	c.JSON(200, inv)
}

func GetUserInvestments(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var invs []models.Investment
	err = db.DB.Order("id DESC").Find(&invs, "account_id = ?", userID).Error
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	if len(invs) == 0 {
		c.String(404, "[]")
		return
	}

	c.JSON(200, invs)
}

// recordIDFromParam parses the :id path parameter shared by the admin
// lifecycle endpoints.
func recordIDFromParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(400, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return id, true
}

func ApproveInvestment(c *gin.Context) {
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

	inv, err := ledger.ApproveInvestment(id, adminID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	notify.User(inv.AccountID, fmt.Sprintf(
		"Your investment #%d of %.2f was approved. Daily profit starts accruing from the next run.",
		inv.ID, inv.Amount))
	LedgerFeed.Publish(c.Request.Context(), LedgerEventData{
		Type:      "investment_approved",
		AccountID: inv.AccountID,
		RecordID:  inv.ID,
		Amount:    inv.Amount,
	})

	c.JSON(200, inv)
}

func RejectInvestment(c *gin.Context) {
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

	inv, err := ledger.RejectInvestment(id, adminID)
	if err != nil {
		respondLifecycleError(c, err)
		return
	}

	notify.User(inv.AccountID, fmt.Sprintf(
		"Your investment #%d of %.2f was rejected.", inv.ID, inv.Amount))

	c.JSON(200, inv)
}

type accrualInput struct {
	ProfitAmount float64 `json:"profit_amount" validate:"omitempty,gt=0"`
}

// AccrueInvestment applies one day of profit to a single investment. Without
// a body amount the configured daily percent is used.
func AccrueInvestment(c *gin.Context) {
	id, ok := recordIDFromParam(c)
	if !ok {
		return
	}

	var input accrualInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Unable to unmarshal body"})
			return
		}
	}

	profit := input.ProfitAmount
	if profit == 0 {
		var inv models.Investment
		if err := db.DB.First(&inv, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Investment not found"})
			return
		}
		profit = ledger.DailyProfit(inv.Amount)
	}

	inv, err := ledger.AccrueDailyProfit(id, profit)
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyAccruedToday) {
			c.JSON(409, gin.H{"error": "Profit already accrued today"})
			return
		}
		if errors.Is(err, ledger.ErrNotApproved) {
			c.JSON(409, gin.H{"error": "Investment is not approved"})
			return
		}
		respondLifecycleError(c, err)
		return
	}

	notify.User(inv.AccountID, fmt.Sprintf(
		"Daily profit %.2f credited for investment #%d (day %d).",
		profit, inv.ID, inv.DaysActive))
	LedgerFeed.Publish(c.Request.Context(), LedgerEventData{
		Type:      "profit_accrual",
		AccountID: inv.AccountID,
		RecordID:  inv.ID,
		Amount:    profit,
	})

	c.JSON(200, inv)
}

func GetPendingInvestments(c *gin.Context) {
	var invs []models.Investment
	err := db.DB.Order("id ASC").
		Find(&invs, "status = ?", models.StatusPending).Error
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	if len(invs) == 0 {
		c.String(404, "[]")
		return
	}

	c.JSON(200, invs)
}

// respondLifecycleError maps the shared lifecycle sentinels to HTTP codes.
func respondLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		c.JSON(404, gin.H{"error": "Record not found"})
	case errors.Is(err, ledger.ErrAlreadyFinalized):
		c.JSON(409, gin.H{"error": "Record already finalized"})
	case errors.Is(err, ledger.ErrInsufficientBalance):
		c.JSON(402, gin.H{"error": "Insufficient balance"})
	case errors.Is(err, ledger.ErrInvalidAmount):
		c.JSON(400, gin.H{"error": "Invalid amount"})
	default:
		logger.Error("%v", err)
		c.Status(500)
	}
}
