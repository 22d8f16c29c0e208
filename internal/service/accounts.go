package service

import (
	"errors"
	"fmt"
	"html"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/ledger"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/middleware"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/models"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/notify"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// notifications are sent with ParseMode HTML, so member-supplied
// text has to be escaped before interpolation
func referralJoinMessage(nickname string) string {
	return fmt.Sprintf("<b>%s</b> joined with your referral code.", html.EscapeString(nickname))
}

type signUpInput struct {
	Nickname     string `json:"nickname" validate:"required,min=3,max=32"`
	ReferralCode string `json:"referral_code" validate:"omitempty,len=8"`
}

func (i *signUpInput) Validate() error {
	validate = validator.New()
	return validate.Struct(i)
}

func SignUp(c *gin.Context) {
	var input signUpInput
	var err error

	if err = c.Bind(&input); err != nil {
		c.JSON(400, gin.H{"error": "Unable to unmarshal body"})
		return
	}

	var accountID int64
	if accountID, err = middleware.GetUserIDFromGinContext(c); err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	if err := input.Validate(); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	exists, err := models.CheckIfAccountExistsByID(accountID)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}
	if exists {
		c.JSON(409, gin.H{"error": "Account with this ID already exists"})
		return
	}

	exists, err = models.CheckIfAccountExistsByNickname(input.Nickname)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}
	if exists {
		c.JSON(409, gin.H{"error": "Account with this nickname already exists"})
		return
	}

	account, referral, err := ledger.RegisterAccount(accountID, input.Nickname, input.ReferralCode)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountExists) {
			c.JSON(409, gin.H{"error": "Account already exists"})
			return
		}
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	if referral != nil {
		notify.User(referral.ReferrerID, referralJoinMessage(input.Nickname))
	}

	c.JSON(200, gin.H{"referral_code": account.ReferralCode})
}

func Auth(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	exists, err := models.CheckIfAccountExistsByID(userID)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	if exists {
		c.Status(200)
	} else {
		c.Status(401)
	}
}

func GetAccountSummary(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	summary, err := ledger.GetAccountSummary(userID)
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

func GetUserTransactions(c *gin.Context) {
	userID, err := middleware.GetUserIDFromGinContext(c)
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	var txs []models.Transaction
	err = db.DB.Order("id DESC").Limit(100).
		Find(&txs, "account_id = ?", userID).Error
	if err != nil {
		logger.Error("%v", err)
		c.Status(500)
		return
	}

	if len(txs) == 0 {
		c.String(404, "[]")
		return
	}

	c.JSON(200, txs)
}
