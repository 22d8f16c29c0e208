package middleware

import (
	"errors"
	"os"
	"time"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

const (
	ContextUserIDKey   = "user_id"
	InitDataExpiration = 24 * time.Hour
)

var telegramBotToken string

func init() {
	var ok bool
	telegramBotToken, ok = os.LookupEnv("TOKEN")
	if !ok {
		logger.Warn("TOKEN not set, telegram init data validation will reject all requests")
	}
}

func ValidateTelegramInitDataMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var initData string

		// WebSocket upgrade requests carry init data in the query string
		if c.IsWebsocket() {
			initData = c.Query("init_data")
		} else {
			initData = c.GetHeader("X-Telegram-Init-Data")
		}

		if initData == "" {
			c.JSON(400, gin.H{"error": "Missing Telegram init data"})
			c.Abort()
			return
		}

		err := initdata.Validate(initData, telegramBotToken, InitDataExpiration)
		if err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		parsedData, err := initdata.Parse(initData)
		if err != nil {
			c.JSON(400, gin.H{"error": "Failed to parse Telegram init data"})
			c.Abort()
			return
		}

		if parsedData.User.ID == 0 {
			c.JSON(400, gin.H{"error": "User ID is zero"})
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, parsedData.User.ID)
		c.Next()
	}
}

func GetUserIDFromGinContext(c *gin.Context) (int64, error) {
	userIDAny, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, logger.WrapError(errors.New("user_id not in GIN context"), "")
	}

	userIDInt, ok := userIDAny.(int64)
	if !ok {
		return 0, logger.WrapError(errors.New("unable to cast user_id value to int"), "")
	}

	return userIDInt, nil
}
