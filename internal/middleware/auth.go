package middleware

import (
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/models"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware lets through registered, non-banned members only.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := GetUserIDFromGinContext(c)
		if err != nil {
			logger.Error("%v", err)
			c.AbortWithStatus(500)
			return
		}

		exists, err := models.CheckIfAccountExistsByID(userID)
		if err != nil {
			logger.Error("%v", err)
			c.AbortWithStatus(500)
			return
		}

		if !exists {
			c.JSON(401, gin.H{"error": "User not authorized"})
			c.Abort()
			return
		}

		banned, err := models.IsAccountBanned(userID)
		if err != nil {
			logger.Error("%v", err)
			c.AbortWithStatus(500)
			return
		}

		if banned {
			c.JSON(403, gin.H{"error": "Account is banned"})
			c.Abort()
			return
		}

		c.Next()
	}
}
