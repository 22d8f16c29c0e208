package middleware

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const (
	ContextAdminIDKey    = "admin_id"
	AdminTokenExpiration = 10 * time.Hour
)

var adminJWTKey string

func init() {
	var ok bool
	adminJWTKey, ok = os.LookupEnv("ADMIN_JWT_KEY")
	if !ok {
		logger.Warn("ADMIN_JWT_KEY not set, admin routes will reject all requests")
	}
}

type adminClaims struct {
	AdminID int64 `json:"admin_id"`
	jwt.RegisteredClaims
}

// NewAdminToken issues a signed token for a logged-in admin.
func NewAdminToken(adminID int64) (string, error) {
	claims := adminClaims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(AdminTokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(adminJWTKey))
	if err != nil {
		return "", logger.WrapError(err, "")
	}

	return signed, nil
}

func parseAdminToken(raw string) (int64, error) {
	var claims adminClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(adminJWTKey), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("invalid token")
	}

	return claims.AdminID, nil
}

// AdminAuthMiddleware guards admin routes with a bearer JWT.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminJWTKey == "" {
			c.AbortWithStatus(403)
			return
		}

		header := c.GetHeader("Authorization")
		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == "" || raw == header {
			c.JSON(401, gin.H{"error": "Missing bearer token"})
			c.Abort()
			return
		}

		adminID, err := parseAdminToken(raw)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.JSON(401, gin.H{"error": "Token expired"})
			} else {
				c.JSON(401, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		c.Set(ContextAdminIDKey, adminID)
		c.Next()
	}
}

func GetAdminIDFromGinContext(c *gin.Context) (int64, error) {
	adminIDAny, ok := c.Get(ContextAdminIDKey)
	if !ok {
		return 0, logger.WrapError(errors.New("admin_id not in GIN context"), "")
	}

	adminIDInt, ok := adminIDAny.(int64)
	if !ok {
		return 0, logger.WrapError(errors.New("unable to cast admin_id value to int"), "")
	}

	return adminIDInt, nil
}
