package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	orig := adminJWTKey
	defer func() { adminJWTKey = orig }()
	adminJWTKey = "test-key"

	token, err := NewAdminToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	adminID, err := parseAdminToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), adminID)
}

func TestAdminTokenWrongKey(t *testing.T) {
	orig := adminJWTKey
	defer func() { adminJWTKey = orig }()

	adminJWTKey = "test-key"
	token, err := NewAdminToken(42)
	require.NoError(t, err)

	adminJWTKey = "other-key"
	_, err = parseAdminToken(token)
	assert.Error(t, err)
}

func TestAdminTokenExpired(t *testing.T) {
	orig := adminJWTKey
	defer func() { adminJWTKey = orig }()
	adminJWTKey = "test-key"

	claims := adminClaims{
		AdminID: 42,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(adminJWTKey))
	require.NoError(t, err)

	_, err = parseAdminToken(expired)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
