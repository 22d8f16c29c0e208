package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReferralCode(t *testing.T) {
	code, err := NewReferralCode()
	require.NoError(t, err)
	assert.Len(t, code, referralCodeLength)

	for _, c := range code {
		assert.True(t, strings.ContainsRune(referralCodeAlphabet, c),
			"character %q outside the code alphabet", c)
	}

	other, err := NewReferralCode()
	require.NoError(t, err)
	assert.NotEqual(t, code, other, "two generated codes should practically never collide")
}
