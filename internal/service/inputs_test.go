package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignUpInputValidate(t *testing.T) {
	t.Run("Valid Without Code", func(t *testing.T) {
		input := signUpInput{Nickname: "trader99"}
		assert.NoError(t, input.Validate())
	})

	t.Run("Valid With Code", func(t *testing.T) {
		input := signUpInput{Nickname: "trader99", ReferralCode: "ABCD2345"}
		assert.NoError(t, input.Validate())
	})

	t.Run("Nickname Too Short", func(t *testing.T) {
		input := signUpInput{Nickname: "ab"}
		assert.Error(t, input.Validate())
	})

	t.Run("Code Wrong Length", func(t *testing.T) {
		input := signUpInput{Nickname: "trader99", ReferralCode: "ABC"}
		assert.Error(t, input.Validate())
	})
}

func TestWithdrawalInputValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		input := withdrawalInput{Amount: 100, PaymentSystem: "upi", Details: "test@upi"}
		assert.NoError(t, input.Validate())
	})

	t.Run("Missing Amount", func(t *testing.T) {
		input := withdrawalInput{PaymentSystem: "upi", Details: "test@upi"}
		assert.Error(t, input.Validate())
	})

	t.Run("Negative Amount", func(t *testing.T) {
		input := withdrawalInput{Amount: -5, PaymentSystem: "upi", Details: "test@upi"}
		assert.Error(t, input.Validate())
	})

	t.Run("Missing Details", func(t *testing.T) {
		input := withdrawalInput{Amount: 100, PaymentSystem: "upi"}
		assert.Error(t, input.Validate())
	})
}

func TestInvestmentInputValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		input := investmentInput{Amount: 500, ProofRef: "file_abc123"}
		assert.NoError(t, input.Validate())
	})

	t.Run("Proof Optional", func(t *testing.T) {
		input := investmentInput{Amount: 500}
		assert.NoError(t, input.Validate())
	})

	t.Run("Zero Amount", func(t *testing.T) {
		input := investmentInput{}
		assert.Error(t, input.Validate())
	})
}

func TestAdjustInputValidate(t *testing.T) {
	t.Run("Positive", func(t *testing.T) {
		input := adjustInput{Amount: 50, Note: "bonus correction"}
		assert.NoError(t, input.Validate())
	})

	t.Run("Negative", func(t *testing.T) {
		input := adjustInput{Amount: -50, Note: "chargeback"}
		assert.NoError(t, input.Validate())
	})

	t.Run("Missing Note", func(t *testing.T) {
		input := adjustInput{Amount: 50}
		assert.Error(t, input.Validate())
	})
}
