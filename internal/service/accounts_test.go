package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferralJoinMessage(t *testing.T) {
	assert.Equal(t,
		"<b>ravi_k</b> joined with your referral code.",
		referralJoinMessage("ravi_k"))

	// member-supplied markup must not survive into the HTML notification
	assert.Equal(t,
		"<b>&lt;i&gt;ravi&lt;/i&gt;</b> joined with your referral code.",
		referralJoinMessage("<i>ravi</i>"))
}
