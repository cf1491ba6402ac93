package domain

import (
	"encoding/base64"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var tokenIDPattern = regexp.MustCompile(`^tk_[0-9a-f]{32}$`)

func freshToken(now time.Time) *StatefulToken {
	return &StatefulToken{
		ID:            NewTokenID(),
		Action:        TokenActionIdentityClaim,
		CreatedAt:     now,
		ExpiresAt:     now.Add(7 * 24 * time.Hour),
		CreatedBy:     "idn_inviter",
		IdentityClaim: &IdentityClaimPayload{IdentityID: "idn_invited"},
	}
}

func TestNewTokenID(t *testing.T) {
	id := NewTokenID()
	assert.Regexp(t, tokenIDPattern, id)
	assert.NotEqual(t, id, NewTokenID())
}

func TestStatefulToken_Validity(t *testing.T) {
	now := time.Now().UTC()

	t.Run("Success_FreshTokenValid", func(t *testing.T) {
		token := freshToken(now)
		assert.True(t, token.IsValid(now))
		assert.Empty(t, token.InvalidReason(now))
	})

	t.Run("Failure_Expired", func(t *testing.T) {
		token := freshToken(now)
		token.ExpiresAt = now.Add(-time.Second)
		assert.False(t, token.IsValid(now))
		assert.Equal(t, ReasonExpired, token.InvalidReason(now))
	})

	t.Run("Failure_Revoked", func(t *testing.T) {
		token := freshToken(now).Revoke("cleanup", now)
		assert.False(t, token.IsValid(now))
		assert.Equal(t, ReasonRevoked, token.InvalidReason(now))
		assert.Equal(t, "cleanup", token.RevokedReason)
	})

	t.Run("Failure_Used", func(t *testing.T) {
		token := freshToken(now).MarkUsed("idn_claimer", now)
		assert.False(t, token.IsValid(now))
		assert.Equal(t, ReasonUsed, token.InvalidReason(now))
		assert.Equal(t, "idn_claimer", token.UsedBy)
	})

	t.Run("Failure_ReasonOrderExpiredFirst", func(t *testing.T) {
		token := freshToken(now)
		token.ExpiresAt = now.Add(-time.Second)
		token.Revoked = true
		usedAt := now.Add(-time.Hour)
		token.UsedAt = &usedAt
		assert.Equal(t, ReasonExpired, token.InvalidReason(now))
	})
}

func TestStatefulToken_SingleUse(t *testing.T) {
	now := time.Now().UTC()

	first := freshToken(now)
	second := freshToken(now)
	second.IdentityClaim = &IdentityClaimPayload{IdentityID: first.IdentityClaim.IdentityID}

	used := first.MarkUsed("idn_claimer", now)
	assert.False(t, used.IsValid(now))

	// MarkUsed returns a copy; the original record is untouched until the
	// caller persists the new value.
	assert.True(t, first.IsValid(now))
	assert.Nil(t, first.UsedAt)

	// An independent token with an identical payload stays valid until it is
	// separately consumed.
	assert.True(t, second.IsValid(now))
}

func TestStatefulToken_ShareLinks(t *testing.T) {
	token := freshToken(time.Now().UTC())
	token.ID = "tk_00112233445566778899aabbccddeeff"

	claimURL := token.ClaimURL("https://gateway.local", "https://gw.example.com/api")
	assert.Equal(t,
		"https://gateway.local/claim?token=tk_00112233445566778899aabbccddeeff&gateway=https%3A%2F%2Fgw.example.com%2Fapi",
		claimURL)

	compact := token.CompactShareRef("https://gateway.local", "https://gw.example.com/api")
	encoded := base64.RawURLEncoding.EncodeToString([]byte("https://gw.example.com/api"))
	assert.Equal(t, "https://gateway.local#tk_00112233445566778899aabbccddeeff@"+encoded, compact)
}
