// Package domain defines server-tracked single-use tokens.
//
// Unlike the stateless resource tokens, these are opaque identifiers whose
// validity lives in a mutable server-held record, which is what makes true
// revocation and single-use semantics possible. The id itself carries no
// capability without a matching stored record.
package domain

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"
)

// TokenAction discriminates the payload a stateful token carries.
type TokenAction string

const (
	// TokenActionIdentityClaim lets the bearer claim a pending identity.
	TokenActionIdentityClaim TokenAction = "identity_claim"

	// TokenActionBlobAccess grants scoped access to a single blob.
	TokenActionBlobAccess TokenAction = "blob_access"

	// TokenActionChannelAccess grants scoped access to a single channel.
	TokenActionChannelAccess TokenAction = "channel_access"
)

// IdentityClaimPayload is the payload of an identity_claim token.
type IdentityClaimPayload struct {
	IdentityID string `json:"identityId"`
}

// ResourceAccessPayload is the payload of blob_access and channel_access
// tokens.
type ResourceAccessPayload struct {
	ResourceID  string   `json:"resourceId"`
	Permissions []string `json:"permissions"`
}

// StatefulToken is a single-use, revocable token backed by a stored record.
// Exactly one payload field is set, matching Action.
type StatefulToken struct {
	ID            string // tk_<32 hex>
	Action        TokenAction
	CreatedAt     time.Time
	ExpiresAt     time.Time
	CreatedBy     string
	Label         string
	UsedAt        *time.Time
	UsedBy        string
	Revoked       bool
	RevokedAt     *time.Time
	RevokedReason string

	IdentityClaim  *IdentityClaimPayload
	ResourceAccess *ResourceAccessPayload
}

// NewTokenID generates an opaque token identifier (tk_<32 hex chars>).
func NewTokenID() string {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		// The kernel CSPRNG not responding is unrecoverable.
		panic(err)
	}
	return "tk_" + hex.EncodeToString(randomBytes)
}

// InvalidReason values surfaced by the validity checks. Safe to expose to the
// token holder: the id grants nothing without the stored record.
const (
	ReasonExpired = "expired"
	ReasonRevoked = "revoked"
	ReasonUsed    = "used"
)

// IsExpired reports whether the token's expiry has passed.
func (t *StatefulToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}

// IsRevoked reports whether the token has been revoked.
func (t *StatefulToken) IsRevoked() bool {
	return t.Revoked
}

// IsUsed reports whether the token has already been consumed.
func (t *StatefulToken) IsUsed() bool {
	return t.UsedAt != nil
}

// IsValid reports whether the token can still be consumed: not expired, not
// revoked, not used. Validity is a pure function of the record.
func (t *StatefulToken) IsValid(now time.Time) bool {
	return t.InvalidReason(now) == ""
}

// InvalidReason returns which validity check fails, or empty when the token
// is valid. Checks run in a fixed order: expired, revoked, used.
func (t *StatefulToken) InvalidReason(now time.Time) string {
	if t.IsExpired(now) {
		return ReasonExpired
	}
	if t.IsRevoked() {
		return ReasonRevoked
	}
	if t.IsUsed() {
		return ReasonUsed
	}
	return ""
}

// MarkUsed returns a copy with the consumption recorded. The caller persists
// the copy; single-writer-wins on concurrent consumption belongs to the
// storage layer.
func (t *StatefulToken) MarkUsed(usedBy string, now time.Time) *StatefulToken {
	updated := *t
	updated.UsedAt = &now
	updated.UsedBy = usedBy
	return &updated
}

// Revoke returns a copy marked revoked. The caller persists the copy.
func (t *StatefulToken) Revoke(reason string, now time.Time) *StatefulToken {
	updated := *t
	updated.Revoked = true
	updated.RevokedAt = &now
	updated.RevokedReason = reason
	return &updated
}

// ClaimURL builds the long-form share link for the token:
// {base}/claim?token={id}&gateway={url}.
func (t *StatefulToken) ClaimURL(baseURL, gatewayURL string) string {
	return fmt.Sprintf("%s/claim?token=%s&gateway=%s", baseURL, t.ID, url.QueryEscape(gatewayURL))
}

// CompactShareRef builds the fragment-form share link for the token:
// {base}#{id}@{base64(gatewayUrl)}. Everything after the # never reaches a
// server, which keeps the token id out of access logs.
func (t *StatefulToken) CompactShareRef(baseURL, gatewayURL string) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(gatewayURL))
	return fmt.Sprintf("%s#%s@%s", baseURL, t.ID, encoded)
}
