// Package domain defines credential domain models and verification logic.
//
// A credential is how an identity authenticates: it binds a hashed secret to
// an identity with an optional scope restriction. The plaintext secret exists
// only at creation and rotation time and is never stored.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CredentialType discriminates how a credential is issued and hashed.
type CredentialType string

const (
	// CredentialTypeAPIKey is a long-lived key presented by clients. Hashed
	// with Argon2id because api keys may be low entropy relative to length.
	CredentialTypeAPIKey CredentialType = "api_key"

	// CredentialTypeBearerToken is a high-entropy generated bearer token.
	CredentialTypeBearerToken CredentialType = "bearer_token"

	// CredentialTypeRefreshToken is a high-entropy token exchanged for new
	// bearer tokens.
	CredentialTypeRefreshToken CredentialType = "refresh_token"

	// CredentialTypeInvitation is a single-purpose invitation secret.
	CredentialTypeInvitation CredentialType = "invitation"
)

// Valid reports whether the credential type is one of the known types.
func (t CredentialType) Valid() bool {
	switch t {
	case CredentialTypeAPIKey, CredentialTypeBearerToken, CredentialTypeRefreshToken, CredentialTypeInvitation:
		return true
	}
	return false
}

// CredentialStatus is the credential lifecycle state.
type CredentialStatus string

const (
	// CredentialStatusActive means the credential verifies normally.
	CredentialStatusActive CredentialStatus = "active"

	// CredentialStatusRotating means a replacement secret has been issued but
	// this credential still verifies until it is explicitly revoked. The grace
	// period avoids service disruption while the new secret rolls out.
	CredentialStatusRotating CredentialStatus = "rotating"

	// CredentialStatusRevoked is terminal.
	CredentialStatusRevoked CredentialStatus = "revoked"
)

// Scope optionally restricts what a credential may do. Empty slices and nil
// fields mean no restriction on that axis.
type Scope struct {
	Capabilities []string   `json:"capabilities,omitempty"`
	Namespaces   []string   `json:"namespaces,omitempty"`
	Resources    []string   `json:"resources,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

// Credential represents an identity-bound secret credential.
type Credential struct {
	ID               string           // Unique identifier (crd_<uuidv7>)
	IdentityID       string           // Owning identity
	Type             CredentialType   // How the secret was issued and hashed
	SecretHash       string           //nolint:gosec // hashed secret (not plaintext)
	Status           CredentialStatus
	CreatedAt        time.Time
	ExpiresAt        *time.Time // nil means the credential never expires
	Scope            *Scope     // nil means unrestricted
	RevokedAt        *time.Time
	RevocationReason string
}

// NewCredentialID generates a credential identifier (crd_<uuidv7>).
func NewCredentialID() string {
	return "crd_" + strings.ReplaceAll(uuid.Must(uuid.NewV7()).String(), "-", "")
}

// IsExpired reports whether the credential-level expiry has passed.
func (c *Credential) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// IsScopeExpired reports whether the scope-level expiry has passed.
func (c *Credential) IsScopeExpired(now time.Time) bool {
	return c.Scope != nil && c.Scope.ExpiresAt != nil && c.Scope.ExpiresAt.Before(now)
}

// VerifyReason explains why verification failed. Exposed only to callers that
// already own the credential record; token-style untrusted-input paths never
// see these.
type VerifyReason string

const (
	ReasonRevoked       VerifyReason = "revoked"
	ReasonExpired       VerifyReason = "expired"
	ReasonScopeExpired  VerifyReason = "scope_expired"
	ReasonInvalidSecret VerifyReason = "invalid_secret"
	ReasonRateLimited   VerifyReason = "rate_limited"
)

// VerifyResult is the outcome of verifying a presented secret against a
// credential record.
type VerifyResult struct {
	Valid      bool
	IdentityID string       // Set only when Valid
	Reason     VerifyReason // Set only when !Valid
}

// Verify checks a presented plaintext secret against the credential. Checks
// run in a fixed order so the first failing one determines the reason:
// revoked, then credential expiry, then scope expiry, then the secret hash.
// The hash comparison is delegated to compare so the caller can pick the
// hashing scheme matching the credential type; compare implementations must
// be constant-time.
//
// A rotating credential still verifies: rotation issues a replacement secret
// but keeps the old one valid until it is explicitly revoked.
func (c *Credential) Verify(plainSecret string, compare func(plainSecret, secretHash string) bool, now time.Time) VerifyResult {
	if c.Status == CredentialStatusRevoked {
		return VerifyResult{Reason: ReasonRevoked}
	}
	if c.IsExpired(now) {
		return VerifyResult{Reason: ReasonExpired}
	}
	if c.IsScopeExpired(now) {
		return VerifyResult{Reason: ReasonScopeExpired}
	}
	if !compare(plainSecret, c.SecretHash) {
		return VerifyResult{Reason: ReasonInvalidSecret}
	}
	return VerifyResult{Valid: true, IdentityID: c.IdentityID}
}

// Rotating returns a copy with status set to rotating. The original is not
// mutated; the caller persists the copy.
func (c *Credential) Rotating() *Credential {
	updated := *c
	updated.Status = CredentialStatusRotating
	return &updated
}

// Revoked returns a copy marked revoked with the given reason. Idempotent: a
// credential that is already revoked is returned unchanged, preserving the
// original revocation timestamp and reason.
func (c *Credential) Revoked(reason string, now time.Time) *Credential {
	if c.Status == CredentialStatusRevoked {
		updated := *c
		return &updated
	}
	updated := *c
	updated.Status = CredentialStatusRevoked
	updated.RevokedAt = &now
	updated.RevocationReason = reason
	return &updated
}

// CreateCredentialInput contains the parameters for creating a credential.
type CreateCredentialInput struct {
	IdentityID string
	Type       CredentialType
	ExpiresAt  *time.Time // nil falls back to the configured default lifetime
	Scope      *Scope
}

// CreateCredentialOutput contains the created credential and its plaintext
// secret.
//
// Security Note: PlainSecret is returned exactly once and is never
// retrievable again. It must be transmitted securely and never logged.
type CreateCredentialOutput struct {
	Credential  *Credential
	PlainSecret string
}

// RotateCredentialOutput contains the result of rotating a credential: the
// old credential (now rotating, still valid) and its replacement with a fresh
// plaintext secret.
type RotateCredentialOutput struct {
	OldCredential *Credential
	NewCredential *Credential
	PlainSecret   string
}
