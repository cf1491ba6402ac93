// Package domain defines capability grants and effective-permission
// resolution.
//
// A grant gives an identity one named capability, optionally scoped to
// namespaces, resources, and key patterns. Grants are never edited in place:
// the only mutation after creation is revocation.
package domain

import (
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	appvalidation "github.com/allisson/authcore/internal/validation"
)

// GrantSource records how a grant came to exist.
type GrantSource string

const (
	GrantSourceDirect     GrantSource = "direct"
	GrantSourceInvitation GrantSource = "invitation"
	GrantSourceDelegation GrantSource = "delegation"
	GrantSourceSystem     GrantSource = "system"
)

// Valid reports whether the grant source is one of the known sources.
func (s GrantSource) Valid() bool {
	switch s {
	case GrantSourceDirect, GrantSourceInvitation, GrantSourceDelegation, GrantSourceSystem:
		return true
	}
	return false
}

// ResourceRef identifies a single resource inside a grant scope.
type ResourceRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// GrantScope optionally narrows a grant. Empty slices mean no restriction on
// that axis; omission equals openness throughout the model.
type GrantScope struct {
	Namespaces  []string      `json:"namespaces,omitempty"`
	Resources   []ResourceRef `json:"resources,omitempty"`
	KeyPatterns []string      `json:"keyPatterns,omitempty"`
}

// CapabilityGrant grants one capability to one identity.
type CapabilityGrant struct {
	GrantID          string
	IdentityID       string
	Capability       string
	GrantedAt        time.Time
	GrantedBy        string
	Source           GrantSource
	SourceID         string // Invitation or delegation record behind the grant
	Scope            *GrantScope
	ExpiresAt        *time.Time
	RevokedAt        *time.Time
	RevokedBy        string
	RevocationReason string
}

// NewGrantID generates a grant identifier (gnt_<uuidv7>).
func NewGrantID() string {
	return "gnt_" + strings.ReplaceAll(uuid.Must(uuid.NewV7()).String(), "-", "")
}

// IsValid reports whether the grant is currently in force: not revoked and
// not expired.
func (g *CapabilityGrant) IsValid(now time.Time) bool {
	if g.RevokedAt != nil {
		return false
	}
	return g.ExpiresAt == nil || g.ExpiresAt.After(now)
}

// Revoked returns a copy marked revoked. Idempotent: an already revoked grant
// is returned unchanged, preserving the original revocation details.
func (g *CapabilityGrant) Revoked(revokedBy, reason string, now time.Time) *CapabilityGrant {
	updated := *g
	if g.RevokedAt != nil {
		return &updated
	}
	updated.RevokedAt = &now
	updated.RevokedBy = revokedBy
	updated.RevocationReason = reason
	return &updated
}

// CreateGrantInput contains the parameters for granting a capability.
type CreateGrantInput struct {
	IdentityID string
	Capability string
	GrantedBy  string
	Source     GrantSource
	SourceID   string
	Scope      *GrantScope
	ExpiresAt  *time.Time
}

// Validate checks the required fields and the capability name shape.
func (in *CreateGrantInput) Validate() error {
	if in.IdentityID == "" {
		return ErrGrantIdentityRequired
	}
	if in.GrantedBy == "" {
		return ErrGrantedByRequired
	}
	if !in.Source.Valid() {
		return ErrUnknownGrantSource
	}
	if err := validation.Validate(in.Capability, validation.Required, appvalidation.CapabilityName); err != nil {
		return appvalidation.WrapValidationError(err)
	}
	return nil
}
