// Package domain defines identity domain models and lifecycle rules.
//
// An identity is who an actor is; credentials and grants attach to it. App
// identities additionally carry an origin-derived storage namespace.
package domain

import (
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	appvalidation "github.com/allisson/authcore/internal/validation"
)

// IdentityType is the actor taxonomy.
type IdentityType string

const (
	IdentityTypeUser      IdentityType = "user"
	IdentityTypeService   IdentityType = "service"
	IdentityTypeAgent     IdentityType = "agent"
	IdentityTypeApp       IdentityType = "app"
	IdentityTypeAnonymous IdentityType = "anonymous"
)

// Valid reports whether the identity type is one of the known types.
func (t IdentityType) Valid() bool {
	switch t {
	case IdentityTypeUser, IdentityTypeService, IdentityTypeAgent, IdentityTypeApp, IdentityTypeAnonymous:
		return true
	}
	return false
}

// IdentityStatus is the identity lifecycle state.
type IdentityStatus string

const (
	// IdentityStatusPendingClaim is the state of an identity created ahead of
	// its owner, waiting to be claimed through an invitation token.
	IdentityStatusPendingClaim IdentityStatus = "pending_claim"

	IdentityStatusActive    IdentityStatus = "active"
	IdentityStatusSuspended IdentityStatus = "suspended"

	// IdentityStatusDeleted is terminal and reachable from any state.
	IdentityStatusDeleted IdentityStatus = "deleted"
)

// AppConfig carries app-specific settings. Only identities of type app have
// one; Namespace is always derived from Origin, never set directly.
type AppConfig struct {
	Origin              string   `json:"origin"`
	Namespace           string   `json:"namespace"`
	GrantedCapabilities []string `json:"grantedCapabilities,omitempty"`
	FrameAccess         bool     `json:"frameAccess"`
}

// Identity represents an actor known to the authorization core.
type Identity struct {
	ID          string
	Type        IdentityType
	DisplayName string
	Status      IdentityStatus
	CreatedAt   time.Time
	CreatedBy   string // Identity that created this one; required for claimable identities
	AppConfig   *AppConfig
	Metadata    map[string]any
}

// NewIdentityID generates an identity identifier (idn_<uuidv7>).
func NewIdentityID() string {
	return "idn_" + strings.ReplaceAll(uuid.Must(uuid.NewV7()).String(), "-", "")
}

// DeriveNamespace deterministically maps an app origin to a storage
// namespace: scheme stripped, "." and ":" become "_", every other character
// outside [a-zA-Z0-9_] dropped.
//
//	"https://app.example.com:8443" -> "app_example_com_8443"
func DeriveNamespace(origin string) string {
	trimmed := origin
	if idx := strings.Index(trimmed, "://"); idx >= 0 {
		trimmed = trimmed[idx+3:]
	}

	var b strings.Builder
	b.Grow(len(trimmed))
	for _, r := range trimmed {
		switch {
		case r == '.' || r == ':':
			b.WriteByte('_')
		case r == '_' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Activated returns a copy transitioned to active. Only the
// pending_claim -> active transition is legal; any other current status is an
// error.
func (i *Identity) Activated() (*Identity, error) {
	if i.Status != IdentityStatusPendingClaim {
		return nil, ErrNotPendingClaim
	}
	updated := *i
	updated.Status = IdentityStatusActive
	return &updated, nil
}

// Suspended returns a copy with status suspended. Only an active identity can
// be suspended.
func (i *Identity) Suspended() (*Identity, error) {
	if i.Status != IdentityStatusActive {
		return nil, ErrNotActive
	}
	updated := *i
	updated.Status = IdentityStatusSuspended
	return &updated, nil
}

// Reactivated returns a copy of a suspended identity with status active.
func (i *Identity) Reactivated() (*Identity, error) {
	if i.Status != IdentityStatusSuspended {
		return nil, ErrNotSuspended
	}
	updated := *i
	updated.Status = IdentityStatusActive
	return &updated, nil
}

// Deleted returns a copy with the terminal deleted status. Legal from any
// state and idempotent.
func (i *Identity) Deleted() *Identity {
	updated := *i
	updated.Status = IdentityStatusDeleted
	return &updated
}

// ApplyUpdate returns a copy with the update merged in. Only provided fields
// change; Metadata merges key by key rather than being replaced.
func (i *Identity) ApplyUpdate(update *UpdateIdentityInput) *Identity {
	updated := *i

	if update.DisplayName != nil {
		updated.DisplayName = *update.DisplayName
	}

	if len(update.Metadata) > 0 {
		merged := make(map[string]any, len(i.Metadata)+len(update.Metadata))
		for k, v := range i.Metadata {
			merged[k] = v
		}
		for k, v := range update.Metadata {
			merged[k] = v
		}
		updated.Metadata = merged
	}

	if i.AppConfig != nil && (update.GrantedCapabilities != nil || update.FrameAccess != nil) {
		appConfig := *i.AppConfig
		if update.GrantedCapabilities != nil {
			appConfig.GrantedCapabilities = update.GrantedCapabilities
		}
		if update.FrameAccess != nil {
			appConfig.FrameAccess = *update.FrameAccess
		}
		updated.AppConfig = &appConfig
	}

	return &updated
}

// CreateIdentityInput contains the parameters for creating an identity.
type CreateIdentityInput struct {
	Type        IdentityType
	DisplayName string
	CreatedBy   string // Required for claimable identities
	AppConfig   *AppConfig
	Metadata    map[string]any
}

// Validate checks the required fields. App identities must carry a config
// with a well-formed origin.
func (in *CreateIdentityInput) Validate() error {
	if !in.Type.Valid() {
		return ErrUnknownIdentityType
	}

	if err := validation.Validate(in.DisplayName, validation.Required, appvalidation.NotBlank); err != nil {
		return ErrDisplayNameRequired
	}

	if in.Type == IdentityTypeApp {
		if in.AppConfig == nil || in.AppConfig.Origin == "" {
			return ErrAppOriginRequired
		}
		if err := validation.Validate(in.AppConfig.Origin, appvalidation.Origin); err != nil {
			return appvalidation.WrapValidationError(err)
		}
		for _, capability := range in.AppConfig.GrantedCapabilities {
			if err := validation.Validate(capability, appvalidation.CapabilityName); err != nil {
				return appvalidation.WrapValidationError(err)
			}
		}
	}

	return nil
}

// UpdateIdentityInput contains the mutable fields of an identity. Nil fields
// are left unchanged.
type UpdateIdentityInput struct {
	DisplayName         *string
	Metadata            map[string]any // Merged into existing metadata
	GrantedCapabilities []string       // App identities only; nil means unchanged
	FrameAccess         *bool          // App identities only
}
