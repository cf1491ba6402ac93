// Package usecase defines business logic interfaces for identity operations.
package usecase

import (
	"context"

	identityDomain "github.com/allisson/authcore/internal/identity/domain"
)

// IdentityRepository defines persistence operations for identities.
type IdentityRepository interface {
	// Create stores a new identity in the repository.
	Create(ctx context.Context, identity *identityDomain.Identity) error

	// Update modifies an existing identity in the repository.
	Update(ctx context.Context, identity *identityDomain.Identity) error

	// Get retrieves an identity by ID. Returns ErrIdentityNotFound if not found.
	Get(ctx context.Context, identityID string) (*identityDomain.Identity, error)
}

// IdentityUseCase defines business logic operations for the identity
// lifecycle.
type IdentityUseCase interface {
	// Create registers a new identity in the active state. App identities
	// get their storage namespace derived from the configured origin.
	Create(
		ctx context.Context,
		createIdentityInput *identityDomain.CreateIdentityInput,
	) (*identityDomain.Identity, error)

	// CreateClaimable registers an identity in the pending_claim state, to be
	// claimed later through an invitation token. CreatedBy is required so the
	// claim chain stays auditable.
	CreateClaimable(
		ctx context.Context,
		createIdentityInput *identityDomain.CreateIdentityInput,
	) (*identityDomain.Identity, error)

	// Activate transitions a pending_claim identity to active. Any other
	// current status is an error.
	Activate(ctx context.Context, identityID string) (*identityDomain.Identity, error)

	// Update applies a partial update: only provided fields change and
	// metadata merges key by key.
	Update(
		ctx context.Context,
		identityID string,
		updateIdentityInput *identityDomain.UpdateIdentityInput,
	) (*identityDomain.Identity, error)

	// Suspend transitions an active identity to suspended.
	Suspend(ctx context.Context, identityID string) (*identityDomain.Identity, error)

	// Reactivate transitions a suspended identity back to active.
	Reactivate(ctx context.Context, identityID string) (*identityDomain.Identity, error)

	// Delete transitions an identity to the terminal deleted state. Legal
	// from any state and idempotent.
	Delete(ctx context.Context, identityID string) error

	// Get retrieves an identity by ID.
	Get(ctx context.Context, identityID string) (*identityDomain.Identity, error)
}
