// Package usecase implements business logic orchestration for capability
// grants.
package usecase

import (
	"context"
	"time"

	grantDomain "github.com/allisson/authcore/internal/grant/domain"
)

// GrantRepository defines persistence operations for capability grants.
type GrantRepository interface {
	// Create stores a new grant in the repository.
	Create(ctx context.Context, grant *grantDomain.CapabilityGrant) error

	// Update modifies an existing grant in the repository.
	Update(ctx context.Context, grant *grantDomain.CapabilityGrant) error

	// Get retrieves a grant by ID. Returns ErrGrantNotFound if not found.
	Get(ctx context.Context, grantID string) (*grantDomain.CapabilityGrant, error)

	// ListByIdentity retrieves all grants held by an identity.
	ListByIdentity(ctx context.Context, identityID string) ([]*grantDomain.CapabilityGrant, error)
}

// GrantUseCase defines business logic operations for granting, revoking, and
// resolving capabilities.
type GrantUseCase interface {
	// Grant records a new capability grant for an identity.
	Grant(ctx context.Context, createGrantInput *grantDomain.CreateGrantInput) (*grantDomain.CapabilityGrant, error)

	// Revoke marks a grant revoked. Idempotent: revoking an already revoked
	// grant preserves the original revocation details.
	Revoke(ctx context.Context, grantID, revokedBy, reason string) (*grantDomain.CapabilityGrant, error)

	// ListByIdentity retrieves all grants held by an identity.
	ListByIdentity(ctx context.Context, identityID string) ([]*grantDomain.CapabilityGrant, error)

	// Resolve loads an identity's grants and resolves them against optional
	// credential-scope and token-claim capability restrictions. Nil slices
	// mean no restriction at that layer.
	Resolve(
		ctx context.Context,
		identityID string,
		credentialCapabilities []string,
		tokenCapabilities []string,
	) (*grantDomain.EffectivePermissions, error)
}

// grantUseCase implements GrantUseCase.
type grantUseCase struct {
	grantRepo GrantRepository
}

// Grant validates the input and persists a new capability grant.
func (u *grantUseCase) Grant(
	ctx context.Context,
	createGrantInput *grantDomain.CreateGrantInput,
) (*grantDomain.CapabilityGrant, error) {
	if err := createGrantInput.Validate(); err != nil {
		return nil, err
	}

	grant := &grantDomain.CapabilityGrant{
		GrantID:    grantDomain.NewGrantID(),
		IdentityID: createGrantInput.IdentityID,
		Capability: createGrantInput.Capability,
		GrantedAt:  time.Now().UTC(),
		GrantedBy:  createGrantInput.GrantedBy,
		Source:     createGrantInput.Source,
		SourceID:   createGrantInput.SourceID,
		Scope:      createGrantInput.Scope,
		ExpiresAt:  createGrantInput.ExpiresAt,
	}

	if err := u.grantRepo.Create(ctx, grant); err != nil {
		return nil, err
	}
	return grant, nil
}

// Revoke marks a grant revoked. Already revoked grants are returned unchanged
// without a second write.
func (u *grantUseCase) Revoke(
	ctx context.Context,
	grantID, revokedBy, reason string,
) (*grantDomain.CapabilityGrant, error) {
	grant, err := u.grantRepo.Get(ctx, grantID)
	if err != nil {
		return nil, err
	}
	if grant.RevokedAt != nil {
		return grant, nil
	}

	revoked := grant.Revoked(revokedBy, reason, time.Now().UTC())
	if err := u.grantRepo.Update(ctx, revoked); err != nil {
		return nil, err
	}
	return revoked, nil
}

// ListByIdentity retrieves all grants held by an identity.
func (u *grantUseCase) ListByIdentity(ctx context.Context, identityID string) ([]*grantDomain.CapabilityGrant, error) {
	return u.grantRepo.ListByIdentity(ctx, identityID)
}

// Resolve loads an identity's grants and computes effective permissions.
func (u *grantUseCase) Resolve(
	ctx context.Context,
	identityID string,
	credentialCapabilities []string,
	tokenCapabilities []string,
) (*grantDomain.EffectivePermissions, error) {
	grants, err := u.grantRepo.ListByIdentity(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return grantDomain.ResolveEffectivePermissions(
		grants,
		credentialCapabilities,
		tokenCapabilities,
		time.Now().UTC(),
	), nil
}

// NewGrantUseCase creates a new GrantUseCase with the provided dependencies.
func NewGrantUseCase(grantRepo GrantRepository) GrantUseCase {
	return &grantUseCase{grantRepo: grantRepo}
}
