// Package usecase implements business logic orchestration for identity operations.
package usecase

import (
	"context"
	"time"

	identityDomain "github.com/allisson/authcore/internal/identity/domain"
)

// identityUseCase implements IdentityUseCase.
type identityUseCase struct {
	identityRepo IdentityRepository
}

// newIdentity validates the input and builds the identity entity in the
// given initial status.
func newIdentity(
	createIdentityInput *identityDomain.CreateIdentityInput,
	status identityDomain.IdentityStatus,
) (*identityDomain.Identity, error) {
	if err := createIdentityInput.Validate(); err != nil {
		return nil, err
	}

	identity := &identityDomain.Identity{
		ID:          identityDomain.NewIdentityID(),
		Type:        createIdentityInput.Type,
		DisplayName: createIdentityInput.DisplayName,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   createIdentityInput.CreatedBy,
		Metadata:    createIdentityInput.Metadata,
	}

	// App identities get their storage namespace derived from the origin;
	// the namespace is never caller-supplied.
	if createIdentityInput.Type == identityDomain.IdentityTypeApp {
		appConfig := *createIdentityInput.AppConfig
		appConfig.Namespace = identityDomain.DeriveNamespace(appConfig.Origin)
		identity.AppConfig = &appConfig
	}

	return identity, nil
}

// Create registers a new active identity.
func (u *identityUseCase) Create(
	ctx context.Context,
	createIdentityInput *identityDomain.CreateIdentityInput,
) (*identityDomain.Identity, error) {
	identity, err := newIdentity(createIdentityInput, identityDomain.IdentityStatusActive)
	if err != nil {
		return nil, err
	}
	if err := u.identityRepo.Create(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// CreateClaimable registers a pending_claim identity. CreatedBy is required.
func (u *identityUseCase) CreateClaimable(
	ctx context.Context,
	createIdentityInput *identityDomain.CreateIdentityInput,
) (*identityDomain.Identity, error) {
	if createIdentityInput.CreatedBy == "" {
		return nil, identityDomain.ErrCreatedByRequired
	}

	identity, err := newIdentity(createIdentityInput, identityDomain.IdentityStatusPendingClaim)
	if err != nil {
		return nil, err
	}
	if err := u.identityRepo.Create(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

// Activate transitions a pending_claim identity to active.
func (u *identityUseCase) Activate(ctx context.Context, identityID string) (*identityDomain.Identity, error) {
	return u.transition(ctx, identityID, (*identityDomain.Identity).Activated)
}

// Suspend transitions an active identity to suspended.
func (u *identityUseCase) Suspend(ctx context.Context, identityID string) (*identityDomain.Identity, error) {
	return u.transition(ctx, identityID, (*identityDomain.Identity).Suspended)
}

// Reactivate transitions a suspended identity back to active.
func (u *identityUseCase) Reactivate(ctx context.Context, identityID string) (*identityDomain.Identity, error) {
	return u.transition(ctx, identityID, (*identityDomain.Identity).Reactivated)
}

func (u *identityUseCase) transition(
	ctx context.Context,
	identityID string,
	apply func(*identityDomain.Identity) (*identityDomain.Identity, error),
) (*identityDomain.Identity, error) {
	identity, err := u.identityRepo.Get(ctx, identityID)
	if err != nil {
		return nil, err
	}

	updated, err := apply(identity)
	if err != nil {
		return nil, err
	}
	if err := u.identityRepo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Update applies a partial update. Deleted identities cannot be updated.
func (u *identityUseCase) Update(
	ctx context.Context,
	identityID string,
	updateIdentityInput *identityDomain.UpdateIdentityInput,
) (*identityDomain.Identity, error) {
	identity, err := u.identityRepo.Get(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if identity.Status == identityDomain.IdentityStatusDeleted {
		return nil, identityDomain.ErrIdentityDeleted
	}

	updated := identity.ApplyUpdate(updateIdentityInput)
	if err := u.identityRepo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete transitions an identity to deleted. Idempotent.
func (u *identityUseCase) Delete(ctx context.Context, identityID string) error {
	identity, err := u.identityRepo.Get(ctx, identityID)
	if err != nil {
		return err
	}
	if identity.Status == identityDomain.IdentityStatusDeleted {
		return nil
	}
	return u.identityRepo.Update(ctx, identity.Deleted())
}

// Get retrieves an identity by ID.
func (u *identityUseCase) Get(ctx context.Context, identityID string) (*identityDomain.Identity, error) {
	return u.identityRepo.Get(ctx, identityID)
}

// NewIdentityUseCase creates a new IdentityUseCase with the provided
// dependencies.
func NewIdentityUseCase(identityRepo IdentityRepository) IdentityUseCase {
	return &identityUseCase{identityRepo: identityRepo}
}
