package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	identityDomain "github.com/allisson/authcore/internal/identity/domain"
	identityRepository "github.com/allisson/authcore/internal/identity/repository"
	"github.com/allisson/authcore/internal/kv"
)

// The identity lifecycle is exercised against the real key-value repository:
// the transitions are where the behavior lives, and the in-memory store keeps
// the tests fast without mock bookkeeping.
func newTestUseCase() IdentityUseCase {
	return NewIdentityUseCase(identityRepository.NewKVIdentityRepository(kv.NewMemoryStore()))
}

func TestIdentityUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CreateActiveUser", func(t *testing.T) {
		uc := newTestUseCase()

		identity, err := uc.Create(ctx, &identityDomain.CreateIdentityInput{
			Type:        identityDomain.IdentityTypeUser,
			DisplayName: "alice",
		})

		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(identity.ID, "idn_"))
		assert.Equal(t, identityDomain.IdentityStatusActive, identity.Status)

		got, err := uc.Get(ctx, identity.ID)
		assert.NoError(t, err)
		assert.Equal(t, "alice", got.DisplayName)
	})

	t.Run("Success_CreateAppDerivesNamespace", func(t *testing.T) {
		uc := newTestUseCase()

		identity, err := uc.Create(ctx, &identityDomain.CreateIdentityInput{
			Type:        identityDomain.IdentityTypeApp,
			DisplayName: "example app",
			AppConfig:   &identityDomain.AppConfig{Origin: "https://app.example.com:8443"},
		})

		assert.NoError(t, err)
		assert.Equal(t, "app_example_com_8443", identity.AppConfig.Namespace)
	})

	t.Run("Error_InvalidInput", func(t *testing.T) {
		uc := newTestUseCase()

		_, err := uc.Create(ctx, &identityDomain.CreateIdentityInput{
			Type: identityDomain.IdentityTypeUser,
		})
		assert.ErrorIs(t, err, identityDomain.ErrDisplayNameRequired)
	})
}

func TestIdentityUseCase_ClaimFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CreateClaimableAndActivate", func(t *testing.T) {
		uc := newTestUseCase()

		identity, err := uc.CreateClaimable(ctx, &identityDomain.CreateIdentityInput{
			Type:        identityDomain.IdentityTypeUser,
			DisplayName: "invited user",
			CreatedBy:   "idn_inviter",
		})
		assert.NoError(t, err)
		assert.Equal(t, identityDomain.IdentityStatusPendingClaim, identity.Status)
		assert.Equal(t, "idn_inviter", identity.CreatedBy)

		activated, err := uc.Activate(ctx, identity.ID)
		assert.NoError(t, err)
		assert.Equal(t, identityDomain.IdentityStatusActive, activated.Status)

		// A second activation is an invalid transition.
		_, err = uc.Activate(ctx, identity.ID)
		assert.ErrorIs(t, err, identityDomain.ErrNotPendingClaim)
	})

	t.Run("Error_ClaimableRequiresCreatedBy", func(t *testing.T) {
		uc := newTestUseCase()

		_, err := uc.CreateClaimable(ctx, &identityDomain.CreateIdentityInput{
			Type:        identityDomain.IdentityTypeUser,
			DisplayName: "invited user",
		})
		assert.ErrorIs(t, err, identityDomain.ErrCreatedByRequired)
	})

	t.Run("Error_ActivateUnknownIdentity", func(t *testing.T) {
		uc := newTestUseCase()

		_, err := uc.Activate(ctx, "idn_missing")
		assert.ErrorIs(t, err, identityDomain.ErrIdentityNotFound)
	})
}

func TestIdentityUseCase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_PartialMerge", func(t *testing.T) {
		uc := newTestUseCase()

		identity, err := uc.Create(ctx, &identityDomain.CreateIdentityInput{
			Type:        identityDomain.IdentityTypeUser,
			DisplayName: "alice",
			Metadata:    map[string]any{"team": "storage", "level": "member"},
		})
		assert.NoError(t, err)

		name := "alice b"
		updated, err := uc.Update(ctx, identity.ID, &identityDomain.UpdateIdentityInput{
			DisplayName: &name,
			Metadata:    map[string]any{"level": "admin"},
		})
		assert.NoError(t, err)
		assert.Equal(t, "alice b", updated.DisplayName)
		assert.Equal(t, "storage", updated.Metadata["team"])
		assert.Equal(t, "admin", updated.Metadata["level"])
	})

	t.Run("Error_UpdateDeleted", func(t *testing.T) {
		uc := newTestUseCase()

		identity, err := uc.Create(ctx, &identityDomain.CreateIdentityInput{
			Type:        identityDomain.IdentityTypeUser,
			DisplayName: "alice",
		})
		assert.NoError(t, err)
		assert.NoError(t, uc.Delete(ctx, identity.ID))

		name := "new name"
		_, err = uc.Update(ctx, identity.ID, &identityDomain.UpdateIdentityInput{DisplayName: &name})
		assert.ErrorIs(t, err, identityDomain.ErrIdentityDeleted)
	})
}

func TestIdentityUseCase_SuspendReactivateDelete(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCase()

	identity, err := uc.Create(ctx, &identityDomain.CreateIdentityInput{
		Type:        identityDomain.IdentityTypeService,
		DisplayName: "backup service",
	})
	assert.NoError(t, err)

	suspended, err := uc.Suspend(ctx, identity.ID)
	assert.NoError(t, err)
	assert.Equal(t, identityDomain.IdentityStatusSuspended, suspended.Status)

	// A suspended identity cannot be suspended again.
	_, err = uc.Suspend(ctx, identity.ID)
	assert.ErrorIs(t, err, identityDomain.ErrNotActive)

	reactivated, err := uc.Reactivate(ctx, identity.ID)
	assert.NoError(t, err)
	assert.Equal(t, identityDomain.IdentityStatusActive, reactivated.Status)

	// Delete is terminal from any state and idempotent.
	assert.NoError(t, uc.Delete(ctx, identity.ID))
	assert.NoError(t, uc.Delete(ctx, identity.ID))

	got, err := uc.Get(ctx, identity.ID)
	assert.NoError(t, err)
	assert.Equal(t, identityDomain.IdentityStatusDeleted, got.Status)
}
