// Package usecase implements business logic orchestration for resource
// signing keys.
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/allisson/authcore/internal/errors"
	signingkeyDomain "github.com/allisson/authcore/internal/signingkey/domain"
)

// SigningKeyRepository defines persistence operations for signing keys.
type SigningKeyRepository interface {
	// Get retrieves the signing key for a resource. Returns
	// ErrSigningKeyNotFound if none exists.
	Get(ctx context.Context, resourceType, resourceID string) (*signingkeyDomain.SigningKey, error)

	// Put stores a signing key, replacing any previous version.
	Put(ctx context.Context, key *signingkeyDomain.SigningKey) error
}

// SigningKeyUseCase hands out the per-resource secrets the stateless token
// codec signs and verifies with.
type SigningKeyUseCase interface {
	// ResourceSecret returns the signing secret for a resource, generating
	// and storing one on first use.
	ResourceSecret(ctx context.Context, resourceType, resourceID string) (string, error)

	// Rotate replaces the resource's signing secret and returns the new one.
	// Every outstanding token signed with the previous secret stops
	// verifying, which is the only bulk revocation path for stateless
	// tokens.
	Rotate(ctx context.Context, resourceType, resourceID string) (string, error)
}

// signingKeyUseCase implements SigningKeyUseCase.
type signingKeyUseCase struct {
	repo   SigningKeyRepository
	keeper signingkeyDomain.Keeper
	group  singleflight.Group
}

// newSecret returns 32 random bytes encoded as base64.
func newSecret() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", apperrors.Wrap(err, "failed to generate signing secret")
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// ResourceSecret returns the signing secret for a resource. Concurrent
// first-use calls for the same resource are collapsed so only one secret is
// ever generated.
func (u *signingKeyUseCase) ResourceSecret(ctx context.Context, resourceType, resourceID string) (string, error) {
	if resourceType == "" {
		return "", signingkeyDomain.ErrResourceTypeRequired
	}
	if resourceID == "" {
		return "", signingkeyDomain.ErrResourceIDRequired
	}

	flightKey := fmt.Sprintf("%s:%s", resourceType, resourceID)
	secret, err, _ := u.group.Do(flightKey, func() (any, error) {
		key, err := u.repo.Get(ctx, resourceType, resourceID)
		if err == nil {
			plaintext, err := u.keeper.Decrypt(ctx, key.EncryptedSecret)
			if err != nil {
				return "", apperrors.Wrap(err, "failed to decrypt signing secret")
			}
			return string(plaintext), nil
		}
		if !apperrors.Is(err, signingkeyDomain.ErrSigningKeyNotFound) {
			return "", err
		}
		return u.store(ctx, resourceType, resourceID, 1, nil)
	})
	if err != nil {
		return "", err
	}
	return secret.(string), nil
}

// Rotate replaces the resource's signing secret. A resource without a key yet
// gets a fresh version 1 key.
func (u *signingKeyUseCase) Rotate(ctx context.Context, resourceType, resourceID string) (string, error) {
	if resourceType == "" {
		return "", signingkeyDomain.ErrResourceTypeRequired
	}
	if resourceID == "" {
		return "", signingkeyDomain.ErrResourceIDRequired
	}

	version := 1
	var rotatedAt *time.Time
	if existing, err := u.repo.Get(ctx, resourceType, resourceID); err == nil {
		version = existing.Version + 1
		now := time.Now().UTC()
		rotatedAt = &now
	} else if !apperrors.Is(err, signingkeyDomain.ErrSigningKeyNotFound) {
		return "", err
	}

	return u.store(ctx, resourceType, resourceID, version, rotatedAt)
}

func (u *signingKeyUseCase) store(
	ctx context.Context,
	resourceType, resourceID string,
	version int,
	rotatedAt *time.Time,
) (string, error) {
	secret, err := newSecret()
	if err != nil {
		return "", err
	}

	ciphertext, err := u.keeper.Encrypt(ctx, []byte(secret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encrypt signing secret")
	}

	key := &signingkeyDomain.SigningKey{
		ResourceType:    resourceType,
		ResourceID:      resourceID,
		EncryptedSecret: ciphertext,
		Version:         version,
		CreatedAt:       time.Now().UTC(),
		RotatedAt:       rotatedAt,
	}
	if err := u.repo.Put(ctx, key); err != nil {
		return "", err
	}
	return secret, nil
}

// NewSigningKeyUseCase creates a new SigningKeyUseCase with the provided
// dependencies. The keeper must already be open; the caller owns its
// lifecycle.
func NewSigningKeyUseCase(repo SigningKeyRepository, keeper signingkeyDomain.Keeper) SigningKeyUseCase {
	return &signingKeyUseCase{repo: repo, keeper: keeper}
}
