// Package usecase implements business logic orchestration for stateful
// tokens.
package usecase

import (
	"context"
	"time"

	"github.com/allisson/authcore/internal/config"
	tokenDomain "github.com/allisson/authcore/internal/statefultoken/domain"
)

// defaultExpiration applies when the configuration does not set one.
const defaultExpiration = 7 * 24 * time.Hour

// TokenRepository defines persistence operations for stateful tokens.
type TokenRepository interface {
	// Create stores a new token in the repository.
	Create(ctx context.Context, token *tokenDomain.StatefulToken) error

	// Update modifies an existing token in the repository. Implementations
	// must apply single-writer-wins semantics so a single-use token cannot
	// be consumed twice under concurrent requests.
	Update(ctx context.Context, token *tokenDomain.StatefulToken) error

	// Get retrieves a token by ID. Returns ErrTokenNotFound if not found.
	Get(ctx context.Context, tokenID string) (*tokenDomain.StatefulToken, error)
}

// CreateTokenInput carries the shared fields of every token constructor.
type CreateTokenInput struct {
	CreatedBy string
	Label     string
	ExpiresIn time.Duration // Zero falls back to the configured default
}

// TokenUseCase defines business logic operations for single-use tokens.
type TokenUseCase interface {
	// CreateIdentityClaimToken mints a token that lets its holder claim the
	// given pending identity.
	CreateIdentityClaimToken(ctx context.Context, identityID string, input CreateTokenInput) (*tokenDomain.StatefulToken, error)

	// CreateBlobAccessToken mints a token granting the listed permissions on
	// a single blob.
	CreateBlobAccessToken(ctx context.Context, resourceID string, permissions []string, input CreateTokenInput) (*tokenDomain.StatefulToken, error)

	// CreateChannelAccessToken mints a token granting the listed permissions
	// on a single channel.
	CreateChannelAccessToken(ctx context.Context, resourceID string, permissions []string, input CreateTokenInput) (*tokenDomain.StatefulToken, error)

	// Get retrieves a token by ID.
	Get(ctx context.Context, tokenID string) (*tokenDomain.StatefulToken, error)

	// CheckValidity reports whether the token can still be consumed and, if
	// not, which check failed (expired, revoked, used).
	CheckValidity(ctx context.Context, tokenID string) (valid bool, reason string, err error)

	// Consume marks a valid token used and persists the updated record.
	// Returns ErrTokenNotValid when the token is expired, revoked, or
	// already used.
	Consume(ctx context.Context, tokenID string, usedBy string) (*tokenDomain.StatefulToken, error)

	// Revoke marks a token revoked. Idempotent.
	Revoke(ctx context.Context, tokenID string, reason string) (*tokenDomain.StatefulToken, error)

	// ClaimURL builds the long-form share link for a token.
	ClaimURL(token *tokenDomain.StatefulToken, gatewayURL string) string

	// CompactShareRef builds the fragment-form share link for a token.
	CompactShareRef(token *tokenDomain.StatefulToken, gatewayURL string) string
}

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	config    *config.Config
	tokenRepo TokenRepository
}

func (u *tokenUseCase) newToken(action tokenDomain.TokenAction, input CreateTokenInput) (*tokenDomain.StatefulToken, error) {
	if input.CreatedBy == "" {
		return nil, tokenDomain.ErrTokenCreatedByRequired
	}

	expiresIn := input.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = u.config.StatefulTokenExpiration
	}
	if expiresIn <= 0 {
		expiresIn = defaultExpiration
	}

	now := time.Now().UTC()
	return &tokenDomain.StatefulToken{
		ID:        tokenDomain.NewTokenID(),
		Action:    action,
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
		CreatedBy: input.CreatedBy,
		Label:     input.Label,
	}, nil
}

// CreateIdentityClaimToken mints and persists an identity_claim token.
func (u *tokenUseCase) CreateIdentityClaimToken(
	ctx context.Context,
	identityID string,
	input CreateTokenInput,
) (*tokenDomain.StatefulToken, error) {
	if identityID == "" {
		return nil, tokenDomain.ErrTokenIdentityRequired
	}

	token, err := u.newToken(tokenDomain.TokenActionIdentityClaim, input)
	if err != nil {
		return nil, err
	}
	token.IdentityClaim = &tokenDomain.IdentityClaimPayload{IdentityID: identityID}

	if err := u.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// CreateBlobAccessToken mints and persists a blob_access token.
func (u *tokenUseCase) CreateBlobAccessToken(
	ctx context.Context,
	resourceID string,
	permissions []string,
	input CreateTokenInput,
) (*tokenDomain.StatefulToken, error) {
	return u.createResourceToken(ctx, tokenDomain.TokenActionBlobAccess, resourceID, permissions, input)
}

// CreateChannelAccessToken mints and persists a channel_access token.
func (u *tokenUseCase) CreateChannelAccessToken(
	ctx context.Context,
	resourceID string,
	permissions []string,
	input CreateTokenInput,
) (*tokenDomain.StatefulToken, error) {
	return u.createResourceToken(ctx, tokenDomain.TokenActionChannelAccess, resourceID, permissions, input)
}

func (u *tokenUseCase) createResourceToken(
	ctx context.Context,
	action tokenDomain.TokenAction,
	resourceID string,
	permissions []string,
	input CreateTokenInput,
) (*tokenDomain.StatefulToken, error) {
	if resourceID == "" {
		return nil, tokenDomain.ErrTokenResourceRequired
	}

	token, err := u.newToken(action, input)
	if err != nil {
		return nil, err
	}
	token.ResourceAccess = &tokenDomain.ResourceAccessPayload{
		ResourceID:  resourceID,
		Permissions: permissions,
	}

	if err := u.tokenRepo.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// Get retrieves a token by ID.
func (u *tokenUseCase) Get(ctx context.Context, tokenID string) (*tokenDomain.StatefulToken, error) {
	return u.tokenRepo.Get(ctx, tokenID)
}

// CheckValidity reports whether the token can still be consumed.
func (u *tokenUseCase) CheckValidity(ctx context.Context, tokenID string) (bool, string, error) {
	token, err := u.tokenRepo.Get(ctx, tokenID)
	if err != nil {
		return false, "", err
	}

	reason := token.InvalidReason(time.Now().UTC())
	return reason == "", reason, nil
}

// Consume marks a valid token used and persists the updated record.
func (u *tokenUseCase) Consume(ctx context.Context, tokenID string, usedBy string) (*tokenDomain.StatefulToken, error) {
	token, err := u.tokenRepo.Get(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !token.IsValid(now) {
		return nil, tokenDomain.ErrTokenNotValid
	}

	used := token.MarkUsed(usedBy, now)
	if err := u.tokenRepo.Update(ctx, used); err != nil {
		return nil, err
	}
	return used, nil
}

// Revoke marks a token revoked. Already revoked tokens are returned unchanged
// without a second write.
func (u *tokenUseCase) Revoke(ctx context.Context, tokenID string, reason string) (*tokenDomain.StatefulToken, error) {
	token, err := u.tokenRepo.Get(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if token.Revoked {
		return token, nil
	}

	revoked := token.Revoke(reason, time.Now().UTC())
	if err := u.tokenRepo.Update(ctx, revoked); err != nil {
		return nil, err
	}
	return revoked, nil
}

// ClaimURL builds the long-form share link using the configured base URL.
func (u *tokenUseCase) ClaimURL(token *tokenDomain.StatefulToken, gatewayURL string) string {
	return token.ClaimURL(u.config.ShareBaseURL, gatewayURL)
}

// CompactShareRef builds the fragment-form share link using the configured
// base URL.
func (u *tokenUseCase) CompactShareRef(token *tokenDomain.StatefulToken, gatewayURL string) string {
	return token.CompactShareRef(u.config.ShareBaseURL, gatewayURL)
}

// NewTokenUseCase creates a new TokenUseCase with the provided dependencies.
func NewTokenUseCase(cfg *config.Config, tokenRepo TokenRepository) TokenUseCase {
	return &tokenUseCase{config: cfg, tokenRepo: tokenRepo}
}
