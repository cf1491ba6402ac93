// Package usecase implements business logic orchestration for credential operations.
package usecase

import (
	"context"
	"time"

	"github.com/allisson/authcore/internal/config"
	credentialDomain "github.com/allisson/authcore/internal/credential/domain"
	credentialService "github.com/allisson/authcore/internal/credential/service"
)

// throttleCleanupAge is how long an idle per-credential limiter survives
// before opportunistic cleanup drops it.
const throttleCleanupAge = 5 * time.Minute

// credentialUseCase implements CredentialUseCase.
type credentialUseCase struct {
	config         *config.Config
	credentialRepo CredentialRepository
	secretService  credentialService.SecretService
	tokenService   credentialService.TokenService
	throttle       *verifyThrottle
}

// Create generates and persists a new credential with a random secret.
// The plain secret is only returned once and must be securely stored by the
// caller. Only the hashed version is persisted.
func (c *credentialUseCase) Create(
	ctx context.Context,
	createCredentialInput *credentialDomain.CreateCredentialInput,
) (*credentialDomain.CreateCredentialOutput, error) {
	if createCredentialInput.IdentityID == "" {
		return nil, credentialDomain.ErrIdentityIDRequired
	}
	if !createCredentialInput.Type.Valid() {
		return nil, credentialDomain.ErrUnknownCredentialType
	}

	// Api keys use Argon2id; generated high-entropy tokens use SHA-256.
	var plainSecret, hashedSecret string
	var err error
	if createCredentialInput.Type == credentialDomain.CredentialTypeAPIKey {
		plainSecret, hashedSecret, err = c.secretService.GenerateSecret()
	} else {
		plainSecret, hashedSecret, err = c.tokenService.GenerateToken()
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	expiresAt := createCredentialInput.ExpiresAt
	if expiresAt == nil && c.config.CredentialExpiration > 0 {
		defaultExpiry := now.Add(c.config.CredentialExpiration)
		expiresAt = &defaultExpiry
	}

	credential := &credentialDomain.Credential{
		ID:         credentialDomain.NewCredentialID(),
		IdentityID: createCredentialInput.IdentityID,
		Type:       createCredentialInput.Type,
		SecretHash: hashedSecret,
		Status:     credentialDomain.CredentialStatusActive,
		CreatedAt:  now,
		ExpiresAt:  expiresAt,
		Scope:      createCredentialInput.Scope,
	}

	if err := c.credentialRepo.Create(ctx, credential); err != nil {
		return nil, err
	}

	return &credentialDomain.CreateCredentialOutput{
		Credential:  credential,
		PlainSecret: plainSecret,
	}, nil
}

// Verify checks a presented secret against the stored credential.
func (c *credentialUseCase) Verify(
	ctx context.Context,
	credentialID string,
	plainSecret string,
) (*credentialDomain.VerifyResult, error) {
	if c.throttle != nil {
		c.throttle.cleanupStale(throttleCleanupAge)
		if !c.throttle.Allow(credentialID) {
			return &credentialDomain.VerifyResult{Reason: credentialDomain.ReasonRateLimited}, nil
		}
	}

	credential, err := c.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return nil, err
	}

	result := credential.Verify(plainSecret, c.compareFunc(credential.Type), time.Now().UTC())
	return &result, nil
}

// compareFunc picks the constant-time comparison matching the hashing scheme
// of the credential type.
func (c *credentialUseCase) compareFunc(credentialType credentialDomain.CredentialType) func(plainSecret, secretHash string) bool {
	if credentialType == credentialDomain.CredentialTypeAPIKey {
		return c.secretService.CompareSecret
	}
	return c.tokenService.CompareToken
}

// Rotate issues a replacement credential and marks the old one rotating.
//
// The replacement preserves the old credential's type, scope, and expiry. The
// old credential keeps verifying until it is explicitly revoked; both updates
// are persisted before the new plaintext secret is returned.
func (c *credentialUseCase) Rotate(
	ctx context.Context,
	credentialID string,
) (*credentialDomain.RotateCredentialOutput, error) {
	credential, err := c.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if credential.Status == credentialDomain.CredentialStatusRevoked {
		return nil, credentialDomain.ErrCredentialRevoked
	}

	var plainSecret, hashedSecret string
	if credential.Type == credentialDomain.CredentialTypeAPIKey {
		plainSecret, hashedSecret, err = c.secretService.GenerateSecret()
	} else {
		plainSecret, hashedSecret, err = c.tokenService.GenerateToken()
	}
	if err != nil {
		return nil, err
	}

	newCredential := &credentialDomain.Credential{
		ID:         credentialDomain.NewCredentialID(),
		IdentityID: credential.IdentityID,
		Type:       credential.Type,
		SecretHash: hashedSecret,
		Status:     credentialDomain.CredentialStatusActive,
		CreatedAt:  time.Now().UTC(),
		ExpiresAt:  credential.ExpiresAt,
		Scope:      credential.Scope,
	}

	oldCredential := credential.Rotating()
	if err := c.credentialRepo.Update(ctx, oldCredential); err != nil {
		return nil, err
	}
	if err := c.credentialRepo.Create(ctx, newCredential); err != nil {
		return nil, err
	}

	return &credentialDomain.RotateCredentialOutput{
		OldCredential: oldCredential,
		NewCredential: newCredential,
		PlainSecret:   plainSecret,
	}, nil
}

// Revoke terminally revokes a credential. Idempotent: an already revoked
// credential is returned unchanged without a second write.
func (c *credentialUseCase) Revoke(
	ctx context.Context,
	credentialID string,
	reason string,
) (*credentialDomain.Credential, error) {
	credential, err := c.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if credential.Status == credentialDomain.CredentialStatusRevoked {
		return credential, nil
	}

	revoked := credential.Revoked(reason, time.Now().UTC())
	if err := c.credentialRepo.Update(ctx, revoked); err != nil {
		return nil, err
	}
	return revoked, nil
}

// Get retrieves a credential by ID.
func (c *credentialUseCase) Get(ctx context.Context, credentialID string) (*credentialDomain.Credential, error) {
	return c.credentialRepo.Get(ctx, credentialID)
}

// ListByIdentity retrieves all credentials owned by an identity.
func (c *credentialUseCase) ListByIdentity(ctx context.Context, identityID string) ([]*credentialDomain.Credential, error) {
	return c.credentialRepo.ListByIdentity(ctx, identityID)
}

// NewCredentialUseCase creates a new CredentialUseCase with the provided
// dependencies. Verification throttling follows the configuration; when
// disabled, verify calls are unthrottled.
func NewCredentialUseCase(
	cfg *config.Config,
	credentialRepo CredentialRepository,
	secretService credentialService.SecretService,
	tokenService credentialService.TokenService,
) CredentialUseCase {
	var throttle *verifyThrottle
	if cfg.VerifyRateEnabled {
		throttle = newVerifyThrottle(cfg.VerifyRatePerSec, cfg.VerifyRateBurst)
	}

	return &credentialUseCase{
		config:         cfg,
		credentialRepo: credentialRepo,
		secretService:  secretService,
		tokenService:   tokenService,
		throttle:       throttle,
	}
}
