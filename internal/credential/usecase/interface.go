// Package usecase defines business logic interfaces for credential operations.
package usecase

import (
	"context"

	credentialDomain "github.com/allisson/authcore/internal/credential/domain"
)

// CredentialRepository defines persistence operations for credentials.
type CredentialRepository interface {
	// Create stores a new credential in the repository.
	Create(ctx context.Context, credential *credentialDomain.Credential) error

	// Update modifies an existing credential in the repository.
	Update(ctx context.Context, credential *credentialDomain.Credential) error

	// Get retrieves a credential by ID. Returns ErrCredentialNotFound if not found.
	Get(ctx context.Context, credentialID string) (*credentialDomain.Credential, error)

	// ListByIdentity retrieves all credentials owned by an identity.
	ListByIdentity(ctx context.Context, identityID string) ([]*credentialDomain.Credential, error)
}

// CredentialUseCase defines business logic operations for credential
// lifecycle: creation, verification, rotation with grace period, and
// revocation.
type CredentialUseCase interface {
	// Create generates a new credential with a cryptographically secure
	// secret. Api keys are hashed with Argon2id; generated bearer/refresh
	// tokens with SHA-256.
	//
	// Security Note: the returned PlainSecret is shown exactly once. Only the
	// hash is stored; there is no way to recover the plaintext later.
	Create(
		ctx context.Context,
		createCredentialInput *credentialDomain.CreateCredentialInput,
	) (*credentialDomain.CreateCredentialOutput, error)

	// Verify checks a presented secret against a stored credential. The
	// checks run in a fixed order and the first failure determines the
	// reason: revoked, expired, scope_expired, invalid_secret. A rotating
	// credential still verifies.
	//
	// Returns ErrCredentialNotFound if the credential id is unknown; all
	// other failures are reported through the result, not an error.
	Verify(ctx context.Context, credentialID string, plainSecret string) (*credentialDomain.VerifyResult, error)

	// Rotate issues a replacement credential with identical scope and expiry
	// and marks the old one rotating. The old secret keeps verifying until
	// the old credential is explicitly revoked; the grace period is mandatory
	// so a secret rollout never interrupts service.
	Rotate(ctx context.Context, credentialID string) (*credentialDomain.RotateCredentialOutput, error)

	// Revoke terminally revokes a credential with the given reason.
	// Idempotent: revoking an already revoked credential is a no-op that
	// preserves the original revocation timestamp and reason.
	Revoke(ctx context.Context, credentialID string, reason string) (*credentialDomain.Credential, error)

	// Get retrieves a credential by ID including its hashed secret.
	Get(ctx context.Context, credentialID string) (*credentialDomain.Credential, error)

	// ListByIdentity retrieves all credentials owned by an identity.
	ListByIdentity(ctx context.Context, identityID string) ([]*credentialDomain.Credential, error)
}
