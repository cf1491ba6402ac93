package usecase

import (
	"context"
	"time"

	credentialDomain "github.com/allisson/authcore/internal/credential/domain"
	"github.com/allisson/authcore/internal/metrics"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics
// instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics
// recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *credentialUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordOperation(ctx, "credential", operation, status)
	c.metrics.RecordDuration(ctx, "credential", operation, time.Since(start), status)
}

// Create records metrics for credential creation operations.
func (c *credentialUseCaseWithMetrics) Create(
	ctx context.Context,
	createCredentialInput *credentialDomain.CreateCredentialInput,
) (*credentialDomain.CreateCredentialOutput, error) {
	start := time.Now()
	output, err := c.next.Create(ctx, createCredentialInput)
	c.record(ctx, "credential_create", start, err)
	return output, err
}

// Verify records metrics for credential verification operations. A lookup
// failure counts as an error; a failed secret check is a successful operation
// with a negative result.
func (c *credentialUseCaseWithMetrics) Verify(
	ctx context.Context,
	credentialID string,
	plainSecret string,
) (*credentialDomain.VerifyResult, error) {
	start := time.Now()
	result, err := c.next.Verify(ctx, credentialID, plainSecret)
	c.record(ctx, "credential_verify", start, err)
	return result, err
}

// Rotate records metrics for credential rotation operations.
func (c *credentialUseCaseWithMetrics) Rotate(
	ctx context.Context,
	credentialID string,
) (*credentialDomain.RotateCredentialOutput, error) {
	start := time.Now()
	output, err := c.next.Rotate(ctx, credentialID)
	c.record(ctx, "credential_rotate", start, err)
	return output, err
}

// Revoke records metrics for credential revocation operations.
func (c *credentialUseCaseWithMetrics) Revoke(
	ctx context.Context,
	credentialID string,
	reason string,
) (*credentialDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.Revoke(ctx, credentialID, reason)
	c.record(ctx, "credential_revoke", start, err)
	return credential, err
}

// Get records metrics for credential retrieval operations.
func (c *credentialUseCaseWithMetrics) Get(
	ctx context.Context,
	credentialID string,
) (*credentialDomain.Credential, error) {
	start := time.Now()
	credential, err := c.next.Get(ctx, credentialID)
	c.record(ctx, "credential_get", start, err)
	return credential, err
}

// ListByIdentity records metrics for credential list operations.
func (c *credentialUseCaseWithMetrics) ListByIdentity(
	ctx context.Context,
	identityID string,
) ([]*credentialDomain.Credential, error) {
	start := time.Now()
	credentials, err := c.next.ListByIdentity(ctx, identityID)
	c.record(ctx, "credential_list", start, err)
	return credentials, err
}
