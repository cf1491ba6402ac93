package usecase

import (
	"context"
	"time"

	"github.com/allisson/authcore/internal/metrics"
	tokenDomain "github.com/allisson/authcore/internal/statefultoken/domain"
)

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics
// instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	t.metrics.RecordOperation(ctx, "token", operation, status)
	t.metrics.RecordDuration(ctx, "token", operation, time.Since(start), status)
}

// CreateIdentityClaimToken records metrics for claim token creation.
func (t *tokenUseCaseWithMetrics) CreateIdentityClaimToken(
	ctx context.Context,
	identityID string,
	input CreateTokenInput,
) (*tokenDomain.StatefulToken, error) {
	start := time.Now()
	token, err := t.next.CreateIdentityClaimToken(ctx, identityID, input)
	t.record(ctx, "token_create_identity_claim", start, err)
	return token, err
}

// CreateBlobAccessToken records metrics for blob token creation.
func (t *tokenUseCaseWithMetrics) CreateBlobAccessToken(
	ctx context.Context,
	resourceID string,
	permissions []string,
	input CreateTokenInput,
) (*tokenDomain.StatefulToken, error) {
	start := time.Now()
	token, err := t.next.CreateBlobAccessToken(ctx, resourceID, permissions, input)
	t.record(ctx, "token_create_blob_access", start, err)
	return token, err
}

// CreateChannelAccessToken records metrics for channel token creation.
func (t *tokenUseCaseWithMetrics) CreateChannelAccessToken(
	ctx context.Context,
	resourceID string,
	permissions []string,
	input CreateTokenInput,
) (*tokenDomain.StatefulToken, error) {
	start := time.Now()
	token, err := t.next.CreateChannelAccessToken(ctx, resourceID, permissions, input)
	t.record(ctx, "token_create_channel_access", start, err)
	return token, err
}

// Get records metrics for token retrieval operations.
func (t *tokenUseCaseWithMetrics) Get(ctx context.Context, tokenID string) (*tokenDomain.StatefulToken, error) {
	start := time.Now()
	token, err := t.next.Get(ctx, tokenID)
	t.record(ctx, "token_get", start, err)
	return token, err
}

// CheckValidity records metrics for validity checks.
func (t *tokenUseCaseWithMetrics) CheckValidity(ctx context.Context, tokenID string) (bool, string, error) {
	start := time.Now()
	valid, reason, err := t.next.CheckValidity(ctx, tokenID)
	t.record(ctx, "token_check_validity", start, err)
	return valid, reason, err
}

// Consume records metrics for token consumption operations.
func (t *tokenUseCaseWithMetrics) Consume(
	ctx context.Context,
	tokenID string,
	usedBy string,
) (*tokenDomain.StatefulToken, error) {
	start := time.Now()
	token, err := t.next.Consume(ctx, tokenID, usedBy)
	t.record(ctx, "token_consume", start, err)
	return token, err
}

// Revoke records metrics for token revocation operations.
func (t *tokenUseCaseWithMetrics) Revoke(
	ctx context.Context,
	tokenID string,
	reason string,
) (*tokenDomain.StatefulToken, error) {
	start := time.Now()
	token, err := t.next.Revoke(ctx, tokenID, reason)
	t.record(ctx, "token_revoke", start, err)
	return token, err
}

// ClaimURL delegates without recording; link building is pure computation.
func (t *tokenUseCaseWithMetrics) ClaimURL(token *tokenDomain.StatefulToken, gatewayURL string) string {
	return t.next.ClaimURL(token, gatewayURL)
}

// CompactShareRef delegates without recording.
func (t *tokenUseCaseWithMetrics) CompactShareRef(token *tokenDomain.StatefulToken, gatewayURL string) string {
	return t.next.CompactShareRef(token, gatewayURL)
}
