package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/allisson/authcore/internal/config"
	credentialDomain "github.com/allisson/authcore/internal/credential/domain"
	credentialRepository "github.com/allisson/authcore/internal/credential/repository"
	credentialService "github.com/allisson/authcore/internal/credential/service"
	"github.com/allisson/authcore/internal/kv"
)

// recordingMetrics captures recorded operations for assertions.
type recordingMetrics struct {
	operations []string
	statuses   []string
	durations  int
}

func (r *recordingMetrics) RecordOperation(_ context.Context, _, operation, status string) {
	r.operations = append(r.operations, operation)
	r.statuses = append(r.statuses, status)
}

func (r *recordingMetrics) RecordDuration(_ context.Context, _, _ string, _ time.Duration, _ string) {
	r.durations++
}

func TestCredentialUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	recorder := &recordingMetrics{}

	uc := NewCredentialUseCaseWithMetrics(
		NewCredentialUseCase(
			&config.Config{},
			credentialRepository.NewKVCredentialRepository(kv.NewMemoryStore()),
			credentialService.NewSecretService(),
			credentialService.NewTokenService(),
		),
		recorder,
	)

	created, err := uc.Create(ctx, &credentialDomain.CreateCredentialInput{
		IdentityID: "idn_alice",
		Type:       credentialDomain.CredentialTypeBearerToken,
	})
	assert.NoError(t, err)

	_, err = uc.Verify(ctx, created.Credential.ID, created.PlainSecret)
	assert.NoError(t, err)

	// Unknown credential: the error status is recorded and the error still
	// reaches the caller.
	_, err = uc.Verify(ctx, "crd_missing", "whatever")
	assert.ErrorIs(t, err, credentialDomain.ErrCredentialNotFound)

	assert.Equal(t, []string{"credential_create", "credential_verify", "credential_verify"}, recorder.operations)
	assert.Equal(t, []string{"success", "success", "error"}, recorder.statuses)
	assert.Equal(t, 3, recorder.durations)
}
