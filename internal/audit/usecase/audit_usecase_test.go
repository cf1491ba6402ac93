package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/authcore/internal/audit/domain"
	auditRepository "github.com/allisson/authcore/internal/audit/repository"
	auditService "github.com/allisson/authcore/internal/audit/service"
	"github.com/allisson/authcore/internal/kv"
)

func TestAuditUseCase(t *testing.T) {
	ctx := context.Background()
	rootKey := []byte("0123456789abcdef0123456789abcdef")
	store := kv.NewMemoryStore()
	uc := NewAuditUseCase(rootKey, auditService.NewRecordSigner(), auditRepository.NewKVAuditRepository(store))

	t.Run("Success_RecordAndVerify", func(t *testing.T) {
		record, err := uc.RecordDecision(ctx, RecordDecisionInput{
			CredentialID: "crd_0191b2c3d4e5f60718293a4b5c6d7e8f",
			IdentityID:   "idn_0191b2c3d4e5f60718293a4b5c6d7e8f",
			Capability:   "storage",
			Resource:     "channel:abc123abc123",
			Decision:     auditDomain.DecisionDeny,
			Reason:       "namespace not granted",
		})
		require.NoError(t, err)
		assert.Regexp(t, `^aud_[0-9a-f]{32}$`, record.ID)
		assert.Len(t, record.Signature, 32)

		assert.NoError(t, uc.VerifyRecord(ctx, record.ID))

		got, err := uc.Get(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, auditDomain.DecisionDeny, got.Decision)
		assert.Equal(t, "namespace not granted", got.Reason)
	})

	t.Run("Failure_StoreTampering", func(t *testing.T) {
		record, err := uc.RecordDecision(ctx, RecordDecisionInput{
			Capability: "storage",
			Decision:   auditDomain.DecisionAllow,
		})
		require.NoError(t, err)

		// Flip the decision behind the repository's back.
		tampered := *record
		tampered.Decision = auditDomain.DecisionDeny
		encoded, err := json.Marshal(&tampered)
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, "__AUDIT:"+record.ID, string(encoded)))

		assert.ErrorIs(t, uc.VerifyRecord(ctx, record.ID), auditDomain.ErrSignatureInvalid)
	})

	t.Run("Error_MissingFields", func(t *testing.T) {
		_, err := uc.RecordDecision(ctx, RecordDecisionInput{Decision: auditDomain.DecisionAllow})
		assert.ErrorIs(t, err, auditDomain.ErrCapabilityRequired)

		_, err = uc.RecordDecision(ctx, RecordDecisionInput{Capability: "storage"})
		assert.ErrorIs(t, err, auditDomain.ErrDecisionRequired)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		err := uc.VerifyRecord(ctx, "aud_missing")
		assert.ErrorIs(t, err, auditDomain.ErrAuditRecordNotFound)
	})
}
