// Package usecase implements business logic orchestration for the signed
// audit log.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/authcore/internal/audit/domain"
	auditService "github.com/allisson/authcore/internal/audit/service"
)

// AuditRepository defines persistence operations for audit records.
type AuditRepository interface {
	// Create stores a new audit record.
	Create(ctx context.Context, record *auditDomain.AuditRecord) error

	// Get retrieves an audit record by ID. Returns ErrAuditRecordNotFound
	// if not found.
	Get(ctx context.Context, recordID string) (*auditDomain.AuditRecord, error)
}

// RecordDecisionInput carries the fields of one authorization decision.
type RecordDecisionInput struct {
	CredentialID string
	IdentityID   string
	Capability   string
	Resource     string
	Decision     string
	Reason       string
	Metadata     map[string]string
}

// AuditUseCase defines business logic operations for the audit log.
type AuditUseCase interface {
	// RecordDecision signs and persists one authorization decision.
	RecordDecision(ctx context.Context, input RecordDecisionInput) (*auditDomain.AuditRecord, error)

	// Get retrieves an audit record by ID.
	Get(ctx context.Context, recordID string) (*auditDomain.AuditRecord, error)

	// VerifyRecord loads a record and checks its signature. Returns
	// ErrSignatureInvalid when the stored record no longer matches its
	// signature.
	VerifyRecord(ctx context.Context, recordID string) error
}

// auditUseCase implements AuditUseCase.
type auditUseCase struct {
	rootKey   []byte
	signer    auditService.RecordSigner
	auditRepo AuditRepository
}

// RecordDecision signs and persists one authorization decision.
func (u *auditUseCase) RecordDecision(
	ctx context.Context,
	input RecordDecisionInput,
) (*auditDomain.AuditRecord, error) {
	if input.Capability == "" {
		return nil, auditDomain.ErrCapabilityRequired
	}
	if input.Decision == "" {
		return nil, auditDomain.ErrDecisionRequired
	}

	record := &auditDomain.AuditRecord{
		ID:           auditDomain.NewAuditRecordID(),
		CredentialID: input.CredentialID,
		IdentityID:   input.IdentityID,
		Capability:   input.Capability,
		Resource:     input.Resource,
		Decision:     input.Decision,
		Reason:       input.Reason,
		Metadata:     input.Metadata,
		CreatedAt:    time.Now().UTC(),
	}

	signature, err := u.signer.Sign(u.rootKey, record)
	if err != nil {
		return nil, err
	}
	record.Signature = signature

	if err := u.auditRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Get retrieves an audit record by ID.
func (u *auditUseCase) Get(ctx context.Context, recordID string) (*auditDomain.AuditRecord, error) {
	return u.auditRepo.Get(ctx, recordID)
}

// VerifyRecord loads a record and checks its signature.
func (u *auditUseCase) VerifyRecord(ctx context.Context, recordID string) error {
	record, err := u.auditRepo.Get(ctx, recordID)
	if err != nil {
		return err
	}
	return u.signer.Verify(u.rootKey, record)
}

// NewAuditUseCase creates a new AuditUseCase with the provided dependencies.
// The root key is the material the signing key is derived from; the caller
// owns its lifecycle.
func NewAuditUseCase(rootKey []byte, signer auditService.RecordSigner, auditRepo AuditRepository) AuditUseCase {
	return &auditUseCase{rootKey: rootKey, signer: signer, auditRepo: auditRepo}
}
