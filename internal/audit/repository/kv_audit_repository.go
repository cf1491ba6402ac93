// Package repository provides key-value backed persistence for audit records.
package repository

import (
	"context"
	"encoding/json"

	auditDomain "github.com/allisson/authcore/internal/audit/domain"
	apperrors "github.com/allisson/authcore/internal/errors"
	"github.com/allisson/authcore/internal/kv"
)

const auditKeyPrefix = "__AUDIT:"

// KVAuditRepository persists audit records through the injected key-value
// store. Records carry their own JSON tags, so they are stored as-is.
type KVAuditRepository struct {
	store kv.Store
}

// Create stores a new audit record. Records are immutable once written.
func (r *KVAuditRepository) Create(ctx context.Context, record *auditDomain.AuditRecord) error {
	encoded, err := json.Marshal(record)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit record")
	}
	return r.store.Put(ctx, auditKeyPrefix+record.ID, string(encoded))
}

// Get retrieves an audit record by ID. Returns ErrAuditRecordNotFound if not
// found.
func (r *KVAuditRepository) Get(ctx context.Context, recordID string) (*auditDomain.AuditRecord, error) {
	value, err := r.store.Get(ctx, auditKeyPrefix+recordID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, auditDomain.ErrAuditRecordNotFound
		}
		return nil, err
	}

	var record auditDomain.AuditRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal audit record")
	}
	return &record, nil
}

// NewKVAuditRepository creates an audit repository backed by the given
// key-value store.
func NewKVAuditRepository(store kv.Store) *KVAuditRepository {
	return &KVAuditRepository{store: store}
}
