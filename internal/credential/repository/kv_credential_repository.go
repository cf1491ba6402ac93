// Package repository provides key-value backed persistence for credentials.
package repository

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	credentialDomain "github.com/allisson/authcore/internal/credential/domain"
	apperrors "github.com/allisson/authcore/internal/errors"
	"github.com/allisson/authcore/internal/kv"
)

// Key layout: one record per credential plus a per-identity id index so
// credentials can be listed without key scans, which the key-value interface
// does not offer.
const (
	credentialKeyPrefix = "__CRED:"
	identityIndexPrefix = "__CRED_IDX:"
)

// credentialRecord is the stored JSON shape of a credential.
type credentialRecord struct {
	ID               string                  `json:"id"`
	IdentityID       string                  `json:"identityId"`
	Type             string                  `json:"type"`
	SecretHash       string                  `json:"secretHash"`
	Status           string                  `json:"status"`
	CreatedAt        time.Time               `json:"createdAt"`
	ExpiresAt        *time.Time              `json:"expiresAt,omitempty"`
	Scope            *credentialDomain.Scope `json:"scope,omitempty"`
	RevokedAt        *time.Time              `json:"revokedAt,omitempty"`
	RevocationReason string                  `json:"revocationReason,omitempty"`
}

func toRecord(credential *credentialDomain.Credential) *credentialRecord {
	return &credentialRecord{
		ID:               credential.ID,
		IdentityID:       credential.IdentityID,
		Type:             string(credential.Type),
		SecretHash:       credential.SecretHash,
		Status:           string(credential.Status),
		CreatedAt:        credential.CreatedAt,
		ExpiresAt:        credential.ExpiresAt,
		Scope:            credential.Scope,
		RevokedAt:        credential.RevokedAt,
		RevocationReason: credential.RevocationReason,
	}
}

func fromRecord(record *credentialRecord) *credentialDomain.Credential {
	return &credentialDomain.Credential{
		ID:               record.ID,
		IdentityID:       record.IdentityID,
		Type:             credentialDomain.CredentialType(record.Type),
		SecretHash:       record.SecretHash,
		Status:           credentialDomain.CredentialStatus(record.Status),
		CreatedAt:        record.CreatedAt,
		ExpiresAt:        record.ExpiresAt,
		Scope:            record.Scope,
		RevokedAt:        record.RevokedAt,
		RevocationReason: record.RevocationReason,
	}
}

// KVCredentialRepository persists credentials through the injected key-value
// store.
type KVCredentialRepository struct {
	store kv.Store
}

// Create stores a new credential and appends its id to the owning identity's
// index.
func (r *KVCredentialRepository) Create(ctx context.Context, credential *credentialDomain.Credential) error {
	if err := r.write(ctx, credential); err != nil {
		return err
	}
	return r.addToIndex(ctx, credential.IdentityID, credential.ID)
}

// Update overwrites an existing credential. Returns ErrCredentialNotFound if
// the credential does not exist.
func (r *KVCredentialRepository) Update(ctx context.Context, credential *credentialDomain.Credential) error {
	if _, err := r.Get(ctx, credential.ID); err != nil {
		return err
	}
	return r.write(ctx, credential)
}

// Get retrieves a credential by ID. Returns ErrCredentialNotFound if not found.
func (r *KVCredentialRepository) Get(ctx context.Context, credentialID string) (*credentialDomain.Credential, error) {
	value, err := r.store.Get(ctx, credentialKeyPrefix+credentialID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, credentialDomain.ErrCredentialNotFound
		}
		return nil, err
	}

	var record credentialRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential record")
	}
	return fromRecord(&record), nil
}

// ListByIdentity retrieves all credentials owned by an identity. Returns an
// empty slice when the identity has none.
func (r *KVCredentialRepository) ListByIdentity(ctx context.Context, identityID string) ([]*credentialDomain.Credential, error) {
	ids, err := r.readIndex(ctx, identityID)
	if err != nil {
		return nil, err
	}

	credentials := make([]*credentialDomain.Credential, 0, len(ids))
	for _, id := range ids {
		credential, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, credential)
	}
	return credentials, nil
}

func (r *KVCredentialRepository) write(ctx context.Context, credential *credentialDomain.Credential) error {
	encoded, err := json.Marshal(toRecord(credential))
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential record")
	}
	return r.store.Put(ctx, credentialKeyPrefix+credential.ID, string(encoded))
}

func (r *KVCredentialRepository) readIndex(ctx context.Context, identityID string) ([]string, error) {
	value, err := r.store.Get(ctx, identityIndexPrefix+identityID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential index")
	}
	return ids, nil
}

func (r *KVCredentialRepository) addToIndex(ctx context.Context, identityID, credentialID string) error {
	ids, err := r.readIndex(ctx, identityID)
	if err != nil {
		return err
	}
	if slices.Contains(ids, credentialID) {
		return nil
	}
	ids = append(ids, credentialID)

	encoded, err := json.Marshal(ids)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential index")
	}
	return r.store.Put(ctx, identityIndexPrefix+identityID, string(encoded))
}

// NewKVCredentialRepository creates a credential repository backed by the
// given key-value store.
func NewKVCredentialRepository(store kv.Store) *KVCredentialRepository {
	return &KVCredentialRepository{store: store}
}
