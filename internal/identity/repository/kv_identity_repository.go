// Package repository provides key-value backed persistence for identities.
package repository

import (
	"context"
	"encoding/json"
	"time"

	apperrors "github.com/allisson/authcore/internal/errors"
	identityDomain "github.com/allisson/authcore/internal/identity/domain"
	"github.com/allisson/authcore/internal/kv"
)

const identityKeyPrefix = "__IDENTITY:"

// identityRecord is the stored JSON shape of an identity.
type identityRecord struct {
	ID          string                     `json:"id"`
	Type        string                     `json:"type"`
	DisplayName string                     `json:"displayName"`
	Status      string                     `json:"status"`
	CreatedAt   time.Time                  `json:"createdAt"`
	CreatedBy   string                     `json:"createdBy,omitempty"`
	AppConfig   *identityDomain.AppConfig  `json:"appConfig,omitempty"`
	Metadata    map[string]any             `json:"metadata,omitempty"`
}

// KVIdentityRepository persists identities through the injected key-value
// store.
type KVIdentityRepository struct {
	store kv.Store
}

// Create stores a new identity.
func (r *KVIdentityRepository) Create(ctx context.Context, identity *identityDomain.Identity) error {
	return r.write(ctx, identity)
}

// Update overwrites an existing identity. Returns ErrIdentityNotFound if the
// identity does not exist.
func (r *KVIdentityRepository) Update(ctx context.Context, identity *identityDomain.Identity) error {
	if _, err := r.Get(ctx, identity.ID); err != nil {
		return err
	}
	return r.write(ctx, identity)
}

// Get retrieves an identity by ID. Returns ErrIdentityNotFound if not found.
func (r *KVIdentityRepository) Get(ctx context.Context, identityID string) (*identityDomain.Identity, error) {
	value, err := r.store.Get(ctx, identityKeyPrefix+identityID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, identityDomain.ErrIdentityNotFound
		}
		return nil, err
	}

	var record identityRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal identity record")
	}

	return &identityDomain.Identity{
		ID:          record.ID,
		Type:        identityDomain.IdentityType(record.Type),
		DisplayName: record.DisplayName,
		Status:      identityDomain.IdentityStatus(record.Status),
		CreatedAt:   record.CreatedAt,
		CreatedBy:   record.CreatedBy,
		AppConfig:   record.AppConfig,
		Metadata:    record.Metadata,
	}, nil
}

func (r *KVIdentityRepository) write(ctx context.Context, identity *identityDomain.Identity) error {
	record := identityRecord{
		ID:          identity.ID,
		Type:        string(identity.Type),
		DisplayName: identity.DisplayName,
		Status:      string(identity.Status),
		CreatedAt:   identity.CreatedAt,
		CreatedBy:   identity.CreatedBy,
		AppConfig:   identity.AppConfig,
		Metadata:    identity.Metadata,
	}

	encoded, err := json.Marshal(&record)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal identity record")
	}
	return r.store.Put(ctx, identityKeyPrefix+identity.ID, string(encoded))
}

// NewKVIdentityRepository creates an identity repository backed by the given
// key-value store.
func NewKVIdentityRepository(store kv.Store) *KVIdentityRepository {
	return &KVIdentityRepository{store: store}
}
