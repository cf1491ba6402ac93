// Package repository provides key-value backed persistence for resource
// signing keys.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/allisson/authcore/internal/errors"
	"github.com/allisson/authcore/internal/kv"
	signingkeyDomain "github.com/allisson/authcore/internal/signingkey/domain"
)

const signingKeyPrefix = "__RESKEY:"

// signingKeyRecord is the stored JSON shape of a signing key. The secret is
// keeper ciphertext; json encodes it as base64.
type signingKeyRecord struct {
	ResourceType    string     `json:"resourceType"`
	ResourceID      string     `json:"resourceId"`
	EncryptedSecret []byte     `json:"encryptedSecret"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"createdAt"`
	RotatedAt       *time.Time `json:"rotatedAt,omitempty"`
}

// KVSigningKeyRepository persists signing keys through the injected key-value
// store.
type KVSigningKeyRepository struct {
	store kv.Store
}

func signingKeyKey(resourceType, resourceID string) string {
	return fmt.Sprintf("%s%s:%s", signingKeyPrefix, resourceType, resourceID)
}

// Get retrieves the signing key for a resource. Returns ErrSigningKeyNotFound
// if none exists.
func (r *KVSigningKeyRepository) Get(
	ctx context.Context,
	resourceType, resourceID string,
) (*signingkeyDomain.SigningKey, error) {
	value, err := r.store.Get(ctx, signingKeyKey(resourceType, resourceID))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, signingkeyDomain.ErrSigningKeyNotFound
		}
		return nil, err
	}

	var record signingKeyRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal signing key record")
	}

	return &signingkeyDomain.SigningKey{
		ResourceType:    record.ResourceType,
		ResourceID:      record.ResourceID,
		EncryptedSecret: record.EncryptedSecret,
		Version:         record.Version,
		CreatedAt:       record.CreatedAt,
		RotatedAt:       record.RotatedAt,
	}, nil
}

// Put stores a signing key, replacing any previous version for the resource.
func (r *KVSigningKeyRepository) Put(ctx context.Context, key *signingkeyDomain.SigningKey) error {
	record := signingKeyRecord{
		ResourceType:    key.ResourceType,
		ResourceID:      key.ResourceID,
		EncryptedSecret: key.EncryptedSecret,
		Version:         key.Version,
		CreatedAt:       key.CreatedAt,
		RotatedAt:       key.RotatedAt,
	}

	encoded, err := json.Marshal(&record)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal signing key record")
	}
	return r.store.Put(ctx, signingKeyKey(key.ResourceType, key.ResourceID), string(encoded))
}

// NewKVSigningKeyRepository creates a signing key repository backed by the
// given key-value store.
func NewKVSigningKeyRepository(store kv.Store) *KVSigningKeyRepository {
	return &KVSigningKeyRepository{store: store}
}
