// Package repository provides key-value backed persistence for capability
// grants.
package repository

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	apperrors "github.com/allisson/authcore/internal/errors"
	grantDomain "github.com/allisson/authcore/internal/grant/domain"
	"github.com/allisson/authcore/internal/kv"
)

// Key layout mirrors the credential repository: one record per grant plus a
// per-identity id index, because the key-value interface offers no scans.
const (
	grantKeyPrefix      = "__GRANT:"
	identityIndexPrefix = "__GRANT_IDX:"
)

// grantRecord is the stored JSON shape of a capability grant.
type grantRecord struct {
	GrantID          string                  `json:"grantId"`
	IdentityID       string                  `json:"identityId"`
	Capability       string                  `json:"capability"`
	GrantedAt        time.Time               `json:"grantedAt"`
	GrantedBy        string                  `json:"grantedBy"`
	Source           string                  `json:"source"`
	SourceID         string                  `json:"sourceId,omitempty"`
	Scope            *grantDomain.GrantScope `json:"scope,omitempty"`
	ExpiresAt        *time.Time              `json:"expiresAt,omitempty"`
	RevokedAt        *time.Time              `json:"revokedAt,omitempty"`
	RevokedBy        string                  `json:"revokedBy,omitempty"`
	RevocationReason string                  `json:"revocationReason,omitempty"`
}

// KVGrantRepository persists capability grants through the injected key-value
// store.
type KVGrantRepository struct {
	store kv.Store
}

// Create stores a new grant and appends its id to the identity's index.
func (r *KVGrantRepository) Create(ctx context.Context, grant *grantDomain.CapabilityGrant) error {
	if err := r.write(ctx, grant); err != nil {
		return err
	}
	return r.addToIndex(ctx, grant.IdentityID, grant.GrantID)
}

// Update overwrites an existing grant. Returns ErrGrantNotFound if the grant
// does not exist.
func (r *KVGrantRepository) Update(ctx context.Context, grant *grantDomain.CapabilityGrant) error {
	if _, err := r.Get(ctx, grant.GrantID); err != nil {
		return err
	}
	return r.write(ctx, grant)
}

// Get retrieves a grant by ID. Returns ErrGrantNotFound if not found.
func (r *KVGrantRepository) Get(ctx context.Context, grantID string) (*grantDomain.CapabilityGrant, error) {
	value, err := r.store.Get(ctx, grantKeyPrefix+grantID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, grantDomain.ErrGrantNotFound
		}
		return nil, err
	}

	var record grantRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal grant record")
	}

	return &grantDomain.CapabilityGrant{
		GrantID:          record.GrantID,
		IdentityID:       record.IdentityID,
		Capability:       record.Capability,
		GrantedAt:        record.GrantedAt,
		GrantedBy:        record.GrantedBy,
		Source:           grantDomain.GrantSource(record.Source),
		SourceID:         record.SourceID,
		Scope:            record.Scope,
		ExpiresAt:        record.ExpiresAt,
		RevokedAt:        record.RevokedAt,
		RevokedBy:        record.RevokedBy,
		RevocationReason: record.RevocationReason,
	}, nil
}

// ListByIdentity retrieves all grants held by an identity, including revoked
// and expired ones. Validity filtering belongs to the resolver.
func (r *KVGrantRepository) ListByIdentity(ctx context.Context, identityID string) ([]*grantDomain.CapabilityGrant, error) {
	ids, err := r.readIndex(ctx, identityID)
	if err != nil {
		return nil, err
	}

	grants := make([]*grantDomain.CapabilityGrant, 0, len(ids))
	for _, id := range ids {
		grant, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		grants = append(grants, grant)
	}
	return grants, nil
}

func (r *KVGrantRepository) write(ctx context.Context, grant *grantDomain.CapabilityGrant) error {
	record := grantRecord{
		GrantID:          grant.GrantID,
		IdentityID:       grant.IdentityID,
		Capability:       grant.Capability,
		GrantedAt:        grant.GrantedAt,
		GrantedBy:        grant.GrantedBy,
		Source:           string(grant.Source),
		SourceID:         grant.SourceID,
		Scope:            grant.Scope,
		ExpiresAt:        grant.ExpiresAt,
		RevokedAt:        grant.RevokedAt,
		RevokedBy:        grant.RevokedBy,
		RevocationReason: grant.RevocationReason,
	}

	encoded, err := json.Marshal(&record)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal grant record")
	}
	return r.store.Put(ctx, grantKeyPrefix+grant.GrantID, string(encoded))
}

func (r *KVGrantRepository) readIndex(ctx context.Context, identityID string) ([]string, error) {
	value, err := r.store.Get(ctx, identityIndexPrefix+identityID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal([]byte(value), &ids); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal grant index")
	}
	return ids, nil
}

func (r *KVGrantRepository) addToIndex(ctx context.Context, identityID, grantID string) error {
	ids, err := r.readIndex(ctx, identityID)
	if err != nil {
		return err
	}
	if slices.Contains(ids, grantID) {
		return nil
	}
	ids = append(ids, grantID)

	encoded, err := json.Marshal(ids)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal grant index")
	}
	return r.store.Put(ctx, identityIndexPrefix+identityID, string(encoded))
}

// NewKVGrantRepository creates a grant repository backed by the given
// key-value store.
func NewKVGrantRepository(store kv.Store) *KVGrantRepository {
	return &KVGrantRepository{store: store}
}
