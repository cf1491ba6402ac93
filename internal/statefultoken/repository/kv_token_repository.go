// Package repository provides key-value backed persistence for stateful
// tokens.
package repository

import (
	"context"
	"encoding/json"
	"time"

	apperrors "github.com/allisson/authcore/internal/errors"
	"github.com/allisson/authcore/internal/kv"
	tokenDomain "github.com/allisson/authcore/internal/statefultoken/domain"
)

const tokenKeyPrefix = "__TOKEN:"

// tokenRecord is the stored JSON shape of a stateful token.
type tokenRecord struct {
	ID            string     `json:"id"`
	Action        string     `json:"action"`
	CreatedAt     time.Time  `json:"createdAt"`
	ExpiresAt     time.Time  `json:"expiresAt"`
	CreatedBy     string     `json:"createdBy"`
	Label         string     `json:"label,omitempty"`
	UsedAt        *time.Time `json:"usedAt,omitempty"`
	UsedBy        string     `json:"usedBy,omitempty"`
	Revoked       bool       `json:"revoked,omitempty"`
	RevokedAt     *time.Time `json:"revokedAt,omitempty"`
	RevokedReason string     `json:"revokedReason,omitempty"`

	IdentityClaim  *tokenDomain.IdentityClaimPayload  `json:"identityClaim,omitempty"`
	ResourceAccess *tokenDomain.ResourceAccessPayload `json:"resourceAccess,omitempty"`
}

// KVTokenRepository persists stateful tokens through the injected key-value
// store.
type KVTokenRepository struct {
	store kv.Store
}

// Create stores a new token record.
func (r *KVTokenRepository) Create(ctx context.Context, token *tokenDomain.StatefulToken) error {
	return r.write(ctx, token)
}

// Update overwrites an existing token record. Returns ErrTokenNotFound if the
// token does not exist.
func (r *KVTokenRepository) Update(ctx context.Context, token *tokenDomain.StatefulToken) error {
	if _, err := r.Get(ctx, token.ID); err != nil {
		return err
	}
	return r.write(ctx, token)
}

// Get retrieves a token by ID. Returns ErrTokenNotFound if not found.
func (r *KVTokenRepository) Get(ctx context.Context, tokenID string) (*tokenDomain.StatefulToken, error) {
	value, err := r.store.Get(ctx, tokenKeyPrefix+tokenID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, tokenDomain.ErrTokenNotFound
		}
		return nil, err
	}

	var record tokenRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token record")
	}

	return &tokenDomain.StatefulToken{
		ID:             record.ID,
		Action:         tokenDomain.TokenAction(record.Action),
		CreatedAt:      record.CreatedAt,
		ExpiresAt:      record.ExpiresAt,
		CreatedBy:      record.CreatedBy,
		Label:          record.Label,
		UsedAt:         record.UsedAt,
		UsedBy:         record.UsedBy,
		Revoked:        record.Revoked,
		RevokedAt:      record.RevokedAt,
		RevokedReason:  record.RevokedReason,
		IdentityClaim:  record.IdentityClaim,
		ResourceAccess: record.ResourceAccess,
	}, nil
}

func (r *KVTokenRepository) write(ctx context.Context, token *tokenDomain.StatefulToken) error {
	record := tokenRecord{
		ID:             token.ID,
		Action:         string(token.Action),
		CreatedAt:      token.CreatedAt,
		ExpiresAt:      token.ExpiresAt,
		CreatedBy:      token.CreatedBy,
		Label:          token.Label,
		UsedAt:         token.UsedAt,
		UsedBy:         token.UsedBy,
		Revoked:        token.Revoked,
		RevokedAt:      token.RevokedAt,
		RevokedReason:  token.RevokedReason,
		IdentityClaim:  token.IdentityClaim,
		ResourceAccess: token.ResourceAccess,
	}

	encoded, err := json.Marshal(&record)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token record")
	}
	return r.store.Put(ctx, tokenKeyPrefix+token.ID, string(encoded))
}

// NewKVTokenRepository creates a token repository backed by the given
// key-value store.
func NewKVTokenRepository(store kv.Store) *KVTokenRepository {
	return &KVTokenRepository{store: store}
}
