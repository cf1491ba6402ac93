package kv

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/allisson/authcore/internal/errors"
)

// Key prefixes for the namespace alias table.
const (
	aliasKeyPrefix = "__NS_ALIAS:"
	fullKeyPrefix  = "__NS_FULL:"
)

// AliasResolver maintains the bidirectional mapping between full namespace
// names and their short aliases. Aliases are deterministic so independent
// nodes agree without coordination; the store only arbitrates the
// astronomically unlikely hash collision.
type AliasResolver struct {
	store Store
	group singleflight.Group
}

// NewAliasResolver creates an AliasResolver on top of the given store.
func NewAliasResolver(store Store) *AliasResolver {
	return &AliasResolver{store: store}
}

// DeriveAlias returns the deterministic 8-character alias for a namespace:
// the last 8 characters of base64url(SHA-256(namespace)).
func DeriveAlias(namespace string) string {
	sum := sha256.Sum256([]byte(namespace))
	encoded := base64.RawURLEncoding.EncodeToString(sum[:])
	return encoded[len(encoded)-8:]
}

// Resolve returns the alias for a namespace, registering it on first use.
// Concurrent calls for the same namespace are collapsed into a single
// store round trip.
func (r *AliasResolver) Resolve(ctx context.Context, namespace string) (string, error) {
	v, err, _ := r.group.Do(namespace, func() (any, error) {
		return r.resolve(ctx, namespace)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Lookup returns the full namespace registered for an alias.
// Returns ErrKeyNotFound for unregistered aliases.
func (r *AliasResolver) Lookup(ctx context.Context, alias string) (string, error) {
	return r.store.Get(ctx, aliasKeyPrefix+alias)
}

func (r *AliasResolver) resolve(ctx context.Context, namespace string) (string, error) {
	// Already registered?
	alias, err := r.store.Get(ctx, fullKeyPrefix+namespace)
	if err == nil {
		return alias, nil
	}
	if !apperrors.Is(err, ErrKeyNotFound) {
		return "", err
	}

	alias = DeriveAlias(namespace)

	// The deterministic alias may already belong to another namespace.
	existing, err := r.store.Get(ctx, aliasKeyPrefix+alias)
	if err == nil && existing != namespace {
		alias, err = randomSuffixAlias(alias)
		if err != nil {
			return "", err
		}
	} else if err != nil && !apperrors.Is(err, ErrKeyNotFound) {
		return "", err
	}

	if err := r.store.Put(ctx, aliasKeyPrefix+alias, namespace); err != nil {
		return "", err
	}
	if err := r.store.Put(ctx, fullKeyPrefix+namespace, alias); err != nil {
		return "", err
	}

	return alias, nil
}

// randomSuffixAlias appends 4 random hex characters to a colliding alias.
func randomSuffixAlias(alias string) (string, error) {
	suffix := make([]byte, 2)
	if _, err := rand.Read(suffix); err != nil {
		return "", apperrors.Wrap(err, "failed to generate alias suffix")
	}
	return alias + hex.EncodeToString(suffix), nil
}
