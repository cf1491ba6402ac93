package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	apperrors "github.com/allisson/authcore/internal/errors"
)

// TestMain verifies no goroutines leak from store or resolver usage.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("Get_MissingKey", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})

	t.Run("PutGet_RoundTrip", func(t *testing.T) {
		assert.NoError(t, store.Put(ctx, "k1", "v1"))

		value, err := store.Get(ctx, "k1")
		assert.NoError(t, err)
		assert.Equal(t, "v1", value)
	})

	t.Run("Put_Overwrites", func(t *testing.T) {
		assert.NoError(t, store.Put(ctx, "k1", "v2"))

		value, err := store.Get(ctx, "k1")
		assert.NoError(t, err)
		assert.Equal(t, "v2", value)
	})

	t.Run("Delete", func(t *testing.T) {
		deleter := store.(Deleter)
		assert.NoError(t, deleter.Delete(ctx, "k1"))

		_, err := store.Get(ctx, "k1")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}

func TestBoltStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	store, closer, err := NewBoltStore(path)
	assert.NoError(t, err)
	defer func() { assert.NoError(t, closer()) }()

	t.Run("Get_MissingKey", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("PutGet_RoundTrip", func(t *testing.T) {
		assert.NoError(t, store.Put(ctx, "__TOKEN:tk_abc", `{"action":"identity_claim"}`))

		value, err := store.Get(ctx, "__TOKEN:tk_abc")
		assert.NoError(t, err)
		assert.Equal(t, `{"action":"identity_claim"}`, value)
	})

	t.Run("Delete", func(t *testing.T) {
		deleter := store.(Deleter)
		assert.NoError(t, deleter.Delete(ctx, "__TOKEN:tk_abc"))

		_, err := store.Get(ctx, "__TOKEN:tk_abc")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}

func TestDeriveAlias(t *testing.T) {
	alias := DeriveAlias("app_example_com")

	assert.Len(t, alias, 8)
	// Deterministic across calls.
	assert.Equal(t, alias, DeriveAlias("app_example_com"))
	// Distinct namespaces produce distinct aliases.
	assert.NotEqual(t, alias, DeriveAlias("other_example_com"))
}

func TestAliasResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("Resolve_RegistersBothDirections", func(t *testing.T) {
		store := NewMemoryStore()
		resolver := NewAliasResolver(store)

		alias, err := resolver.Resolve(ctx, "app_example_com")
		assert.NoError(t, err)
		assert.Equal(t, DeriveAlias("app_example_com"), alias)

		namespace, err := resolver.Lookup(ctx, alias)
		assert.NoError(t, err)
		assert.Equal(t, "app_example_com", namespace)
	})

	t.Run("Resolve_Idempotent", func(t *testing.T) {
		store := NewMemoryStore()
		resolver := NewAliasResolver(store)

		first, err := resolver.Resolve(ctx, "app_example_com")
		assert.NoError(t, err)

		second, err := resolver.Resolve(ctx, "app_example_com")
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("Resolve_CollisionFallsBackToRandomSuffix", func(t *testing.T) {
		store := NewMemoryStore()
		resolver := NewAliasResolver(store)

		// Occupy the deterministic alias with a different namespace.
		derived := DeriveAlias("app_example_com")
		assert.NoError(t, store.Put(ctx, aliasKeyPrefix+derived, "squatter"))

		alias, err := resolver.Resolve(ctx, "app_example_com")
		assert.NoError(t, err)
		assert.NotEqual(t, derived, alias)
		assert.Len(t, alias, 12)

		namespace, err := resolver.Lookup(ctx, alias)
		assert.NoError(t, err)
		assert.Equal(t, "app_example_com", namespace)
	})

	t.Run("Lookup_UnknownAlias", func(t *testing.T) {
		resolver := NewAliasResolver(NewMemoryStore())

		_, err := resolver.Lookup(ctx, "nope1234")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}
