// Package kv defines the key-value port consumed by the authorization core.
//
// The core never talks to a storage engine directly: stateful tokens, identity
// records, grants, and namespace aliases all go through this narrow Get/Put
// interface so the gateway can plug in whatever backend it already runs.
// A process-local memory adapter and an embedded bbolt adapter are provided
// for tests and the CLI.
package kv

import (
	"context"

	apperrors "github.com/allisson/authcore/internal/errors"
)

// ErrKeyNotFound indicates the requested key does not exist in the store.
var ErrKeyNotFound = apperrors.Wrap(apperrors.ErrNotFound, "key not found")

// Store defines the injected key-value interface.
// Implementations must be safe for concurrent use. The core performs no
// retries: storage failures are propagated to the caller as-is.
type Store interface {
	// Get retrieves the value stored under key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key string, value string) error
}

// Deleter is an optional extension for stores that support key removal.
// The core itself never deletes; expired records are simply ignored.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}
