package kv

import (
	"context"
	"sync"
)

// memoryStore is an in-process Store implementation backed by a map.
// Used by tests and as a default for embedding without persistence.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty in-memory key-value store.
func NewMemoryStore() Store {
	return &memoryStore{
		data: make(map[string]string),
	}
}

// Get retrieves the value stored under key.
func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

// Put stores value under key, overwriting any previous value.
func (m *memoryStore) Put(ctx context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

// Delete removes key from the store. Deleting a missing key is a no-op.
func (m *memoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}
