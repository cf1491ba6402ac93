package kv

import (
	"context"

	bolt "go.etcd.io/bbolt"

	apperrors "github.com/allisson/authcore/internal/errors"
)

// bucketName is the single bucket holding all core records.
var bucketName = []byte("authcore")

// boltStore is a Store implementation backed by an embedded bbolt database.
// Suitable for the CLI and single-node deployments.
type boltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) a bbolt database at path and returns a
// Store backed by it. The caller owns the returned closer.
func NewBoltStore(path string) (Store, func() error, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "failed to open bbolt database")
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, nil, apperrors.Wrap(err, "failed to create bucket")
	}

	return &boltStore{db: db}, db.Close, nil
}

// Get retrieves the value stored under key.
func (b *boltStore) Get(ctx context.Context, key string) (string, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		// The slice is only valid inside the transaction.
		value = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Put stores value under key, overwriting any previous value.
func (b *boltStore) Put(ctx context.Context, key string, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to put key")
	}
	return nil
}

// Delete removes key from the store. Deleting a missing key is a no-op.
func (b *boltStore) Delete(ctx context.Context, key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to delete key")
	}
	return nil
}
