// Package domain contains the resource signing key entities.
package domain

import (
	"context"
	"time"
)

// SigningKey is the per-resource secret used to sign and verify stateless
// tokens for that resource. The secret is stored encrypted; only the
// ciphertext ever reaches the key-value store.
type SigningKey struct {
	ResourceType    string
	ResourceID      string
	EncryptedSecret []byte
	Version         int
	CreatedAt       time.Time
	RotatedAt       *time.Time
}

// Keeper encrypts and decrypts secret material at rest. *secrets.Keeper from
// gocloud.dev implements it.
type Keeper interface {
	// Encrypt encrypts the plaintext using the keeper's key.
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)

	// Decrypt decrypts the ciphertext using the keeper's key.
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)

	// Close releases any resources held by the keeper.
	Close() error
}
