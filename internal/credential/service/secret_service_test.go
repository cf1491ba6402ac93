package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretService(t *testing.T) {
	svc := NewSecretService()

	t.Run("Success_GenerateAndCompare", func(t *testing.T) {
		plainSecret, hashedSecret, err := svc.GenerateSecret()
		assert.NoError(t, err)
		assert.NotEmpty(t, plainSecret)
		assert.NotEqual(t, plainSecret, hashedSecret)

		assert.True(t, svc.CompareSecret(plainSecret, hashedSecret))
		assert.False(t, svc.CompareSecret("wrong-secret", hashedSecret))
	})

	t.Run("Success_UniqueSecrets", func(t *testing.T) {
		first, _, err := svc.GenerateSecret()
		assert.NoError(t, err)
		second, _, err := svc.GenerateSecret()
		assert.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("Failure_CompareAgainstMalformedHash", func(t *testing.T) {
		assert.False(t, svc.CompareSecret("secret", "not-a-valid-hash"))
	})
}

func TestTokenService(t *testing.T) {
	svc := NewTokenService()

	t.Run("Success_GenerateAndCompare", func(t *testing.T) {
		plainToken, tokenHash, err := svc.GenerateToken()
		assert.NoError(t, err)
		assert.Equal(t, svc.HashToken(plainToken), tokenHash)
		assert.Len(t, tokenHash, 64) // hex SHA-256

		assert.True(t, svc.CompareToken(plainToken, tokenHash))
		assert.False(t, svc.CompareToken("wrong-token", tokenHash))
	})

	t.Run("Success_HashIsDeterministic", func(t *testing.T) {
		assert.Equal(t, svc.HashToken("fixed"), svc.HashToken("fixed"))
		assert.NotEqual(t, svc.HashToken("fixed"), svc.HashToken("other"))
	})
}
