package service

// SecretService defines secret generation and Argon2id hashing for api-key
// style credentials, where the presented secret may be low entropy relative
// to its length.
type SecretService interface {
	// GenerateSecret creates a cryptographically secure random secret and
	// returns both the plaintext and its Argon2id hash.
	GenerateSecret() (plainSecret string, hashedSecret string, err error)

	// HashSecret hashes a plaintext secret using Argon2id.
	HashSecret(plainSecret string) (hashedSecret string, err error)

	// CompareSecret performs a constant-time comparison between a plaintext
	// secret and its hash.
	CompareSecret(plainSecret string, hashedSecret string) bool
}

// TokenService defines generation and SHA-256 hashing for high-entropy
// generated secrets (bearer/refresh tokens, invitations). A plain SHA-256
// hash is sufficient here because the input is 256 bits of randomness, and it
// keeps verification cheap enough for per-request use.
type TokenService interface {
	// GenerateToken creates a cryptographically secure random token and
	// returns both the plaintext and its SHA-256 hash.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a plaintext token using SHA-256 and returns the hash
	// as a hexadecimal string.
	HashToken(plainToken string) string

	// CompareToken performs a constant-time comparison between a plaintext
	// token and its stored hash.
	CompareToken(plainToken string, tokenHash string) bool
}
