package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/authcore/internal/config"
	credentialDomain "github.com/allisson/authcore/internal/credential/domain"
)

// mockCredentialRepository is a mock implementation of CredentialRepository for testing.
type mockCredentialRepository struct {
	mock.Mock
}

func (m *mockCredentialRepository) Create(ctx context.Context, credential *credentialDomain.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *mockCredentialRepository) Update(ctx context.Context, credential *credentialDomain.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

func (m *mockCredentialRepository) Get(ctx context.Context, credentialID string) (*credentialDomain.Credential, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credentialDomain.Credential), args.Error(1)
}

func (m *mockCredentialRepository) ListByIdentity(ctx context.Context, identityID string) ([]*credentialDomain.Credential, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*credentialDomain.Credential), args.Error(1)
}

// mockSecretService is a mock implementation of SecretService for testing.
type mockSecretService struct {
	mock.Mock
}

func (m *mockSecretService) GenerateSecret() (plainSecret string, hashedSecret string, err error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockSecretService) HashSecret(plainSecret string) (hashedSecret string, err error) {
	args := m.Called(plainSecret)
	return args.String(0), args.Error(1)
}

func (m *mockSecretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	args := m.Called(plainSecret, hashedSecret)
	return args.Bool(0)
}

// mockTokenService is a mock implementation of TokenService for testing.
type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken() (plainToken string, tokenHash string, err error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}

func (m *mockTokenService) CompareToken(plainToken string, tokenHash string) bool {
	args := m.Called(plainToken, tokenHash)
	return args.Bool(0)
}

func testConfig() *config.Config {
	return &config.Config{
		VerifyRateEnabled: false,
	}
}

func TestCredentialUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_CreateAPIKey", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}
		mockSecrets := &mockSecretService{}
		mockTokens := &mockTokenService{}

		plainSecret := "test-plain-secret-abc123"                  //nolint:gosec // test fixture, not a real credential
		hashedSecret := "$argon2id$v=19$m=65536,t=3,p=4$test-hash" //nolint:gosec // test fixture, not a real credential

		mockSecrets.On("GenerateSecret").
			Return(plainSecret, hashedSecret, nil).
			Once()

		mockRepo.On("Create", ctx, mock.MatchedBy(func(credential *credentialDomain.Credential) bool {
			return credential.IdentityID == "idn_alice" &&
				credential.Type == credentialDomain.CredentialTypeAPIKey &&
				credential.SecretHash == hashedSecret &&
				credential.Status == credentialDomain.CredentialStatusActive &&
				credential.ExpiresAt == nil
		})).
			Return(nil).
			Once()

		uc := NewCredentialUseCase(testConfig(), mockRepo, mockSecrets, mockTokens)
		output, err := uc.Create(ctx, &credentialDomain.CreateCredentialInput{
			IdentityID: "idn_alice",
			Type:       credentialDomain.CredentialTypeAPIKey,
		})

		assert.NoError(t, err)
		assert.Equal(t, plainSecret, output.PlainSecret)
		assert.NotEmpty(t, output.Credential.ID)
		mockSecrets.AssertExpectations(t)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success_BearerTokenUsesTokenService", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}
		mockSecrets := &mockSecretService{}
		mockTokens := &mockTokenService{}

		mockTokens.On("GenerateToken").
			Return("plain-token", "token-hash", nil).
			Once()
		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		uc := NewCredentialUseCase(testConfig(), mockRepo, mockSecrets, mockTokens)
		output, err := uc.Create(ctx, &credentialDomain.CreateCredentialInput{
			IdentityID: "idn_alice",
			Type:       credentialDomain.CredentialTypeBearerToken,
		})

		assert.NoError(t, err)
		assert.Equal(t, "plain-token", output.PlainSecret)
		mockTokens.AssertExpectations(t)
		mockSecrets.AssertNotCalled(t, "GenerateSecret")
	})

	t.Run("Success_DefaultExpirationFromConfig", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}
		mockSecrets := &mockSecretService{}
		mockTokens := &mockTokenService{}

		cfg := testConfig()
		cfg.CredentialExpiration = 24 * time.Hour

		mockTokens.On("GenerateToken").Return("plain", "hash", nil).Once()
		mockRepo.On("Create", ctx, mock.MatchedBy(func(credential *credentialDomain.Credential) bool {
			return credential.ExpiresAt != nil &&
				time.Until(*credential.ExpiresAt) > 23*time.Hour
		})).
			Return(nil).
			Once()

		uc := NewCredentialUseCase(cfg, mockRepo, mockSecrets, mockTokens)
		_, err := uc.Create(ctx, &credentialDomain.CreateCredentialInput{
			IdentityID: "idn_alice",
			Type:       credentialDomain.CredentialTypeRefreshToken,
		})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_MissingIdentityID", func(t *testing.T) {
		uc := NewCredentialUseCase(testConfig(), &mockCredentialRepository{}, &mockSecretService{}, &mockTokenService{})
		_, err := uc.Create(ctx, &credentialDomain.CreateCredentialInput{
			Type: credentialDomain.CredentialTypeAPIKey,
		})
		assert.ErrorIs(t, err, credentialDomain.ErrIdentityIDRequired)
	})

	t.Run("Error_UnknownType", func(t *testing.T) {
		uc := NewCredentialUseCase(testConfig(), &mockCredentialRepository{}, &mockSecretService{}, &mockTokenService{})
		_, err := uc.Create(ctx, &credentialDomain.CreateCredentialInput{
			IdentityID: "idn_alice",
			Type:       credentialDomain.CredentialType("password"),
		})
		assert.ErrorIs(t, err, credentialDomain.ErrUnknownCredentialType)
	})
}

func TestCredentialUseCase_Verify(t *testing.T) {
	ctx := context.Background()

	activeCredential := func() *credentialDomain.Credential {
		return &credentialDomain.Credential{
			ID:         "crd_test",
			IdentityID: "idn_alice",
			Type:       credentialDomain.CredentialTypeAPIKey,
			SecretHash: "stored-hash",
			Status:     credentialDomain.CredentialStatusActive,
			CreatedAt:  time.Now().UTC().Add(-time.Hour),
		}
	}

	t.Run("Success_ValidSecret", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}
		mockSecrets := &mockSecretService{}
		mockTokens := &mockTokenService{}

		mockRepo.On("Get", ctx, "crd_test").Return(activeCredential(), nil).Once()
		mockSecrets.On("CompareSecret", "the-secret", "stored-hash").Return(true).Once()

		uc := NewCredentialUseCase(testConfig(), mockRepo, mockSecrets, mockTokens)
		result, err := uc.Verify(ctx, "crd_test", "the-secret")

		assert.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, "idn_alice", result.IdentityID)
	})

	t.Run("Failure_WrongSecret", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}
		mockSecrets := &mockSecretService{}
		mockTokens := &mockTokenService{}

		mockRepo.On("Get", ctx, "crd_test").Return(activeCredential(), nil).Once()
		mockSecrets.On("CompareSecret", "wrong", "stored-hash").Return(false).Once()

		uc := NewCredentialUseCase(testConfig(), mockRepo, mockSecrets, mockTokens)
		result, err := uc.Verify(ctx, "crd_test", "wrong")

		assert.NoError(t, err)
		assert.False(t, result.Valid)
		assert.Equal(t, credentialDomain.ReasonInvalidSecret, result.Reason)
	})

	t.Run("Failure_RevokedBeforeSecretCheck", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}
		mockSecrets := &mockSecretService{}
		mockTokens := &mockTokenService{}

		credential := activeCredential()
		credential.Status = credentialDomain.CredentialStatusRevoked
		mockRepo.On("Get", ctx, "crd_test").Return(credential, nil).Once()

		uc := NewCredentialUseCase(testConfig(), mockRepo, mockSecrets, mockTokens)
		result, err := uc.Verify(ctx, "crd_test", "the-secret")

		assert.NoError(t, err)
		assert.Equal(t, credentialDomain.ReasonRevoked, result.Reason)
		// The hash is never consulted for a revoked credential.
		mockSecrets.AssertNotCalled(t, "CompareSecret")
	})

	t.Run("Failure_BearerTokenUsesTokenCompare", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}
		mockSecrets := &mockSecretService{}
		mockTokens := &mockTokenService{}

		credential := activeCredential()
		credential.Type = credentialDomain.CredentialTypeBearerToken
		mockRepo.On("Get", ctx, "crd_test").Return(credential, nil).Once()
		mockTokens.On("CompareToken", "the-token", "stored-hash").Return(false).Once()

		uc := NewCredentialUseCase(testConfig(), mockRepo, mockSecrets, mockTokens)
		result, err := uc.Verify(ctx, "crd_test", "the-token")

		assert.NoError(t, err)
		assert.Equal(t, credentialDomain.ReasonInvalidSecret, result.Reason)
		mockTokens.AssertExpectations(t)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}
		mockRepo.On("Get", ctx, "crd_missing").
			Return(nil, credentialDomain.ErrCredentialNotFound).
			Once()

		uc := NewCredentialUseCase(testConfig(), mockRepo, &mockSecretService{}, &mockTokenService{})
		_, err := uc.Verify(ctx, "crd_missing", "whatever")
		assert.ErrorIs(t, err, credentialDomain.ErrCredentialNotFound)
	})

	t.Run("Failure_RateLimited", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}
		mockSecrets := &mockSecretService{}

		cfg := testConfig()
		cfg.VerifyRateEnabled = true
		cfg.VerifyRatePerSec = 1
		cfg.VerifyRateBurst = 1

		credential := activeCredential()
		mockRepo.On("Get", ctx, "crd_test").Return(credential, nil).Once()
		mockSecrets.On("CompareSecret", "wrong", "stored-hash").Return(false).Once()

		uc := NewCredentialUseCase(cfg, mockRepo, mockSecrets, &mockTokenService{})

		// First attempt consumes the burst; second is throttled without
		// touching the repository again.
		result, err := uc.Verify(ctx, "crd_test", "wrong")
		assert.NoError(t, err)
		assert.Equal(t, credentialDomain.ReasonInvalidSecret, result.Reason)

		result, err = uc.Verify(ctx, "crd_test", "wrong")
		assert.NoError(t, err)
		assert.Equal(t, credentialDomain.ReasonRateLimited, result.Reason)
		mockRepo.AssertExpectations(t)
	})
}

func TestCredentialUseCase_Rotate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_RotateKeepsScopeAndExpiry", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}
		mockSecrets := &mockSecretService{}
		mockTokens := &mockTokenService{}

		expiresAt := time.Now().UTC().Add(time.Hour)
		scope := &credentialDomain.Scope{Capabilities: []string{"channel:read"}}
		credential := &credentialDomain.Credential{
			ID:         "crd_old",
			IdentityID: "idn_alice",
			Type:       credentialDomain.CredentialTypeAPIKey,
			SecretHash: "old-hash",
			Status:     credentialDomain.CredentialStatusActive,
			ExpiresAt:  &expiresAt,
			Scope:      scope,
		}

		mockRepo.On("Get", ctx, "crd_old").Return(credential, nil).Once()
		mockSecrets.On("GenerateSecret").Return("new-plain", "new-hash", nil).Once()

		mockRepo.On("Update", ctx, mock.MatchedBy(func(updated *credentialDomain.Credential) bool {
			return updated.ID == "crd_old" &&
				updated.Status == credentialDomain.CredentialStatusRotating &&
				updated.SecretHash == "old-hash"
		})).
			Return(nil).
			Once()

		mockRepo.On("Create", ctx, mock.MatchedBy(func(created *credentialDomain.Credential) bool {
			return created.ID != "crd_old" &&
				created.IdentityID == "idn_alice" &&
				created.SecretHash == "new-hash" &&
				created.Status == credentialDomain.CredentialStatusActive &&
				created.ExpiresAt.Equal(expiresAt) &&
				created.Scope == scope
		})).
			Return(nil).
			Once()

		uc := NewCredentialUseCase(testConfig(), mockRepo, mockSecrets, mockTokens)
		output, err := uc.Rotate(ctx, "crd_old")

		assert.NoError(t, err)
		assert.Equal(t, credentialDomain.CredentialStatusRotating, output.OldCredential.Status)
		assert.Equal(t, "new-plain", output.PlainSecret)
		assert.NotEqual(t, output.OldCredential.ID, output.NewCredential.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_RotateRevoked", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}
		credential := &credentialDomain.Credential{
			ID:     "crd_old",
			Status: credentialDomain.CredentialStatusRevoked,
		}
		mockRepo.On("Get", ctx, "crd_old").Return(credential, nil).Once()

		uc := NewCredentialUseCase(testConfig(), mockRepo, &mockSecretService{}, &mockTokenService{})
		_, err := uc.Rotate(ctx, "crd_old")
		assert.ErrorIs(t, err, credentialDomain.ErrCredentialRevoked)
	})
}

func TestCredentialUseCase_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_Revoke", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}

		credential := &credentialDomain.Credential{
			ID:     "crd_test",
			Status: credentialDomain.CredentialStatusActive,
		}
		mockRepo.On("Get", ctx, "crd_test").Return(credential, nil).Once()
		mockRepo.On("Update", ctx, mock.MatchedBy(func(updated *credentialDomain.Credential) bool {
			return updated.Status == credentialDomain.CredentialStatusRevoked &&
				updated.RevocationReason == "compromised"
		})).
			Return(nil).
			Once()

		uc := NewCredentialUseCase(testConfig(), mockRepo, &mockSecretService{}, &mockTokenService{})
		revoked, err := uc.Revoke(ctx, "crd_test", "compromised")

		assert.NoError(t, err)
		assert.Equal(t, credentialDomain.CredentialStatusRevoked, revoked.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Success_RevokeIdempotent", func(t *testing.T) {
		mockRepo := &mockCredentialRepository{}

		revokedAt := time.Now().UTC().Add(-time.Hour)
		credential := &credentialDomain.Credential{
			ID:               "crd_test",
			Status:           credentialDomain.CredentialStatusRevoked,
			RevokedAt:        &revokedAt,
			RevocationReason: "original reason",
		}
		mockRepo.On("Get", ctx, "crd_test").Return(credential, nil).Once()

		uc := NewCredentialUseCase(testConfig(), mockRepo, &mockSecretService{}, &mockTokenService{})
		result, err := uc.Revoke(ctx, "crd_test", "new reason")

		assert.NoError(t, err)
		assert.Equal(t, "original reason", result.RevocationReason)
		// No second write happens.
		mockRepo.AssertNotCalled(t, "Update")
	})
}
