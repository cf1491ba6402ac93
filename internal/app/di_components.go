package app

import (
	"context"
	"sync"

	auditRepository "github.com/allisson/authcore/internal/audit/repository"
	auditService "github.com/allisson/authcore/internal/audit/service"
	auditUseCase "github.com/allisson/authcore/internal/audit/usecase"
	credentialRepository "github.com/allisson/authcore/internal/credential/repository"
	credentialService "github.com/allisson/authcore/internal/credential/service"
	credentialUseCase "github.com/allisson/authcore/internal/credential/usecase"
	grantRepository "github.com/allisson/authcore/internal/grant/repository"
	grantUseCase "github.com/allisson/authcore/internal/grant/usecase"
	identityRepository "github.com/allisson/authcore/internal/identity/repository"
	identityUseCase "github.com/allisson/authcore/internal/identity/usecase"
	signingkeyDomain "github.com/allisson/authcore/internal/signingkey/domain"
	signingkeyRepository "github.com/allisson/authcore/internal/signingkey/repository"
	signingkeyService "github.com/allisson/authcore/internal/signingkey/service"
	signingkeyUseCase "github.com/allisson/authcore/internal/signingkey/usecase"
	statefulTokenRepository "github.com/allisson/authcore/internal/statefultoken/repository"
	statefulTokenUseCase "github.com/allisson/authcore/internal/statefultoken/usecase"
	tokenService "github.com/allisson/authcore/internal/token/service"
)

// components holds the lazily built use cases and services.
type components struct {
	codec           tokenService.Codec
	credentialUC    credentialUseCase.CredentialUseCase
	identityUC      identityUseCase.IdentityUseCase
	grantUC         grantUseCase.GrantUseCase
	statefulTokenUC statefulTokenUseCase.TokenUseCase
	signingKeyUC    signingkeyUseCase.SigningKeyUseCase
	auditUC         auditUseCase.AuditUseCase

	codecInit           sync.Once
	credentialUCInit    sync.Once
	identityUCInit      sync.Once
	grantUCInit         sync.Once
	statefulTokenUCInit sync.Once
	signingKeyUCInit    sync.Once
	auditUCInit         sync.Once
}

func (c *Container) initKeeper(ctx context.Context) (signingkeyDomain.Keeper, error) {
	return signingkeyService.NewKeeperService().OpenKeeper(ctx, c.config.KeeperURI)
}

// Codec returns the stateless token codec.
func (c *Container) Codec() tokenService.Codec {
	c.components.codecInit.Do(func() {
		c.components.codec = tokenService.NewCodec()
	})
	return c.components.codec
}

// CredentialUseCase returns the credential use case, decorated with metrics
// recording.
func (c *Container) CredentialUseCase() (credentialUseCase.CredentialUseCase, error) {
	var err error
	c.components.credentialUCInit.Do(func() {
		store, serr := c.Store()
		if serr != nil {
			err = serr
			c.initErrors["credentialUseCase"] = serr
			return
		}
		business, berr := c.BusinessMetrics()
		if berr != nil {
			err = berr
			c.initErrors["credentialUseCase"] = berr
			return
		}

		c.components.credentialUC = credentialUseCase.NewCredentialUseCaseWithMetrics(
			credentialUseCase.NewCredentialUseCase(
				c.config,
				credentialRepository.NewKVCredentialRepository(store),
				credentialService.NewSecretService(),
				credentialService.NewTokenService(),
			),
			business,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.components.credentialUC, nil
}

// IdentityUseCase returns the identity use case.
func (c *Container) IdentityUseCase() (identityUseCase.IdentityUseCase, error) {
	var err error
	c.components.identityUCInit.Do(func() {
		store, serr := c.Store()
		if serr != nil {
			err = serr
			c.initErrors["identityUseCase"] = serr
			return
		}
		c.components.identityUC = identityUseCase.NewIdentityUseCase(
			identityRepository.NewKVIdentityRepository(store),
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["identityUseCase"]; exists {
		return nil, storedErr
	}
	return c.components.identityUC, nil
}

// GrantUseCase returns the grant use case.
func (c *Container) GrantUseCase() (grantUseCase.GrantUseCase, error) {
	var err error
	c.components.grantUCInit.Do(func() {
		store, serr := c.Store()
		if serr != nil {
			err = serr
			c.initErrors["grantUseCase"] = serr
			return
		}
		c.components.grantUC = grantUseCase.NewGrantUseCase(
			grantRepository.NewKVGrantRepository(store),
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["grantUseCase"]; exists {
		return nil, storedErr
	}
	return c.components.grantUC, nil
}

// StatefulTokenUseCase returns the stateful token use case, decorated with
// metrics recording.
func (c *Container) StatefulTokenUseCase() (statefulTokenUseCase.TokenUseCase, error) {
	var err error
	c.components.statefulTokenUCInit.Do(func() {
		store, serr := c.Store()
		if serr != nil {
			err = serr
			c.initErrors["statefulTokenUseCase"] = serr
			return
		}
		business, berr := c.BusinessMetrics()
		if berr != nil {
			err = berr
			c.initErrors["statefulTokenUseCase"] = berr
			return
		}

		c.components.statefulTokenUC = statefulTokenUseCase.NewTokenUseCaseWithMetrics(
			statefulTokenUseCase.NewTokenUseCase(
				c.config,
				statefulTokenRepository.NewKVTokenRepository(store),
			),
			business,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["statefulTokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.components.statefulTokenUC, nil
}

// SigningKeyUseCase returns the resource signing key use case.
func (c *Container) SigningKeyUseCase(ctx context.Context) (signingkeyUseCase.SigningKeyUseCase, error) {
	var err error
	c.components.signingKeyUCInit.Do(func() {
		store, serr := c.Store()
		if serr != nil {
			err = serr
			c.initErrors["signingKeyUseCase"] = serr
			return
		}
		keeper, kerr := c.Keeper(ctx)
		if kerr != nil {
			err = kerr
			c.initErrors["signingKeyUseCase"] = kerr
			return
		}

		c.components.signingKeyUC = signingkeyUseCase.NewSigningKeyUseCase(
			signingkeyRepository.NewKVSigningKeyRepository(store),
			keeper,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["signingKeyUseCase"]; exists {
		return nil, storedErr
	}
	return c.components.signingKeyUC, nil
}

// AuditUseCase returns the audit log use case. The audit root key is managed
// like any other signing key, generated on first use and stored encrypted.
func (c *Container) AuditUseCase(ctx context.Context) (auditUseCase.AuditUseCase, error) {
	var err error
	c.components.auditUCInit.Do(func() {
		store, serr := c.Store()
		if serr != nil {
			err = serr
			c.initErrors["auditUseCase"] = serr
			return
		}
		signingKeyUC, kerr := c.SigningKeyUseCase(ctx)
		if kerr != nil {
			err = kerr
			c.initErrors["auditUseCase"] = kerr
			return
		}
		rootKey, rerr := signingKeyUC.ResourceSecret(ctx, "audit", "root")
		if rerr != nil {
			err = rerr
			c.initErrors["auditUseCase"] = rerr
			return
		}

		c.components.auditUC = auditUseCase.NewAuditUseCase(
			[]byte(rootKey),
			auditService.NewRecordSigner(),
			auditRepository.NewKVAuditRepository(store),
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.components.auditUC, nil
}
