// Package service provides the secrets keeper used to protect resource
// signing keys at rest.
package service

import (
	"context"

	"gocloud.dev/secrets"

	apperrors "github.com/allisson/authcore/internal/errors"
	signingkeyDomain "github.com/allisson/authcore/internal/signingkey/domain"

	// Register all secrets keeper drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KeeperService opens secrets keepers for the configured provider.
type KeeperService interface {
	// OpenKeeper opens a keeper for the given provider URI.
	// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
	OpenKeeper(ctx context.Context, keeperURI string) (signingkeyDomain.Keeper, error)
}

// keeperService implements KeeperService using gocloud.dev/secrets.
type keeperService struct{}

// NewKeeperService creates a new keeper service instance.
func NewKeeperService() KeeperService {
	return &keeperService{}
}

// OpenKeeper opens a keeper for the given provider URI. Returns an error if
// the URI is invalid or the provider connection fails.
func (k *keeperService) OpenKeeper(ctx context.Context, keeperURI string) (signingkeyDomain.Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keeperURI)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to open secrets keeper")
	}
	return keeper, nil
}
