package commands

import (
	"context"
	"fmt"
	"log/slog"

	signingkeyUseCase "github.com/allisson/authcore/internal/signingkey/usecase"
	tokenDomain "github.com/allisson/authcore/internal/token/domain"
	tokenService "github.com/allisson/authcore/internal/token/service"
)

// CreateTokenParams carries the flag values for the create-token command.
type CreateTokenParams struct {
	ResourceType string
	ResourceID   string
	Permissions  []string
	DisplayName  string
	ExpiresIn    int64
	Secret       string
	Format       string
	JSONOutput   bool
}

// RunCreateToken mints a stateless resource token. When no secret is
// provided, the resource's stored signing key is used, generating one on
// first use.
func RunCreateToken(
	ctx context.Context,
	codec tokenService.Codec,
	signingKeys signingkeyUseCase.SigningKeyUseCase,
	logger *slog.Logger,
	params CreateTokenParams,
	io IOTuple,
) error {
	resourceType, err := parseResourceType(params.ResourceType)
	if err != nil {
		return err
	}
	format, err := parseFormat(params.Format)
	if err != nil {
		return err
	}

	secret := params.Secret
	if secret == "" {
		secret, err = signingKeys.ResourceSecret(ctx, resourceType.String(), params.ResourceID)
		if err != nil {
			return fmt.Errorf("failed to load signing key: %w", err)
		}
	}

	output, err := codec.Create(tokenDomain.CreateTokenParams{
		ResourceType:     resourceType,
		ResourceID:       params.ResourceID,
		Permissions:      params.Permissions,
		DisplayName:      params.DisplayName,
		ExpiresInSeconds: params.ExpiresIn,
		Format:           format,
	}, secret)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	if params.JSONOutput {
		outputJSON(map[string]any{
			"token":     output.Token,
			"expiresAt": output.ExpiresAt,
		}, io.Writer)
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Token: %s\n", output.Token)
		_, _ = fmt.Fprintf(io.Writer, "Expires at: %s\n", output.ExpiresAt)
	}

	logger.Info("token created",
		slog.String("resource_type", resourceType.String()),
		slog.String("resource_id", params.ResourceID),
	)
	return nil
}
