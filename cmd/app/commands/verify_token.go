package commands

import (
	"context"
	"fmt"
	"log/slog"

	signingkeyUseCase "github.com/allisson/authcore/internal/signingkey/usecase"
	tokenService "github.com/allisson/authcore/internal/token/service"
)

// RunVerifyToken decodes and authenticates a resource token. When no secret
// is provided, the token is parsed for its resource id and the stored signing
// key is used. Verification failures carry no detail on purpose.
func RunVerifyToken(
	ctx context.Context,
	codec tokenService.Codec,
	signingKeys signingkeyUseCase.SigningKeyUseCase,
	logger *slog.Logger,
	token string,
	secret string,
	jsonOutput bool,
	io IOTuple,
) error {
	if secret == "" {
		info := codec.Parse(token)
		if info == nil {
			return fmt.Errorf("token is not valid")
		}
		var err error
		secret, err = signingKeys.ResourceSecret(ctx, info.ResourceType.String(), info.ResourceID)
		if err != nil {
			return fmt.Errorf("failed to load signing key: %w", err)
		}
	}

	decoded := codec.Verify(token, secret)
	if decoded == nil {
		return fmt.Errorf("token is not valid")
	}

	if jsonOutput {
		outputJSON(map[string]any{
			"resourceType": decoded.ResourceType.String(),
			"resourceId":   decoded.ResourceID,
			"permissions":  decoded.Permissions.Names(),
			"author":       decoded.AuthorID,
			"expiresAt":    decoded.ExpiresAt,
		}, io.Writer)
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Resource: %s %s\n", decoded.ResourceType, decoded.ResourceID)
		_, _ = fmt.Fprintf(io.Writer, "Permissions: %v\n", decoded.Permissions.Names())
		_, _ = fmt.Fprintf(io.Writer, "Author: %s\n", decoded.AuthorID)
		_, _ = fmt.Fprintf(io.Writer, "Expires at: %s\n", decoded.ExpiresAt)
	}

	logger.Info("token verified",
		slog.String("resource_type", decoded.ResourceType.String()),
		slog.String("resource_id", decoded.ResourceID),
	)
	return nil
}
