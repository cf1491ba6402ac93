package commands

import (
	"context"
	"fmt"
	"log/slog"

	statefulTokenUseCase "github.com/allisson/authcore/internal/statefultoken/usecase"
)

// RunRevokeToken revokes a stateful token. Idempotent: revoking an already
// revoked token succeeds without changing the original revocation.
func RunRevokeToken(
	ctx context.Context,
	tokens statefulTokenUseCase.TokenUseCase,
	logger *slog.Logger,
	tokenID string,
	reason string,
	io IOTuple,
) error {
	token, err := tokens.Revoke(ctx, tokenID, reason)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	_, _ = fmt.Fprintf(io.Writer, "Token %s revoked\n", token.ID)

	logger.Info("token revoked",
		slog.String("token_id", token.ID),
		slog.String("reason", reason),
	)
	return nil
}
