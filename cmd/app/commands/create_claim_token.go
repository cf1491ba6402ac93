package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	statefulTokenUseCase "github.com/allisson/authcore/internal/statefultoken/usecase"
)

// CreateClaimTokenParams carries the flag values for the create-claim-token
// command.
type CreateClaimTokenParams struct {
	IdentityID string
	CreatedBy  string
	Label      string
	ExpiresIn  time.Duration
	GatewayURL string
	JSONOutput bool
}

// RunCreateClaimToken mints a single-use identity claim token and prints the
// share links built from it.
func RunCreateClaimToken(
	ctx context.Context,
	tokens statefulTokenUseCase.TokenUseCase,
	logger *slog.Logger,
	params CreateClaimTokenParams,
	io IOTuple,
) error {
	token, err := tokens.CreateIdentityClaimToken(ctx, params.IdentityID, statefulTokenUseCase.CreateTokenInput{
		CreatedBy: params.CreatedBy,
		Label:     params.Label,
		ExpiresIn: params.ExpiresIn,
	})
	if err != nil {
		return fmt.Errorf("failed to create claim token: %w", err)
	}

	claimURL := tokens.ClaimURL(token, params.GatewayURL)
	compactRef := tokens.CompactShareRef(token, params.GatewayURL)

	if params.JSONOutput {
		outputJSON(map[string]any{
			"tokenId":    token.ID,
			"expiresAt":  token.ExpiresAt,
			"claimUrl":   claimURL,
			"compactRef": compactRef,
		}, io.Writer)
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Token ID: %s\n", token.ID)
		_, _ = fmt.Fprintf(io.Writer, "Expires at: %s\n", token.ExpiresAt)
		_, _ = fmt.Fprintf(io.Writer, "Claim URL: %s\n", claimURL)
		_, _ = fmt.Fprintf(io.Writer, "Compact ref: %s\n", compactRef)
	}

	logger.Info("claim token created",
		slog.String("token_id", token.ID),
		slog.String("identity_id", params.IdentityID),
	)
	return nil
}
