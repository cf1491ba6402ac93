package commands

import (
	"context"
	"fmt"
	"log/slog"

	identityDomain "github.com/allisson/authcore/internal/identity/domain"
	identityUseCase "github.com/allisson/authcore/internal/identity/usecase"
)

// CreateIdentityParams carries the flag values for the create-identity
// command.
type CreateIdentityParams struct {
	Type        string
	DisplayName string
	Origin      string
	Claimable   bool
	CreatedBy   string
	JSONOutput  bool
}

// RunCreateIdentity registers a new identity. Claimable identities start in
// the pending_claim state and are activated later through a claim token.
func RunCreateIdentity(
	ctx context.Context,
	identities identityUseCase.IdentityUseCase,
	logger *slog.Logger,
	params CreateIdentityParams,
	io IOTuple,
) error {
	input := &identityDomain.CreateIdentityInput{
		Type:        identityDomain.IdentityType(params.Type),
		DisplayName: params.DisplayName,
		CreatedBy:   params.CreatedBy,
	}
	if input.Type == identityDomain.IdentityTypeApp {
		input.AppConfig = &identityDomain.AppConfig{Origin: params.Origin}
	}

	var identity *identityDomain.Identity
	var err error
	if params.Claimable {
		identity, err = identities.CreateClaimable(ctx, input)
	} else {
		identity, err = identities.Create(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	if params.JSONOutput {
		outputJSON(identity, io.Writer)
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Identity ID: %s\n", identity.ID)
		_, _ = fmt.Fprintf(io.Writer, "Status: %s\n", identity.Status)
		if identity.AppConfig != nil {
			_, _ = fmt.Fprintf(io.Writer, "Namespace: %s\n", identity.AppConfig.Namespace)
		}
	}

	logger.Info("identity created",
		slog.String("identity_id", identity.ID),
		slog.String("type", string(identity.Type)),
		slog.String("status", string(identity.Status)),
	)
	return nil
}
