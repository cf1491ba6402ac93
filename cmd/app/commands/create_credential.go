package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	credentialDomain "github.com/allisson/authcore/internal/credential/domain"
	credentialUseCase "github.com/allisson/authcore/internal/credential/usecase"
)

// CreateCredentialParams carries the flag values for the create-credential
// command.
type CreateCredentialParams struct {
	IdentityID   string
	Type         string
	Capabilities []string
	Namespaces   []string
	ExpiresIn    time.Duration
	JSONOutput   bool
}

// RunCreateCredential issues a new credential for an identity and prints the
// plaintext secret exactly once.
func RunCreateCredential(
	ctx context.Context,
	credentials credentialUseCase.CredentialUseCase,
	logger *slog.Logger,
	params CreateCredentialParams,
	io IOTuple,
) error {
	input := &credentialDomain.CreateCredentialInput{
		IdentityID: params.IdentityID,
		Type:       credentialDomain.CredentialType(params.Type),
	}
	if params.ExpiresIn > 0 {
		expiresAt := time.Now().UTC().Add(params.ExpiresIn)
		input.ExpiresAt = &expiresAt
	}
	if len(params.Capabilities) > 0 || len(params.Namespaces) > 0 {
		input.Scope = &credentialDomain.Scope{
			Capabilities: params.Capabilities,
			Namespaces:   params.Namespaces,
		}
	}

	output, err := credentials.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create credential: %w", err)
	}

	if params.JSONOutput {
		outputJSON(map[string]any{
			"credentialId": output.Credential.ID,
			"identityId":   output.Credential.IdentityID,
			"type":         output.Credential.Type,
			"plainSecret":  output.PlainSecret,
		}, io.Writer)
	} else {
		_, _ = fmt.Fprintf(io.Writer, "Credential ID: %s\n", output.Credential.ID)
		_, _ = fmt.Fprintf(io.Writer, "Secret: %s\n", output.PlainSecret)
		_, _ = fmt.Fprintln(io.Writer, "Store this secret now. It cannot be recovered later.")
	}

	logger.Info("credential created",
		slog.String("credential_id", output.Credential.ID),
		slog.String("identity_id", output.Credential.IdentityID),
		slog.String("type", string(output.Credential.Type)),
	)
	return nil
}
