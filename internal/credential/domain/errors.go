package domain

import (
	apperrors "github.com/allisson/authcore/internal/errors"
)

// Credential errors.
var (
	// ErrCredentialNotFound indicates a credential with the specified ID was not found.
	ErrCredentialNotFound = apperrors.Wrap(apperrors.ErrNotFound, "credential not found")

	// ErrIdentityIDRequired indicates a credential was created without an owning identity.
	ErrIdentityIDRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "identity id is required")

	// ErrUnknownCredentialType indicates an unsupported credential type.
	ErrUnknownCredentialType = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown credential type")

	// ErrCredentialRevoked indicates an operation that requires a live credential
	// was attempted on a revoked one.
	ErrCredentialRevoked = apperrors.Wrap(apperrors.ErrInvalidInput, "credential is revoked")
)
