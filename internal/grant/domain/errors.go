package domain

import (
	apperrors "github.com/allisson/authcore/internal/errors"
)

// Grant errors.
var (
	// ErrGrantNotFound indicates a grant with the specified ID was not found.
	ErrGrantNotFound = apperrors.Wrap(apperrors.ErrNotFound, "grant not found")

	// ErrGrantIdentityRequired indicates a grant without an identity.
	ErrGrantIdentityRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "grant identity id is required")

	// ErrGrantedByRequired indicates a grant without a granting authority.
	ErrGrantedByRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "grantedBy is required")

	// ErrUnknownGrantSource indicates an unsupported grant source.
	ErrUnknownGrantSource = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown grant source")
)
