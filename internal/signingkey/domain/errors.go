package domain

import (
	apperrors "github.com/allisson/authcore/internal/errors"
)

// Signing key errors.
var (
	// ErrSigningKeyNotFound indicates no signing key exists for the resource.
	ErrSigningKeyNotFound = apperrors.Wrap(apperrors.ErrNotFound, "signing key not found")

	// ErrResourceTypeRequired indicates a lookup without a resource type.
	ErrResourceTypeRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "resource type is required")

	// ErrResourceIDRequired indicates a lookup without a resource id.
	ErrResourceIDRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "resource id is required")
)
