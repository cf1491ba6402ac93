package domain

import (
	apperrors "github.com/allisson/authcore/internal/errors"
)

// Stateful token errors.
var (
	// ErrTokenNotFound indicates a token with the specified ID was not found.
	ErrTokenNotFound = apperrors.Wrap(apperrors.ErrNotFound, "token not found")

	// ErrTokenNotValid indicates a consume attempt on an expired, revoked, or
	// already used token.
	ErrTokenNotValid = apperrors.Wrap(apperrors.ErrUnauthorized, "token is not valid")

	// ErrTokenIdentityRequired indicates an identity_claim token without an identity.
	ErrTokenIdentityRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "token identity id is required")

	// ErrTokenResourceRequired indicates a resource-access token without a resource.
	ErrTokenResourceRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "token resource id is required")

	// ErrTokenCreatedByRequired indicates a token without a creator.
	ErrTokenCreatedByRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "token createdBy is required")
)
