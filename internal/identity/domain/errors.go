package domain

import (
	apperrors "github.com/allisson/authcore/internal/errors"
)

// Identity errors.
var (
	// ErrIdentityNotFound indicates an identity with the specified ID was not found.
	ErrIdentityNotFound = apperrors.Wrap(apperrors.ErrNotFound, "identity not found")

	// ErrUnknownIdentityType indicates an unsupported identity type.
	ErrUnknownIdentityType = apperrors.Wrap(apperrors.ErrInvalidInput, "unknown identity type")

	// ErrDisplayNameRequired indicates a missing or blank display name.
	ErrDisplayNameRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "display name is required")

	// ErrAppOriginRequired indicates an app identity without appConfig.origin.
	ErrAppOriginRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "app identities require an origin")

	// ErrCreatedByRequired indicates a claimable identity without a creator.
	ErrCreatedByRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "claimable identities require createdBy")

	// ErrNotPendingClaim indicates an activation attempt on an identity that
	// is not waiting to be claimed.
	ErrNotPendingClaim = apperrors.Wrap(apperrors.ErrInvalidInput, "identity is not pending claim")

	// ErrNotActive indicates a suspension attempt on a non-active identity.
	ErrNotActive = apperrors.Wrap(apperrors.ErrInvalidInput, "identity is not active")

	// ErrNotSuspended indicates a reactivation attempt on a non-suspended identity.
	ErrNotSuspended = apperrors.Wrap(apperrors.ErrInvalidInput, "identity is not suspended")

	// ErrIdentityDeleted indicates an operation on a deleted identity.
	ErrIdentityDeleted = apperrors.Wrap(apperrors.ErrInvalidInput, "identity is deleted")
)
