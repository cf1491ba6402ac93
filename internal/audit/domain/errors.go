package domain

import (
	apperrors "github.com/allisson/authcore/internal/errors"
)

// Audit record errors.
var (
	// ErrAuditRecordNotFound indicates an audit record with the specified ID was not found.
	ErrAuditRecordNotFound = apperrors.Wrap(apperrors.ErrNotFound, "audit record not found")

	// ErrSignatureInvalid indicates the record's signature does not match its contents.
	ErrSignatureInvalid = apperrors.Wrap(apperrors.ErrUnauthorized, "audit record signature is invalid")

	// ErrCapabilityRequired indicates a record without a capability.
	ErrCapabilityRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "audit capability is required")

	// ErrDecisionRequired indicates a record without a decision outcome.
	ErrDecisionRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "audit decision is required")
)
