package domain

import (
	"github.com/allisson/authcore/internal/errors"
)

// Caller-misuse errors raised at token creation. Untrusted-input failures
// (malformed bytes, bad signatures, expired tokens) never surface as errors;
// verification returns nil instead, so callers cannot be used as a forgery
// oracle.
var (
	// ErrAuthorNameEmpty indicates a V4/unified token was requested without
	// an author display name.
	ErrAuthorNameEmpty = errors.Wrap(errors.ErrInvalidInput, "author name must not be empty")

	// ErrAuthorNameTooLong indicates the author display name exceeds 32 UTF-8 bytes.
	ErrAuthorNameTooLong = errors.Wrap(errors.ErrInvalidInput, "author name exceeds 32 bytes")

	// ErrExpiryNotPositive indicates a zero or negative expiry duration.
	ErrExpiryNotPositive = errors.Wrap(errors.ErrInvalidInput, "expiry duration must be positive")

	// ErrExpiryOverflow indicates the expiry does not fit the selected
	// format's time field.
	ErrExpiryOverflow = errors.Wrap(errors.ErrInvalidInput, "expiry exceeds format's encodable range")

	// ErrResourceIDInvalid indicates the resource id cannot be packed into
	// the selected format's fixed-width field.
	ErrResourceIDInvalid = errors.Wrap(errors.ErrInvalidInput, "resource id is not valid for the selected format")

	// ErrUnsupportedFormat indicates an unknown format tag was requested.
	ErrUnsupportedFormat = errors.Wrap(errors.ErrInvalidInput, "unsupported token format")
)
