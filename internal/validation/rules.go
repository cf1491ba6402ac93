// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/authcore/internal/errors"
)

var (
	// capabilityRegex matches capability names like "read", "channel:append"
	// or "blob:delete_own". Lowercase segments joined by a single colon.
	capabilityRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*(:[a-z][a-z0-9_]*)?$`)

	// hexIDRegex matches lowercase hex resource identifiers.
	hexIDRegex = regexp.MustCompile(`^[0-9a-f]+$`)

	// originRegex matches app origins like "https://app.example.com:8443".
	originRegex = regexp.MustCompile(`^[a-z][a-z0-9+\-.]*://[a-zA-Z0-9.\-]+(:[0-9]+)?$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// CapabilityName validates capability identifiers ("read", "channel:append").
var CapabilityName = validation.NewStringRuleWithError(
	func(s string) bool {
		return capabilityRegex.MatchString(s)
	},
	validation.NewError("validation_capability_name", "must be a valid capability name"),
)

// HexResourceID validates lowercase hexadecimal resource identifiers.
var HexResourceID = validation.NewStringRuleWithError(
	func(s string) bool {
		return hexIDRegex.MatchString(s)
	},
	validation.NewError("validation_hex_resource_id", "must be a lowercase hex identifier"),
)

// Origin validates app origins ("https://app.example.com").
var Origin = validation.NewStringRuleWithError(
	func(s string) bool {
		return originRegex.MatchString(s)
	},
	validation.NewError("validation_origin", "must be a valid origin URL"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
