package domain

import (
	"time"
)

// HourEpoch is the fixed epoch for hour-granular expiry fields (V3, V4, and
// the unified envelope): 2024-01-01T00:00:00Z. Expiry is stored as whole
// hours since this instant in a 3-byte field, so decoded expiries round down
// to the hour. This truncation is part of the wire contract; tokens would
// fail to round-trip across implementations that "fix" it to seconds.
var HourEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// MaxExpiryHours is the largest hour counter encodable in the 3-byte field.
const MaxExpiryHours = 0xFFFFFF

// MaxAuthorNameBytes is the maximum UTF-8 length of a V4 author display name.
const MaxAuthorNameBytes = 32

// Format identifies one of the coexisting wire formats.
type Format uint8

const (
	// FormatV1 is the legacy JSON format, base64url-encoded and recognizable
	// by its literal "ey" prefix. Decode-only in normal operation.
	FormatV1 Format = 1

	// FormatV2 is the fixed 34-byte binary format with absolute uint32
	// expiry seconds and a 16-byte signature. Decode-only legacy; encoding
	// is kept for compatibility tooling.
	FormatV2 Format = 2

	// FormatV3 is the fixed 25-byte binary format with hour-granular expiry
	// and a 12-byte signature.
	FormatV3 Format = 3

	// FormatV4 is the variable-length binary format carrying a UTF-8 author
	// display name (1..32 bytes).
	FormatV4 Format = 4

	// FormatUnified is the successor envelope: version byte 0x01, a token
	// type byte, type-specific fields, and sparse constraint flags.
	FormatUnified Format = 5
)

// ResourceType identifies what kind of resource a token is scoped to.
type ResourceType uint8

const (
	ResourceTypeChannel   ResourceType = 1
	ResourceTypeLog       ResourceType = 2
	ResourceTypeBlob      ResourceType = 3
	ResourceTypeNamespace ResourceType = 4
)

// String returns the resource type name used in external representations.
func (r ResourceType) String() string {
	switch r {
	case ResourceTypeChannel:
		return "channel"
	case ResourceTypeLog:
		return "log"
	case ResourceTypeBlob:
		return "blob"
	case ResourceTypeNamespace:
		return "namespace"
	default:
		return "unknown"
	}
}

// TokenType discriminates payloads sharing the unified envelope.
type TokenType uint8

const (
	TokenTypeBearer     TokenType = 1
	TokenTypeResource   TokenType = 2
	TokenTypeShare      TokenType = 3
	TokenTypeInvitation TokenType = 4
)

// String returns the token type name used in external representations.
func (t TokenType) String() string {
	switch t {
	case TokenTypeBearer:
		return "bearer"
	case TokenTypeResource:
		return "resource"
	case TokenTypeShare:
		return "share"
	case TokenTypeInvitation:
		return "invitation"
	default:
		return "unknown"
	}
}

// Constraints carries the optional envelope constraint fields. Absent
// constraints are not encoded on the wire (sparse flags-byte encoding).
type Constraints struct {
	// MaxUses caps how many times a verifier should honor the token.
	// Zero means unset. Enforcement requires server-side counting and is
	// the gateway's responsibility.
	MaxUses uint8

	// CanDelegate marks a share token as re-shareable.
	CanDelegate bool

	// MaxDepth caps the delegation chain depth. Zero means unset.
	MaxDepth uint8
}

// IsZero reports whether no constraint is set.
func (c Constraints) IsZero() bool {
	return c.MaxUses == 0 && !c.CanDelegate && c.MaxDepth == 0
}

// ResourceToken is the normalized decode result for resource-scoped tokens:
// legacy V1–V4 channel tokens and unified resource/share envelopes.
type ResourceToken struct {
	Format       Format
	Type         TokenType
	ResourceType ResourceType
	ResourceID   string

	// Permissions is the decoded permission bitmap.
	Permissions Permission

	// AuthorID is the author field: a decimal number string for the numeric
	// V2/V3 author ids, or the UTF-8 display name for V4 and unified tokens.
	AuthorID string

	// ExpiresAt is the decoded expiry. For hour-granular formats it is
	// rounded down to the hour boundary the wire actually carries.
	ExpiresAt time.Time

	Constraints Constraints
}

// BearerClaims is the payload of a unified bearer token: identity-bound
// capabilities optionally restricted to one namespace.
type BearerClaims struct {
	IdentityID  string
	Permissions Permission

	// Namespace restricts the token to one namespace. Empty means the
	// identity's full namespace access applies.
	Namespace string
}

// InvitationClaims is the payload of a unified invitation token, pointing at
// a server-side stateful token record and the identity it claims.
type InvitationClaims struct {
	InvitationID string
	IdentityID   string
}

// Envelope is the tagged decode result for unified-format tokens. Exactly one
// payload pointer is set, matching Type.
type Envelope struct {
	Type        TokenType
	Resource    *ResourceToken
	Bearer      *BearerClaims
	Invitation  *InvitationClaims
	ExpiresAt   time.Time
	Constraints Constraints
}

// TokenInfo is the unverified result of parsing a token's routing fields.
// It exists so a verifier can look up the resource's signing secret by id
// before running the full signature check (the secret is per-resource, not
// global). Nothing in TokenInfo is trustworthy until Verify succeeds.
type TokenInfo struct {
	Format       Format
	Type         TokenType
	ResourceType ResourceType
	ResourceID   string
}

// CreateTokenParams are the caller-supplied inputs for minting a resource
// token. Exactly one of AuthorID (numeric, legacy formats) or DisplayName
// (V4/unified) should be set; setting DisplayName forces V4 or unified.
type CreateTokenParams struct {
	ResourceType ResourceType
	ResourceID   string
	Permissions  []string

	AuthorID    uint32
	DisplayName string

	// ExpiresInSeconds is a whole-number duration from now. Must be positive
	// and must fit the selected format's expiry field.
	ExpiresInSeconds int64

	// Format optionally pins the wire format instead of SelectFormat's
	// choice. Used by compatibility tooling and tests.
	Format Format

	Constraints Constraints
}

// CreateTokenOutput is the result of minting a token.
type CreateTokenOutput struct {
	// Token is the opaque base64url token string.
	Token string

	// ExpiresAt is the expiry the token actually carries, after any
	// hour-granularity truncation.
	ExpiresAt time.Time
}

// SelectFormat returns the wire format used for a resource token when the
// caller did not pin one. The decision is pure so it can be tested in
// isolation:
//
//   - non-channel resources need the explicit resource-type byte only the
//     unified envelope carries;
//   - constraints only exist in the unified envelope;
//   - a display name or a permission outside the legacy read/write pair
//     needs V4;
//   - everything else fits the compact V3.
func SelectFormat(params CreateTokenParams) Format {
	if params.Format != 0 {
		return params.Format
	}
	if params.ResourceType != ResourceTypeChannel && params.ResourceType != 0 {
		return FormatUnified
	}
	if !params.Constraints.IsZero() {
		return FormatUnified
	}

	bitmap, err := ParsePermissions(params.Permissions)
	if err != nil {
		// Creation will reject the params; V4 is the widest legacy format.
		return FormatV4
	}

	if params.DisplayName != "" || !bitmap.LegacyEncodable() {
		return FormatV4
	}
	return FormatV3
}
