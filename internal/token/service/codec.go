package service

import (
	"strings"
	"time"

	apperrors "github.com/allisson/authcore/internal/errors"
	tokenDomain "github.com/allisson/authcore/internal/token/domain"
)

// Codec mints and verifies stateless resource-capability tokens across all
// supported wire formats.
//
// Error discipline: creation raises caller-misuse errors immediately;
// verification never returns an error. Malformed bytes, unknown versions,
// bad signatures, and expired tokens all yield nil so external callers
// cannot distinguish the failure reason and use the codec as a forgery
// oracle.
type Codec interface {
	// Create mints a token for the given params, signed with the resource's
	// secret. The wire format follows params.Format when pinned, otherwise
	// domain.SelectFormat.
	Create(params tokenDomain.CreateTokenParams, secret string) (*tokenDomain.CreateTokenOutput, error)

	// CreateChannelToken mints a channel token. Shorthand for Create with
	// ResourceTypeChannel.
	CreateChannelToken(params tokenDomain.CreateTokenParams, secret string) (*tokenDomain.CreateTokenOutput, error)

	// CreateLogToken mints a log token. Logs always use the unified
	// envelope: the legacy binary formats have no resource-type field and
	// denote channels by convention.
	CreateLogToken(params tokenDomain.CreateTokenParams, secret string) (*tokenDomain.CreateTokenOutput, error)

	// CreateBearerToken mints a unified bearer token bound to an identity.
	CreateBearerToken(
		claims tokenDomain.BearerClaims,
		expiresInSeconds int64,
		constraints tokenDomain.Constraints,
		secret string,
	) (*tokenDomain.CreateTokenOutput, error)

	// CreateInvitationToken mints a unified invitation token referencing a
	// server-side stateful token record.
	CreateInvitationToken(
		claims tokenDomain.InvitationClaims,
		expiresInSeconds int64,
		secret string,
	) (*tokenDomain.CreateTokenOutput, error)

	// Verify decodes and authenticates a resource-scoped token (legacy
	// V1–V4 or unified resource/share). Returns nil on any failure,
	// including expiry (a token is invalid iff expiresAt < now).
	Verify(token string, secret string) *tokenDomain.ResourceToken

	// VerifyAt is Verify with an explicit clock for deterministic tests.
	VerifyAt(token string, secret string, now time.Time) *tokenDomain.ResourceToken

	// VerifyEnvelope decodes and authenticates a unified-format token of
	// any type. Returns nil on any failure.
	VerifyEnvelope(token string, secret string) *tokenDomain.Envelope

	// VerifyEnvelopeAt is VerifyEnvelope with an explicit clock.
	VerifyEnvelopeAt(token string, secret string, now time.Time) *tokenDomain.Envelope

	// Parse extracts the routing fields (format, type, resource type/id)
	// without any signature or expiry check, so the caller can look up the
	// resource's signing secret and then run Verify. Returns nil on
	// malformed input. Nothing in the result is trustworthy.
	Parse(token string) *tokenDomain.TokenInfo
}

// tokenCodec implements Codec.
type tokenCodec struct{}

// NewCodec creates the resource-token codec.
func NewCodec() Codec {
	return &tokenCodec{}
}

// legacyV1Prefix identifies the base64url encoding of a leading '{'.
const legacyV1Prefix = "ey"

func (c *tokenCodec) Create(
	params tokenDomain.CreateTokenParams,
	secret string,
) (*tokenDomain.CreateTokenOutput, error) {
	bitmap, err := tokenDomain.ParsePermissions(params.Permissions)
	if err != nil {
		return nil, err
	}
	if params.ExpiresInSeconds <= 0 {
		return nil, tokenDomain.ErrExpiryNotPositive
	}

	now := time.Now().UTC()
	expiresAt := now.Add(time.Duration(params.ExpiresInSeconds) * time.Second)

	switch tokenDomain.SelectFormat(params) {
	case tokenDomain.FormatV1:
		return encodeV1(params, bitmap, expiresAt, secret)
	case tokenDomain.FormatV2:
		return encodeV2(params, bitmap, expiresAt, secret)
	case tokenDomain.FormatV3:
		return encodeV3(params, bitmap, expiresAt, secret)
	case tokenDomain.FormatV4:
		return encodeV4(params, bitmap, expiresAt, secret)
	case tokenDomain.FormatUnified:
		return encodeUnifiedResource(params, bitmap, expiresAt, secret)
	default:
		return nil, tokenDomain.ErrUnsupportedFormat
	}
}

func (c *tokenCodec) CreateChannelToken(
	params tokenDomain.CreateTokenParams,
	secret string,
) (*tokenDomain.CreateTokenOutput, error) {
	params.ResourceType = tokenDomain.ResourceTypeChannel
	return c.Create(params, secret)
}

func (c *tokenCodec) CreateLogToken(
	params tokenDomain.CreateTokenParams,
	secret string,
) (*tokenDomain.CreateTokenOutput, error) {
	params.ResourceType = tokenDomain.ResourceTypeLog
	return c.Create(params, secret)
}

func (c *tokenCodec) CreateBearerToken(
	claims tokenDomain.BearerClaims,
	expiresInSeconds int64,
	constraints tokenDomain.Constraints,
	secret string,
) (*tokenDomain.CreateTokenOutput, error) {
	if expiresInSeconds <= 0 {
		return nil, tokenDomain.ErrExpiryNotPositive
	}
	if claims.IdentityID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "identity id must not be empty")
	}

	expiresAt := time.Now().UTC().Add(time.Duration(expiresInSeconds) * time.Second)
	return encodeUnifiedBearer(claims, constraints, expiresAt, secret)
}

func (c *tokenCodec) CreateInvitationToken(
	claims tokenDomain.InvitationClaims,
	expiresInSeconds int64,
	secret string,
) (*tokenDomain.CreateTokenOutput, error) {
	if expiresInSeconds <= 0 {
		return nil, tokenDomain.ErrExpiryNotPositive
	}
	if claims.InvitationID == "" || claims.IdentityID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invitation and identity ids must not be empty")
	}

	expiresAt := time.Now().UTC().Add(time.Duration(expiresInSeconds) * time.Second)
	return encodeUnifiedInvitation(claims, expiresAt, secret)
}

func (c *tokenCodec) Verify(token string, secret string) *tokenDomain.ResourceToken {
	return c.VerifyAt(token, secret, time.Now().UTC())
}

func (c *tokenCodec) VerifyAt(token string, secret string, now time.Time) *tokenDomain.ResourceToken {
	if strings.HasPrefix(token, legacyV1Prefix) {
		return verifyV1(token, secret, now)
	}

	raw, ok := decodeBase64URL(token)
	if !ok || len(raw) == 0 {
		return nil
	}

	switch tokenDomain.Format(raw[0]) {
	case tokenDomain.FormatV2:
		return verifyV2(raw, secret, now)
	case tokenDomain.FormatV3:
		return verifyV3(raw, secret, now)
	case tokenDomain.FormatV4:
		return verifyV4(raw, secret, now)
	case unifiedVersionByte:
		env := verifyUnified(raw, secret, now)
		if env == nil || env.Resource == nil {
			return nil
		}
		return env.Resource
	default:
		return nil
	}
}

func (c *tokenCodec) VerifyEnvelope(token string, secret string) *tokenDomain.Envelope {
	return c.VerifyEnvelopeAt(token, secret, time.Now().UTC())
}

func (c *tokenCodec) VerifyEnvelopeAt(token string, secret string, now time.Time) *tokenDomain.Envelope {
	raw, ok := decodeBase64URL(token)
	if !ok || len(raw) == 0 || raw[0] != byte(unifiedVersionByte) {
		return nil
	}
	return verifyUnified(raw, secret, now)
}

func (c *tokenCodec) Parse(token string) *tokenDomain.TokenInfo {
	if strings.HasPrefix(token, legacyV1Prefix) {
		return parseV1(token)
	}

	raw, ok := decodeBase64URL(token)
	if !ok || len(raw) == 0 {
		return nil
	}

	switch tokenDomain.Format(raw[0]) {
	case tokenDomain.FormatV2:
		return parseV2(raw)
	case tokenDomain.FormatV3, tokenDomain.FormatV4:
		return parseV3V4(raw)
	case unifiedVersionByte:
		return parseUnified(raw)
	default:
		return nil
	}
}

// expiryHours converts an absolute expiry into the hour counter carried by
// the V3/V4/unified formats. Rounds down; the returned time is the hour
// boundary the wire actually encodes.
func expiryHours(expiresAt time.Time) (uint32, time.Time, error) {
	seconds := expiresAt.Unix() - tokenDomain.HourEpoch.Unix()
	if seconds < 0 {
		return 0, time.Time{}, tokenDomain.ErrExpiryOverflow
	}
	hours := seconds / 3600
	if hours > tokenDomain.MaxExpiryHours {
		return 0, time.Time{}, tokenDomain.ErrExpiryOverflow
	}
	truncated := tokenDomain.HourEpoch.Add(time.Duration(hours) * time.Hour)
	return uint32(hours), truncated, nil
}

// hoursToTime converts a decoded hour counter back to an absolute expiry.
func hoursToTime(hours uint32) time.Time {
	return tokenDomain.HourEpoch.Add(time.Duration(hours) * time.Hour)
}

// expired reports whether a token is strictly expired: invalid iff
// expiresAt < now. A token expiring exactly now is still valid.
func expired(expiresAt, now time.Time) bool {
	return expiresAt.Before(now)
}
