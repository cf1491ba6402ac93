package service

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/allisson/authcore/internal/errors"
	tokenDomain "github.com/allisson/authcore/internal/token/domain"
)

// The legacy binary formats predate multi-resource support: they carry no
// resource-type field and denote channels by convention. Resource ids are
// lowercase hex, packed raw: 16 hex chars into 8 bytes for V2, 12 hex chars
// into 6 bytes for V3/V4.

// V2 layout: version(1) resourceId(8) perm(1) authorId(4) expiresAt(4,
// absolute unix seconds) signature(16). Total 34 bytes.
const (
	v2TotalLen   = 34
	v2PayloadLen = v2TotalLen - sigLenV2
	v2ResourceID = 8
)

// v1Token is the legacy JSON wire shape, recognizable by the "ey" prefix of
// its base64url encoding. The signature covers a canonical pipe-delimited
// string rather than the JSON itself, so verification does not depend on
// field ordering.
type v1Token struct {
	Version     int      `json:"v"`
	ChannelID   string   `json:"channelId"`
	Permissions []string `json:"permissions"`
	AuthorID    string   `json:"authorId"`
	ExpiresAt   int64    `json:"expiresAt"`
	Signature   string   `json:"sig"`
}

// v1Canonical builds the byte sequence the V1 signature covers.
func v1Canonical(channelID string, bitmap tokenDomain.Permission, authorID string, expiresAt int64) []byte {
	return fmt.Appendf(nil, "v1|%s|%d|%s|%d", channelID, bitmap, authorID, expiresAt)
}

// encodeV1 mints a legacy V1 JSON token. Kept for compatibility tooling;
// SelectFormat never chooses it.
func encodeV1(
	params tokenDomain.CreateTokenParams,
	bitmap tokenDomain.Permission,
	expiresAt time.Time,
	secret string,
) (*tokenDomain.CreateTokenOutput, error) {
	if params.ResourceID == "" {
		return nil, tokenDomain.ErrResourceIDInvalid
	}

	authorID := params.DisplayName
	if authorID == "" {
		authorID = strconv.FormatUint(uint64(params.AuthorID), 10)
	}

	expiresUnix := expiresAt.Unix()
	sig := signTruncated(v1Canonical(params.ResourceID, bitmap, authorID, expiresUnix), secret, sigLenV2)

	payload := v1Token{
		Version:     1,
		ChannelID:   params.ResourceID,
		Permissions: bitmap.Names(),
		AuthorID:    authorID,
		ExpiresAt:   expiresUnix,
		Signature:   encodeBase64URL(sig),
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal v1 token")
	}

	return &tokenDomain.CreateTokenOutput{
		Token:     encodeBase64URL(encoded),
		ExpiresAt: time.Unix(expiresUnix, 0).UTC(),
	}, nil
}

// decodeV1 structurally parses a V1 token without authenticating it.
func decodeV1(token string) *v1Token {
	raw, ok := decodeBase64URL(token)
	if !ok {
		return nil
	}

	var payload v1Token
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	if payload.Version != 1 || payload.ChannelID == "" {
		return nil
	}
	return &payload
}

func verifyV1(token string, secret string, now time.Time) *tokenDomain.ResourceToken {
	payload := decodeV1(token)
	if payload == nil {
		return nil
	}

	bitmap, err := tokenDomain.ParsePermissions(payload.Permissions)
	if err != nil {
		return nil
	}

	sig, ok := decodeBase64URL(payload.Signature)
	if !ok {
		return nil
	}

	canonical := v1Canonical(payload.ChannelID, bitmap, payload.AuthorID, payload.ExpiresAt)
	if !verifySignature(canonical, sig, secret) {
		return nil
	}

	expiresAt := time.Unix(payload.ExpiresAt, 0).UTC()
	if expired(expiresAt, now) {
		return nil
	}

	return &tokenDomain.ResourceToken{
		Format:       tokenDomain.FormatV1,
		Type:         tokenDomain.TokenTypeResource,
		ResourceType: tokenDomain.ResourceTypeChannel,
		ResourceID:   payload.ChannelID,
		Permissions:  bitmap,
		AuthorID:     payload.AuthorID,
		ExpiresAt:    expiresAt,
	}
}

func parseV1(token string) *tokenDomain.TokenInfo {
	payload := decodeV1(token)
	if payload == nil {
		return nil
	}
	return &tokenDomain.TokenInfo{
		Format:       tokenDomain.FormatV1,
		Type:         tokenDomain.TokenTypeResource,
		ResourceType: tokenDomain.ResourceTypeChannel,
		ResourceID:   payload.ChannelID,
	}
}

// encodeV2 mints a V2 token. Decode-only legacy in normal operation; the
// encoder is kept for compatibility tooling and round-trip tests.
func encodeV2(
	params tokenDomain.CreateTokenParams,
	bitmap tokenDomain.Permission,
	expiresAt time.Time,
	secret string,
) (*tokenDomain.CreateTokenOutput, error) {
	resourceID, err := packHexResourceID(params.ResourceID, v2ResourceID)
	if err != nil {
		return nil, err
	}
	if params.DisplayName != "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "v2 format cannot carry a display name")
	}
	if !bitmap.LegacyEncodable() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "v2 format only encodes read/append permissions")
	}

	expiresUnix := expiresAt.Unix()
	if expiresUnix < 0 || expiresUnix > 0xFFFFFFFF {
		return nil, tokenDomain.ErrExpiryOverflow
	}

	payload := make([]byte, 0, v2PayloadLen)
	payload = append(payload, byte(tokenDomain.FormatV2))
	payload = append(payload, resourceID...)
	payload = append(payload, byte(bitmap))
	payload = appendUint32(payload, params.AuthorID)
	payload = appendUint32(payload, uint32(expiresUnix))

	sig := signTruncated(payload, secret, sigLenV2)

	return &tokenDomain.CreateTokenOutput{
		Token:     encodeBase64URL(append(payload, sig...)),
		ExpiresAt: time.Unix(expiresUnix, 0).UTC(),
	}, nil
}

func verifyV2(raw []byte, secret string, now time.Time) *tokenDomain.ResourceToken {
	if len(raw) != v2TotalLen {
		return nil
	}

	payload := raw[:v2PayloadLen]
	if !verifySignature(payload, raw[v2PayloadLen:], secret) {
		return nil
	}

	expiresAt := time.Unix(int64(readUint32(payload[14:18])), 0).UTC()
	if expired(expiresAt, now) {
		return nil
	}

	return &tokenDomain.ResourceToken{
		Format:       tokenDomain.FormatV2,
		Type:         tokenDomain.TokenTypeResource,
		ResourceType: tokenDomain.ResourceTypeChannel,
		ResourceID:   hex.EncodeToString(payload[1:9]),
		Permissions:  tokenDomain.Permission(payload[9]),
		AuthorID:     strconv.FormatUint(uint64(readUint32(payload[10:14])), 10),
		ExpiresAt:    expiresAt,
	}
}

func parseV2(raw []byte) *tokenDomain.TokenInfo {
	if len(raw) != v2TotalLen {
		return nil
	}
	return &tokenDomain.TokenInfo{
		Format:       tokenDomain.FormatV2,
		Type:         tokenDomain.TokenTypeResource,
		ResourceType: tokenDomain.ResourceTypeChannel,
		ResourceID:   hex.EncodeToString(raw[1:9]),
	}
}

// packHexResourceID decodes a lowercase hex resource id into exactly size
// raw bytes.
func packHexResourceID(id string, size int) ([]byte, error) {
	if len(id) != size*2 {
		return nil, tokenDomain.ErrResourceIDInvalid
	}
	raw, err := hex.DecodeString(id)
	if err != nil {
		return nil, tokenDomain.ErrResourceIDInvalid
	}
	return raw, nil
}
