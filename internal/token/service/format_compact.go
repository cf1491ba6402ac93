package service

import (
	"encoding/hex"
	"strconv"
	"time"

	apperrors "github.com/allisson/authcore/internal/errors"
	tokenDomain "github.com/allisson/authcore/internal/token/domain"
)

// V3 layout: version(1) resourceId(6) perm(1) authorId(2) expiresAt(3, hours
// since the 2024 epoch) signature(12). Total 25 bytes.
const (
	v3TotalLen   = 25
	v3PayloadLen = v3TotalLen - sigLenV3
	v34ResIDLen  = 6
)

// V4 layout: version(1) resourceId(6) perm(1) authorLen(1) author(1..32)
// expiresAt(3) signature(12). Total 24+authorLen bytes.
const (
	v4FixedLen  = 1 + v34ResIDLen + 1 + 1 + 3 + sigLenV4
	v4AuthorOff = 1 + v34ResIDLen + 1 + 1
)

func encodeV3(
	params tokenDomain.CreateTokenParams,
	bitmap tokenDomain.Permission,
	expiresAt time.Time,
	secret string,
) (*tokenDomain.CreateTokenOutput, error) {
	resourceID, err := packHexResourceID(params.ResourceID, v34ResIDLen)
	if err != nil {
		return nil, err
	}
	if !bitmap.LegacyEncodable() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "v3 format only encodes read/append permissions")
	}
	if params.AuthorID > 0xFFFF {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "v3 author id exceeds 2 bytes")
	}

	hours, truncated, err := expiryHours(expiresAt)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, v3PayloadLen)
	payload = append(payload, byte(tokenDomain.FormatV3))
	payload = append(payload, resourceID...)
	payload = append(payload, byte(bitmap))
	payload = appendUint16(payload, uint16(params.AuthorID))
	payload = appendUint24(payload, hours)

	sig := signTruncated(payload, secret, sigLenV3)

	return &tokenDomain.CreateTokenOutput{
		Token:     encodeBase64URL(append(payload, sig...)),
		ExpiresAt: truncated,
	}, nil
}

func verifyV3(raw []byte, secret string, now time.Time) *tokenDomain.ResourceToken {
	if len(raw) != v3TotalLen {
		return nil
	}

	payload := raw[:v3PayloadLen]
	if !verifySignature(payload, raw[v3PayloadLen:], secret) {
		return nil
	}

	expiresAt := hoursToTime(readUint24(payload[10:13]))
	if expired(expiresAt, now) {
		return nil
	}

	return &tokenDomain.ResourceToken{
		Format:       tokenDomain.FormatV3,
		Type:         tokenDomain.TokenTypeResource,
		ResourceType: tokenDomain.ResourceTypeChannel,
		ResourceID:   hex.EncodeToString(payload[1:7]),
		Permissions:  tokenDomain.Permission(payload[7]),
		AuthorID:     strconv.FormatUint(uint64(readUint16(payload[8:10])), 10),
		ExpiresAt:    expiresAt,
	}
}

func encodeV4(
	params tokenDomain.CreateTokenParams,
	bitmap tokenDomain.Permission,
	expiresAt time.Time,
	secret string,
) (*tokenDomain.CreateTokenOutput, error) {
	resourceID, err := packHexResourceID(params.ResourceID, v34ResIDLen)
	if err != nil {
		return nil, err
	}
	if params.DisplayName == "" {
		return nil, tokenDomain.ErrAuthorNameEmpty
	}
	if len(params.DisplayName) > tokenDomain.MaxAuthorNameBytes {
		return nil, tokenDomain.ErrAuthorNameTooLong
	}

	hours, truncated, err := expiryHours(expiresAt)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, 0, v4FixedLen+len(params.DisplayName)-sigLenV4)
	payload = append(payload, byte(tokenDomain.FormatV4))
	payload = append(payload, resourceID...)
	payload = append(payload, byte(bitmap))
	payload = appendString(payload, params.DisplayName)
	payload = appendUint24(payload, hours)

	sig := signTruncated(payload, secret, sigLenV4)

	return &tokenDomain.CreateTokenOutput{
		Token:     encodeBase64URL(append(payload, sig...)),
		ExpiresAt: truncated,
	}, nil
}

func verifyV4(raw []byte, secret string, now time.Time) *tokenDomain.ResourceToken {
	author, offset, ok := decodeV4Author(raw)
	if !ok {
		return nil
	}

	payloadLen := offset + 3
	payload := raw[:payloadLen]
	if !verifySignature(payload, raw[payloadLen:], secret) {
		return nil
	}

	expiresAt := hoursToTime(readUint24(payload[offset : offset+3]))
	if expired(expiresAt, now) {
		return nil
	}

	return &tokenDomain.ResourceToken{
		Format:       tokenDomain.FormatV4,
		Type:         tokenDomain.TokenTypeResource,
		ResourceType: tokenDomain.ResourceTypeChannel,
		ResourceID:   hex.EncodeToString(raw[1:7]),
		Permissions:  tokenDomain.Permission(raw[7]),
		AuthorID:     author,
		ExpiresAt:    expiresAt,
	}
}

// decodeV4Author structurally validates a V4 token and extracts the author
// name. Returns the offset just past the author field.
func decodeV4Author(raw []byte) (string, int, bool) {
	if len(raw) < v4FixedLen+1 {
		return "", 0, false
	}

	authorLen := int(raw[v4AuthorOff-1])
	if authorLen < 1 || authorLen > tokenDomain.MaxAuthorNameBytes {
		return "", 0, false
	}
	if len(raw) != v4FixedLen+authorLen {
		return "", 0, false
	}

	author, offset, ok := readString(raw, v4AuthorOff-1)
	if !ok {
		return "", 0, false
	}
	return author, offset, true
}

func parseV3V4(raw []byte) *tokenDomain.TokenInfo {
	if len(raw) < 1+v34ResIDLen {
		return nil
	}

	format := tokenDomain.Format(raw[0])
	switch format {
	case tokenDomain.FormatV3:
		if len(raw) != v3TotalLen {
			return nil
		}
	case tokenDomain.FormatV4:
		if _, _, ok := decodeV4Author(raw); !ok {
			return nil
		}
	default:
		return nil
	}

	return &tokenDomain.TokenInfo{
		Format:       format,
		Type:         tokenDomain.TokenTypeResource,
		ResourceType: tokenDomain.ResourceTypeChannel,
		ResourceID:   hex.EncodeToString(raw[1 : 1+v34ResIDLen]),
	}
}
