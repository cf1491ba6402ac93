package service

import (
	"time"

	apperrors "github.com/allisson/authcore/internal/errors"
	tokenDomain "github.com/allisson/authcore/internal/token/domain"
)

// unifiedVersionByte is the on-wire version marker of the unified envelope.
// It never collides with the legacy binary markers (2, 3, 4) and the legacy
// JSON format is recognized by its "ey" prefix before binary dispatch.
const unifiedVersionByte = tokenDomain.Format(1)

// Constraint flag bits. Only the flags that are set contribute trailing
// fields, keeping common tokens minimal.
const (
	flagHasMaxUses  = 0x01
	flagCanDelegate = 0x02
	flagHasMaxDepth = 0x04

	knownFlags = flagHasMaxUses | flagCanDelegate | flagHasMaxDepth
)

// appendConstraints writes the flags byte followed by the present fields.
func appendConstraints(buf []byte, c tokenDomain.Constraints) []byte {
	var flags byte
	if c.MaxUses > 0 {
		flags |= flagHasMaxUses
	}
	if c.CanDelegate {
		flags |= flagCanDelegate
	}
	if c.MaxDepth > 0 {
		flags |= flagHasMaxDepth
	}

	buf = append(buf, flags)
	if flags&flagHasMaxUses != 0 {
		buf = append(buf, c.MaxUses)
	}
	if flags&flagHasMaxDepth != 0 {
		buf = append(buf, c.MaxDepth)
	}
	return buf
}

// readConstraints parses the flags byte and its trailing fields starting at
// offset. Unknown flag bits are a decode failure: a verifier that cannot
// understand a constraint must not honor the token.
func readConstraints(raw []byte, offset int) (tokenDomain.Constraints, int, bool) {
	var c tokenDomain.Constraints

	if offset >= len(raw) {
		return c, 0, false
	}
	flags := raw[offset]
	offset++

	if flags&^byte(knownFlags) != 0 {
		return c, 0, false
	}

	if flags&flagHasMaxUses != 0 {
		if offset >= len(raw) {
			return c, 0, false
		}
		c.MaxUses = raw[offset]
		offset++
	}
	c.CanDelegate = flags&flagCanDelegate != 0
	if flags&flagHasMaxDepth != 0 {
		if offset >= len(raw) {
			return c, 0, false
		}
		c.MaxDepth = raw[offset]
		offset++
	}

	return c, offset, true
}

// encodeUnifiedResource mints a unified resource or share token. A token
// with delegation constraints (CanDelegate or MaxDepth) is a share token;
// otherwise it is a plain resource token.
func encodeUnifiedResource(
	params tokenDomain.CreateTokenParams,
	bitmap tokenDomain.Permission,
	expiresAt time.Time,
	secret string,
) (*tokenDomain.CreateTokenOutput, error) {
	if params.ResourceID == "" || len(params.ResourceID) > 255 {
		return nil, tokenDomain.ErrResourceIDInvalid
	}
	if len(params.DisplayName) > tokenDomain.MaxAuthorNameBytes {
		return nil, tokenDomain.ErrAuthorNameTooLong
	}

	resourceType := params.ResourceType
	if resourceType == 0 {
		resourceType = tokenDomain.ResourceTypeChannel
	}

	tokenType := tokenDomain.TokenTypeResource
	if params.Constraints.CanDelegate || params.Constraints.MaxDepth > 0 {
		tokenType = tokenDomain.TokenTypeShare
	}

	hours, truncated, err := expiryHours(expiresAt)
	if err != nil {
		return nil, err
	}

	payload := []byte{byte(unifiedVersionByte), byte(tokenType), byte(resourceType)}
	payload = appendString(payload, params.ResourceID)
	payload = append(payload, byte(bitmap))
	payload = appendString(payload, params.DisplayName)
	payload = appendUint24(payload, hours)
	payload = appendConstraints(payload, params.Constraints)

	sig := signTruncated(payload, secret, sigLenUnified)

	return &tokenDomain.CreateTokenOutput{
		Token:     encodeBase64URL(append(payload, sig...)),
		ExpiresAt: truncated,
	}, nil
}

// encodeUnifiedBearer mints a unified bearer token.
func encodeUnifiedBearer(
	claims tokenDomain.BearerClaims,
	constraints tokenDomain.Constraints,
	expiresAt time.Time,
	secret string,
) (*tokenDomain.CreateTokenOutput, error) {
	if len(claims.IdentityID) > 255 || len(claims.Namespace) > 255 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "bearer claim field exceeds 255 bytes")
	}

	hours, truncated, err := expiryHours(expiresAt)
	if err != nil {
		return nil, err
	}

	payload := []byte{byte(unifiedVersionByte), byte(tokenDomain.TokenTypeBearer)}
	payload = appendString(payload, claims.IdentityID)
	payload = append(payload, byte(claims.Permissions))
	payload = appendString(payload, claims.Namespace)
	payload = appendUint24(payload, hours)
	payload = appendConstraints(payload, constraints)

	sig := signTruncated(payload, secret, sigLenUnified)

	return &tokenDomain.CreateTokenOutput{
		Token:     encodeBase64URL(append(payload, sig...)),
		ExpiresAt: truncated,
	}, nil
}

// encodeUnifiedInvitation mints a unified invitation token.
func encodeUnifiedInvitation(
	claims tokenDomain.InvitationClaims,
	expiresAt time.Time,
	secret string,
) (*tokenDomain.CreateTokenOutput, error) {
	if len(claims.InvitationID) > 255 || len(claims.IdentityID) > 255 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "invitation claim field exceeds 255 bytes")
	}

	hours, truncated, err := expiryHours(expiresAt)
	if err != nil {
		return nil, err
	}

	payload := []byte{byte(unifiedVersionByte), byte(tokenDomain.TokenTypeInvitation)}
	payload = appendString(payload, claims.InvitationID)
	payload = appendString(payload, claims.IdentityID)
	payload = appendUint24(payload, hours)
	payload = appendConstraints(payload, tokenDomain.Constraints{})

	sig := signTruncated(payload, secret, sigLenUnified)

	return &tokenDomain.CreateTokenOutput{
		Token:     encodeBase64URL(append(payload, sig...)),
		ExpiresAt: truncated,
	}, nil
}

// decodedUnified is the structural parse result of a unified token before
// signature verification.
type decodedUnified struct {
	env        tokenDomain.Envelope
	payloadLen int
}

// decodeUnified structurally parses a unified token. The walked fields must
// end exactly at the signature boundary; anything else is a decode failure.
func decodeUnified(raw []byte) *decodedUnified {
	if len(raw) < 2+sigLenUnified {
		return nil
	}

	sigStart := len(raw) - sigLenUnified
	body := raw[:sigStart]
	tokenType := tokenDomain.TokenType(body[1])
	offset := 2

	var env tokenDomain.Envelope
	env.Type = tokenType

	switch tokenType {
	case tokenDomain.TokenTypeResource, tokenDomain.TokenTypeShare:
		if offset >= len(body) {
			return nil
		}
		resourceType := tokenDomain.ResourceType(body[offset])
		offset++

		resourceID, next, ok := readString(body, offset)
		if !ok || resourceID == "" {
			return nil
		}
		offset = next

		if offset >= len(body) {
			return nil
		}
		bitmap := tokenDomain.Permission(body[offset])
		offset++

		author, next, ok := readString(body, offset)
		if !ok || len(author) > tokenDomain.MaxAuthorNameBytes {
			return nil
		}
		offset = next

		if offset+3 > len(body) {
			return nil
		}
		expiresAt := hoursToTime(readUint24(body[offset : offset+3]))
		offset += 3

		constraints, next, ok := readConstraints(body, offset)
		if !ok || next != len(body) {
			return nil
		}

		env.ExpiresAt = expiresAt
		env.Constraints = constraints
		env.Resource = &tokenDomain.ResourceToken{
			Format:       tokenDomain.FormatUnified,
			Type:         tokenType,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			Permissions:  bitmap,
			AuthorID:     author,
			ExpiresAt:    expiresAt,
			Constraints:  constraints,
		}

	case tokenDomain.TokenTypeBearer:
		identityID, next, ok := readString(body, offset)
		if !ok || identityID == "" {
			return nil
		}
		offset = next

		if offset >= len(body) {
			return nil
		}
		bitmap := tokenDomain.Permission(body[offset])
		offset++

		namespace, next, ok := readString(body, offset)
		if !ok {
			return nil
		}
		offset = next

		if offset+3 > len(body) {
			return nil
		}
		expiresAt := hoursToTime(readUint24(body[offset : offset+3]))
		offset += 3

		constraints, next, ok := readConstraints(body, offset)
		if !ok || next != len(body) {
			return nil
		}

		env.ExpiresAt = expiresAt
		env.Constraints = constraints
		env.Bearer = &tokenDomain.BearerClaims{
			IdentityID:  identityID,
			Permissions: bitmap,
			Namespace:   namespace,
		}

	case tokenDomain.TokenTypeInvitation:
		invitationID, next, ok := readString(body, offset)
		if !ok || invitationID == "" {
			return nil
		}
		offset = next

		identityID, next, ok := readString(body, offset)
		if !ok || identityID == "" {
			return nil
		}
		offset = next

		if offset+3 > len(body) {
			return nil
		}
		expiresAt := hoursToTime(readUint24(body[offset : offset+3]))
		offset += 3

		constraints, next, ok := readConstraints(body, offset)
		if !ok || next != len(body) {
			return nil
		}

		env.ExpiresAt = expiresAt
		env.Constraints = constraints
		env.Invitation = &tokenDomain.InvitationClaims{
			InvitationID: invitationID,
			IdentityID:   identityID,
		}

	default:
		return nil
	}

	return &decodedUnified{env: env, payloadLen: sigStart}
}

func verifyUnified(raw []byte, secret string, now time.Time) *tokenDomain.Envelope {
	decoded := decodeUnified(raw)
	if decoded == nil {
		return nil
	}

	if !verifySignature(raw[:decoded.payloadLen], raw[decoded.payloadLen:], secret) {
		return nil
	}
	if expired(decoded.env.ExpiresAt, now) {
		return nil
	}

	return &decoded.env
}

func parseUnified(raw []byte) *tokenDomain.TokenInfo {
	decoded := decodeUnified(raw)
	if decoded == nil {
		return nil
	}

	info := &tokenDomain.TokenInfo{
		Format: tokenDomain.FormatUnified,
		Type:   decoded.env.Type,
	}
	if decoded.env.Resource != nil {
		info.ResourceType = decoded.env.Resource.ResourceType
		info.ResourceID = decoded.env.Resource.ResourceID
	}
	return info
}
