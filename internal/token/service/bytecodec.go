// Package service implements the resource-token wire codec: big-endian byte
// packing, HMAC signing with truncated signatures, and the versioned
// encoders/decoders for the V1–V4 legacy formats and the unified envelope.
package service

import (
	"encoding/base64"
	"encoding/binary"
	"unicode/utf8"
)

// appendUint16 appends v as 2 big-endian bytes.
func appendUint16(buf []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(buf, v)
}

// appendUint24 appends the low 3 bytes of v, big-endian.
// The caller is responsible for range-checking v against 0xFFFFFF.
func appendUint24(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>16), byte(v>>8), byte(v))
}

// appendUint32 appends v as 4 big-endian bytes.
func appendUint32(buf []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(buf, v)
}

// readUint16 reads 2 big-endian bytes.
func readUint16(buf []byte) uint16 {
	return binary.BigEndian.Uint16(buf)
}

// readUint24 reads 3 big-endian bytes into the low bits of a uint32.
func readUint24(buf []byte) uint32 {
	return uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2])
}

// readUint32 reads 4 big-endian bytes.
func readUint32(buf []byte) uint32 {
	return binary.BigEndian.Uint32(buf)
}

// appendString appends a 1-byte length prefix followed by the UTF-8 bytes
// of s. The caller is responsible for keeping s under 256 bytes.
func appendString(buf []byte, s string) []byte {
	buf = append(buf, byte(len(s)))
	return append(buf, s...)
}

// readString reads a 1-byte length-prefixed UTF-8 string starting at offset.
// Returns the string, the offset past it, and false on truncation or
// invalid UTF-8.
func readString(buf []byte, offset int) (string, int, bool) {
	if offset >= len(buf) {
		return "", 0, false
	}
	n := int(buf[offset])
	offset++
	if offset+n > len(buf) {
		return "", 0, false
	}
	raw := buf[offset : offset+n]
	if !utf8.Valid(raw) {
		return "", 0, false
	}
	return string(raw), offset + n, true
}

// encodeBase64URL encodes raw bytes with the URL-safe alphabet, padding stripped.
func encodeBase64URL(raw []byte) string {
	return base64.RawURLEncoding.EncodeToString(raw)
}

// decodeBase64URL decodes a base64url string, accepting both padded and
// unpadded input. Returns false on malformed input; the caller treats this
// as a contained decode failure, indistinguishable externally from a
// signature mismatch.
func decodeBase64URL(s string) ([]byte, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err == nil {
		return raw, true
	}
	raw, err = base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return raw, true
}
