package service

import (
	"crypto/hmac"
	"crypto/sha256"
)

// signatureSize is the full HMAC-SHA256 output length.
const signatureSize = 32

// Truncated signature lengths used by the wire formats. 12 bytes (96 bits)
// keeps tokens short enough for URL fragments and QR codes while leaving
// forgery probability negligible.
const (
	sigLenV2      = 16
	sigLenV3      = 12
	sigLenV4      = 12
	sigLenUnified = 12
)

// sign computes the full 32-byte HMAC-SHA256 of payload under secret.
func sign(payload []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return mac.Sum(nil)
}

// signTruncated computes the HMAC-SHA256 of payload and returns its first
// n bytes.
func signTruncated(payload []byte, secret string, n int) []byte {
	return sign(payload, secret)[:n]
}

// verifySignature recomputes the expected signature over payload and compares
// it with the presented signature in constant time. Length mismatches fail
// immediately; equal-length comparison never short-circuits (hmac.Equal).
func verifySignature(payload, signature []byte, secret string) bool {
	if len(signature) == 0 || len(signature) > signatureSize {
		return false
	}
	expected := signTruncated(payload, secret, len(signature))
	return hmac.Equal(expected, signature)
}
