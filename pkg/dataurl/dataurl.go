// Package dataurl converts between raw bytes, bare base64 payloads, and
// data-URL strings of the form "data:<mime-type>;base64,<payload>".
//
// Bare and prefixed forms are treated as semantically equivalent; Strip and
// WithPrefix move between them without touching the payload.
package dataurl

import (
	"encoding/base64"
	"strings"
)

// Common MIME types used by this application.
const (
	MimePNG = "image/png"
	MimeSVG = "image/svg+xml"
)

// IsDataURL reports whether s carries a data-URL scheme marker.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// Strip returns the bare base64 payload of s, removing any
// "data:<mime>;base64," prefix. Bare input is returned unchanged, so
// Strip(Strip(s)) == Strip(s).
func Strip(s string) string {
	if !IsDataURL(s) {
		return s
	}
	if _, payload, ok := strings.Cut(s, ","); ok {
		return payload
	}
	return s
}

// WithPrefix ensures s carries a "data:<mime>;base64," prefix.
// Already-prefixed input is returned unchanged, whatever its MIME type.
func WithPrefix(s, mime string) string {
	if IsDataURL(s) {
		return s
	}
	return "data:" + mime + ";base64," + s
}

// Encode encodes raw bytes as a data URL with the given MIME type.
func Encode(data []byte, mime string) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// EncodeBare encodes raw bytes as a bare base64 string without a prefix.
func EncodeBare(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode decodes a bare or prefixed base64 string back into raw bytes.
func Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(Strip(strings.TrimSpace(s)))
}
