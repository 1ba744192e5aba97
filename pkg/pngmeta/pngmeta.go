// Package pngmeta extracts image metadata from PNG byte streams.
//
// Only the fixed-layout header is inspected: the 8-byte signature followed by
// the IHDR chunk, which stores width and height as big-endian unsigned 32-bit
// integers. The package never decodes pixel data, so truncated files past the
// header are fine, and a 24-byte prefix is enough to answer.
package pngmeta

import (
	"encoding/binary"
	"errors"
)

// ErrNotPNG is returned when the input is too short to contain a PNG header
// or its signature does not match.
var ErrNotPNG = errors.New("not a PNG")

// signature is the fixed 8-byte sequence at the start of every PNG file.
var signature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// headerLen is the minimum input length: signature (8) + IHDR chunk length
// field (4) + chunk type tag (4) + width (4) + height (4).
const headerLen = 24

// Dimensions holds a PNG's intrinsic pixel size as stored in its IHDR chunk.
// The PNG format caps both fields at 32 bits unsigned; zero values are not
// rejected here, matching the permissive header layout.
type Dimensions struct {
	Width  uint32
	Height uint32
}

// ParseDimensions extracts width and height from a PNG byte stream.
//
// Width occupies bytes 16-19 and height bytes 20-23, immediately after the
// signature, the IHDR length field, and the "IHDR" tag. Inputs shorter than
// 24 bytes or without a valid signature return ErrNotPNG rather than garbage
// dimensions. Pure function of its input.
func ParseDimensions(data []byte) (Dimensions, error) {
	if len(data) < headerLen {
		return Dimensions{}, ErrNotPNG
	}
	for i, b := range signature {
		if data[i] != b {
			return Dimensions{}, ErrNotPNG
		}
	}
	return Dimensions{
		Width:  binary.BigEndian.Uint32(data[16:20]),
		Height: binary.BigEndian.Uint32(data[20:24]),
	}, nil
}

// IsPNG reports whether data begins with the PNG signature.
func IsPNG(data []byte) bool {
	if len(data) < len(signature) {
		return false
	}
	for i, b := range signature {
		if data[i] != b {
			return false
		}
	}
	return true
}
