package pngmeta

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/png"
	"testing"
)

// encodePNG produces real PNG bytes for a blank image of the given size.
func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode PNG: %v", err)
	}
	return buf.Bytes()
}

func TestParseDimensions(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"square", 16, 16},
		{"landscape", 640, 480},
		{"portrait", 10, 20},
		{"single pixel", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodePNG(t, tt.width, tt.height)

			dims, err := ParseDimensions(data)
			if err != nil {
				t.Fatalf("ParseDimensions error: %v", err)
			}
			if dims.Width != uint32(tt.width) || dims.Height != uint32(tt.height) {
				t.Errorf("dims = %dx%d, want %dx%d", dims.Width, dims.Height, tt.width, tt.height)
			}
		})
	}
}

func TestParseDimensionsHeaderOnly(t *testing.T) {
	// A 24-byte prefix is sufficient; pixel data is never read.
	data := encodePNG(t, 320, 200)[:24]

	dims, err := ParseDimensions(data)
	if err != nil {
		t.Fatalf("ParseDimensions error: %v", err)
	}
	if dims.Width != 320 || dims.Height != 200 {
		t.Errorf("dims = %dx%d, want 320x200", dims.Width, dims.Height)
	}
}

func TestParseDimensionsRejectsShortInput(t *testing.T) {
	data := encodePNG(t, 8, 8)
	for _, n := range []int{0, 1, 8, 23} {
		if _, err := ParseDimensions(data[:n]); !errors.Is(err, ErrNotPNG) {
			t.Errorf("len %d: err = %v, want ErrNotPNG", n, err)
		}
	}
}

func TestParseDimensionsRejectsBadSignature(t *testing.T) {
	data := encodePNG(t, 8, 8)

	// Corrupt each signature byte in turn.
	for i := 0; i < 8; i++ {
		bad := bytes.Clone(data)
		bad[i] ^= 0xFF
		if _, err := ParseDimensions(bad); !errors.Is(err, ErrNotPNG) {
			t.Errorf("corrupt byte %d: err = %v, want ErrNotPNG", i, err)
		}
	}

	// JPEG-looking input.
	jpeg := append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 32)...)
	if _, err := ParseDimensions(jpeg); !errors.Is(err, ErrNotPNG) {
		t.Errorf("jpeg input: err = %v, want ErrNotPNG", err)
	}
}

func TestParseDimensionsTopBitSet(t *testing.T) {
	// Widths with the top byte >= 0x80 must not be sign-extended.
	data := encodePNG(t, 8, 8)
	binary.BigEndian.PutUint32(data[16:20], 0xFFFFFFFF)
	binary.BigEndian.PutUint32(data[20:24], 0x80000001)

	dims, err := ParseDimensions(data)
	if err != nil {
		t.Fatalf("ParseDimensions error: %v", err)
	}
	if dims.Width != 0xFFFFFFFF {
		t.Errorf("Width = %#x, want 0xFFFFFFFF", dims.Width)
	}
	if dims.Height != 0x80000001 {
		t.Errorf("Height = %#x, want 0x80000001", dims.Height)
	}
}

func TestParseDimensionsPermissiveValues(t *testing.T) {
	// Zero dimensions parse without error; plausibility is the caller's call.
	data := encodePNG(t, 8, 8)
	binary.BigEndian.PutUint32(data[16:20], 0)
	binary.BigEndian.PutUint32(data[20:24], 0)

	dims, err := ParseDimensions(data)
	if err != nil {
		t.Fatalf("ParseDimensions error: %v", err)
	}
	if dims.Width != 0 || dims.Height != 0 {
		t.Errorf("dims = %dx%d, want 0x0", dims.Width, dims.Height)
	}
}

func TestIsPNG(t *testing.T) {
	if !IsPNG(encodePNG(t, 2, 2)) {
		t.Error("IsPNG should accept real PNG bytes")
	}
	if IsPNG([]byte("GIF89a")) {
		t.Error("IsPNG should reject non-PNG bytes")
	}
	if IsPNG(nil) {
		t.Error("IsPNG should reject empty input")
	}
}
