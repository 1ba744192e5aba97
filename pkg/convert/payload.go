package convert

import (
	"github.com/svgembed/svgembed/pkg/dataurl"
)

// Payload is the union of shapes a Source may return. Host file APIs differ
// in how they hand back file contents; rather than leaking that variance
// into the pipeline, every shape is carried here and collapsed by Normalize.
//
// At most one field should be set; when several are, the precedence is
// Data, then Content, then Bytes.
type Payload struct {
	// Data is a base64 string, bare or carrying a data-URL prefix.
	Data string

	// Content is textual file content, expected to be bare base64.
	Content string

	// Bytes is the raw image, requiring base64 encoding before use.
	Bytes []byte
}

// FromBytes wraps raw image bytes in a Payload.
func FromBytes(data []byte) Payload {
	return Payload{Bytes: data}
}

// FromString wraps a bare or prefixed base64 string in a Payload.
func FromString(s string) Payload {
	return Payload{Data: s}
}

// Normalize collapses the payload to a single canonical base64 string,
// prefixed or bare as the source provided it. The second return value is
// false when no field carries usable data.
func (p Payload) Normalize() (string, bool) {
	switch {
	case p.Data != "":
		return p.Data, true
	case p.Content != "":
		return p.Content, true
	case len(p.Bytes) > 0:
		return dataurl.EncodeBare(p.Bytes), true
	}
	return "", false
}

// Empty reports whether the payload carries no data in any shape.
func (p Payload) Empty() bool {
	_, ok := p.Normalize()
	return !ok
}
