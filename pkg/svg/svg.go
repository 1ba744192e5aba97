// Package svg builds minimal SVG documents that embed a raster image as a
// base64 data URL inside a single <image> element.
//
// This is embedding, not vectorization: the raster bytes pass through
// untouched, wrapped in a vector container sized to the image's intrinsic
// dimensions when they are known.
package svg

import (
	"fmt"
	"strings"

	"github.com/svgembed/svgembed/pkg/dataurl"
	"github.com/svgembed/svgembed/pkg/pngmeta"
)

// fallback values used when the image's intrinsic size is unknown.
const (
	fallbackSize    = "100%"
	fallbackViewBox = "0 0 100 100"
)

// Build wraps a base64-encoded PNG in an SVG document.
//
// encoded may be a bare base64 payload or a full data URL; any prefix is
// stripped before embedding so the href never carries a doubled scheme.
// Prefixed and bare input therefore produce byte-identical documents.
//
// With dims, width/height are the pixel values and the viewBox spans them.
// Without dims the document degrades to width/height "100%" and a
// "0 0 100 100" viewBox, still valid but without exact intrinsic scaling.
// The image carries preserveAspectRatio="none" so the declared box is
// authoritative and the raster stretches to fill it exactly.
func Build(encoded string, dims *pngmeta.Dimensions) string {
	payload := dataurl.Strip(encoded)

	w, h, viewBox := fallbackSize, fallbackSize, fallbackViewBox
	if dims != nil {
		w = fmt.Sprintf("%d", dims.Width)
		h = fmt.Sprintf("%d", dims.Height)
		viewBox = fmt.Sprintf("0 0 %d %d", dims.Width, dims.Height)
	}

	var b strings.Builder
	b.Grow(len(payload) + 256)
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s">`+"\n", w, h, viewBox)
	fmt.Fprintf(&b, `  <image href="data:image/png;base64,%s" width="%s" height="%s" preserveAspectRatio="none" />`+"\n", payload, w, h)
	b.WriteString("</svg>\n")
	return b.String()
}
