// Package convert implements the PNG-to-SVG conversion pipeline.
//
// This package sequences the pure core packages (pngmeta, dataurl, svg) into
// the end-to-end conversion used by CLI, API, and embedding hosts. By
// centralizing this logic, all entry points share one behavior: best-effort
// degradation on missing dimensions and missing sinks, with a hard failure
// only when no source bytes can be obtained.
//
// # Architecture
//
// A conversion runs five linear stages:
//
//  1. Acquire: read a payload from the Source and normalize its shape
//  2. Normalize: canonicalize to a prefixed base64 PNG string
//  3. Parse: extract intrinsic dimensions from the PNG header (best effort)
//  4. Build: wrap the image in the SVG document
//  5. Persist: write through the Sink, or fall back to an inline data URL
//
// # Usage
//
//	conv := convert.Converter{
//	    Source: host.NewDirSource("."),
//	    Sink:   host.NewDirSink("."),
//	    Logger: logger,
//	}
//	result, err := conv.Convert(ctx, "gopher.png", "gopher")
//	if err != nil {
//	    return err // READ_UNAVAILABLE: nothing to convert
//	}
//	if result.Written() {
//	    fmt.Println("wrote", result.WrittenAs)
//	} else {
//	    fmt.Println(result.DataURL)
//	}
package convert

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/svgembed/svgembed/pkg/cache"
	"github.com/svgembed/svgembed/pkg/dataurl"
	apperrors "github.com/svgembed/svgembed/pkg/errors"
	"github.com/svgembed/svgembed/pkg/observability"
	"github.com/svgembed/svgembed/pkg/pngmeta"
	"github.com/svgembed/svgembed/pkg/svg"
)

// Source is the read capability: it resolves a name to an image payload.
// Implementations may return the image in any Payload shape; the converter
// normalizes them all.
type Source interface {
	Read(ctx context.Context, name string) (Payload, error)
}

// Sink is the write capability: it persists a document under a name.
// A nil Sink on the Converter is supported and triggers the inline
// data-URL fallback.
type Sink interface {
	Write(ctx context.Context, name string, content string) error
}

// Result is the outcome of a conversion. Exactly one field is set:
// WrittenAs when the document was persisted through a sink, DataURL when it
// is returned inline as a data:image/svg+xml;base64 URL.
type Result struct {
	WrittenAs string `json:"written,omitempty"`
	DataURL   string `json:"dataUrl,omitempty"`
}

// Written reports whether the result was persisted rather than inlined.
func (r Result) Written() bool {
	return r.WrittenAs != ""
}

// Converter runs conversions. The zero value is unusable; Source is
// required, everything else optional. A Converter holds no per-conversion
// state, so one instance may serve concurrent Convert calls.
type Converter struct {
	Source Source
	Sink   Sink          // nil: always return inline data URLs
	Cache  cache.Cache   // nil: no document caching
	TTL    time.Duration // cache entry lifetime; zero means no expiry
	Logger *log.Logger   // nil: silent
}

// OutputName normalizes the requested artifact name: used verbatim when it
// already ends in ".svg", otherwise the suffix is appended.
func OutputName(name string) string {
	if strings.HasSuffix(name, ".svg") {
		return name
	}
	return name + ".svg"
}

// Convert runs the full pipeline for one input.
//
// Only an unusable source aborts: a missing or malformed payload returns a
// READ_UNAVAILABLE error and no result. Header-parse failures degrade to the
// size-unknown document, and sink failures degrade to the inline data URL,
// so every other path yields a usable artifact.
func (c *Converter) Convert(ctx context.Context, input, outputName string) (Result, error) {
	logger := c.logger()
	start := time.Now()
	observability.Convert().OnConvertStart(ctx, input)

	// Stage 1: acquire bytes through the read capability.
	image, err := c.acquire(ctx, input)
	if err != nil {
		observability.Convert().OnConvertComplete(ctx, input, false, time.Since(start), err)
		return Result{}, err
	}

	// Stage 2-4: normalize, parse, build -- skipped on a cache hit, since
	// the document is a pure function of the image bytes.
	doc, err := c.buildDocument(ctx, input, image)
	if err != nil {
		observability.Convert().OnConvertComplete(ctx, input, false, time.Since(start), err)
		return Result{}, err
	}

	// Stage 5: persist through the sink, or fall back to an inline URL.
	result := c.persist(ctx, doc, outputName)
	logger.Debug("conversion complete", "input", input, "written", result.Written(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	observability.Convert().OnConvertComplete(ctx, input, result.Written(), time.Since(start), nil)
	return result, nil
}

// acquire reads the payload for input and decodes it to raw image bytes.
// All accepted payload shapes funnel through here; anything unusable is a
// READ_UNAVAILABLE error.
func (c *Converter) acquire(ctx context.Context, input string) ([]byte, error) {
	if c.Source == nil {
		return nil, apperrors.New(apperrors.ErrCodeReadUnavailable, "no read capability configured")
	}

	readStart := time.Now()
	observability.Convert().OnReadStart(ctx, input)
	payload, err := c.Source.Read(ctx, input)
	if err != nil {
		observability.Convert().OnReadComplete(ctx, input, 0, time.Since(readStart), err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeReadUnavailable, err, "failed to read %s", input)
	}

	encoded, ok := payload.Normalize()
	if !ok {
		observability.Convert().OnReadComplete(ctx, input, 0, time.Since(readStart), nil)
		return nil, apperrors.New(apperrors.ErrCodeReadUnavailable, "no image data in payload for %s", input)
	}

	image, err := dataurl.Decode(encoded)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeReadUnavailable, err, "payload for %s is not valid base64", input)
	}
	observability.Convert().OnReadComplete(ctx, input, len(image), time.Since(readStart), nil)
	return image, nil
}

// buildDocument produces the SVG document for the given image bytes,
// consulting the cache first.
func (c *Converter) buildDocument(ctx context.Context, input string, image []byte) (string, error) {
	logger := c.logger()

	var key string
	if c.Cache != nil {
		key = cache.DocumentKey(image)
		cached, hit, err := c.Cache.Get(ctx, key)
		if err != nil {
			logger.Warn("cache read failed", "input", input, "err", err)
		} else if hit {
			observability.Cache().OnCacheHit(ctx, "document")
			logger.Debug("document cache hit", "input", input)
			return string(cached), nil
		} else {
			observability.Cache().OnCacheMiss(ctx, "document")
		}
	}

	// Canonical prefixed form for downstream consistency; Build strips it
	// again before embedding.
	encoded := dataurl.WithPrefix(dataurl.EncodeBare(image), dataurl.MimePNG)

	// Best effort: a non-PNG header downgrades to the size-unknown document.
	var dims *pngmeta.Dimensions
	parsed, err := pngmeta.ParseDimensions(image)
	if err != nil {
		logger.Debug("header parse failed, sizing unknown", "input", input, "err", err)
		observability.Convert().OnParseHeader(ctx, input, false, 0, 0)
	} else {
		dims = &parsed
		observability.Convert().OnParseHeader(ctx, input, true, parsed.Width, parsed.Height)
	}

	doc := svg.Build(encoded, dims)

	if c.Cache != nil {
		if err := c.Cache.Set(ctx, key, []byte(doc), c.TTL); err != nil {
			logger.Warn("cache write failed", "input", input, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "document", len(doc))
		}
	}
	return doc, nil
}

// persist writes the document through the sink when one is configured.
// A write failure is non-fatal and downgrades to the inline data URL.
func (c *Converter) persist(ctx context.Context, doc, outputName string) Result {
	if c.Sink != nil {
		name := OutputName(outputName)
		if err := c.Sink.Write(ctx, name, doc); err != nil {
			c.logger().Warn("write failed, returning inline data URL",
				"name", name, "code", apperrors.ErrCodeWriteFailed, "err", err)
		} else {
			return Result{WrittenAs: name}
		}
	}
	return Result{DataURL: dataurl.Encode([]byte(doc), dataurl.MimeSVG)}
}

// discard swallows log output for Converters constructed without a Logger.
var discard = log.New(io.Discard)

func (c *Converter) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return discard
}
