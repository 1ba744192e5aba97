// Package host provides concrete Source and Sink adapters for common hosts.
//
// The conversion pipeline only sees the two narrow capabilities defined in
// package convert; everything host-specific (filesystem paths, in-memory
// maps, HTTP bodies) lives in an adapter implemented once at the boundary.
package host

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/svgembed/svgembed/pkg/convert"
)

// =============================================================================
// Filesystem
// =============================================================================

// DirSource reads image files from a directory.
type DirSource struct {
	dir string
}

// NewDirSource creates a source rooted at dir. Names are resolved relative
// to it; absolute names are used as-is.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Read loads the named file and returns its raw bytes.
func (s *DirSource) Read(ctx context.Context, name string) (convert.Payload, error) {
	if err := ctx.Err(); err != nil {
		return convert.Payload{}, err
	}
	data, err := os.ReadFile(s.resolve(name))
	if err != nil {
		return convert.Payload{}, err
	}
	return convert.FromBytes(data), nil
}

func (s *DirSource) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// DirSink writes documents into a directory, creating parents as needed.
type DirSink struct {
	dir string
}

// NewDirSink creates a sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// Write persists content under the given name.
func (s *DirSink) Write(ctx context.Context, name, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

// =============================================================================
// In-memory
// =============================================================================

// MemHost is an in-memory Source and Sink, for tests and for embedding the
// converter in hosts that manage their own storage.
type MemHost struct {
	mu     sync.RWMutex
	images map[string]convert.Payload
	docs   map[string]string
}

// NewMemHost creates an empty in-memory host.
func NewMemHost() *MemHost {
	return &MemHost{
		images: make(map[string]convert.Payload),
		docs:   make(map[string]string),
	}
}

// Put registers an image payload under a name.
func (h *MemHost) Put(name string, payload convert.Payload) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.images[name] = payload
}

// Read returns the payload registered under name. Unknown names return an
// empty payload, which the converter reports as READ_UNAVAILABLE.
func (h *MemHost) Read(ctx context.Context, name string) (convert.Payload, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.images[name], nil
}

// Write stores a document under name.
func (h *MemHost) Write(ctx context.Context, name, content string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.docs[name] = content
	return nil
}

// Document returns a previously written document.
func (h *MemHost) Document(name string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	doc, ok := h.docs[name]
	return doc, ok
}

// Interface checks.
var (
	_ convert.Source = (*DirSource)(nil)
	_ convert.Sink   = (*DirSink)(nil)
	_ convert.Source = (*MemHost)(nil)
	_ convert.Sink   = (*MemHost)(nil)
)
