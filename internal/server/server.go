// Package server exposes the conversion pipeline over HTTP.
//
// The server is a host adapter: each request supplies the image payload
// (raw PNG body or JSON-wrapped base64) and the response carries the
// ConversionResult. When an artifact sink is configured, results are
// persisted there and the response names the written artifact; otherwise
// the SVG comes back inline as a data URL.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/svgembed/svgembed/pkg/cache"
	"github.com/svgembed/svgembed/pkg/convert"
	apperrors "github.com/svgembed/svgembed/pkg/errors"
)

// maxBodyBytes caps request bodies at 32 MiB; embedded SVGs inflate the
// source by ~4/3, so anything larger produces unwieldy documents anyway.
const maxBodyBytes = 32 << 20

// Options configures a Server.
type Options struct {
	Logger *log.Logger
	Cache  cache.Cache   // optional document cache shared across requests
	TTL    time.Duration // cache entry lifetime
	Sink   convert.Sink  // optional artifact sink; nil returns inline URLs
}

// Server handles conversion requests.
type Server struct {
	logger *log.Logger
	cache  cache.Cache
	ttl    time.Duration
	sink   convert.Sink
	router chi.Router
}

// New creates a Server with its routes registered.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		logger: logger,
		cache:  opts.Cache,
		ttl:    opts.TTL,
		sink:   opts.Sink,
		router: chi.NewRouter(),
	}

	s.router.Use(s.requestID)
	s.router.Use(s.logRequests)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/convert", s.handleConvert)
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// convertRequest is the JSON request body shape for POST /convert.
type convertRequest struct {
	Data    string `json:"data,omitempty"`    // base64, bare or data-URL prefixed
	Content string `json:"content,omitempty"` // textual base64 content
}

// errorResponse is the JSON error body shape.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleConvert converts the request payload and responds with the result.
//
//	POST /convert?name=logo
//	  body: raw PNG bytes, or JSON {"data": "<base64-or-data-url>"}
//	  200: {"written": "logo.svg"} or {"dataUrl": "data:image/svg+xml;base64,..."}
//	  422: {"code": "READ_UNAVAILABLE", "message": "..."}
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "image"
	}

	payload, err := extractPayload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	conv := convert.Converter{
		Source: payloadSource{payload: payload},
		Sink:   s.sink,
		Cache:  s.cache,
		TTL:    s.ttl,
		Logger: s.logger,
	}

	result, err := conv.Convert(r.Context(), name, name)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCodeReadUnavailable) {
			s.writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// extractPayload pulls the image payload out of the request in whichever
// shape the client chose.
func extractPayload(r *http.Request) (convert.Payload, error) {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer body.Close()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req convertRequest
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			return convert.Payload{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid JSON body")
		}
		return convert.Payload{Data: req.Data, Content: req.Content}, nil
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return convert.Payload{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read request body")
	}
	return convert.FromBytes(data), nil
}

// payloadSource adapts a per-request payload to the Source capability.
type payloadSource struct {
	payload convert.Payload
}

func (p payloadSource) Read(ctx context.Context, name string) (convert.Payload, error) {
	return p.payload, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	code := string(apperrors.GetCode(err))
	if code == "" {
		code = string(apperrors.ErrCodeInternal)
	}
	s.writeJSON(w, status, errorResponse{Code: code, Message: apperrors.UserMessage(err)})
}

// requestID attaches a uuid to each request for log correlation.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

// logRequests logs one line per request with status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"id", requestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start).Round(time.Millisecond))
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// requestIDKey is the context key for the per-request uuid.
const requestIDKey ctxKey = 0

// withRequestID returns a new context carrying the request id.
func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// requestIDFrom retrieves the request id from ctx, or "" if absent.
func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
