package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/svgembed/svgembed/pkg/dataurl"
	"github.com/svgembed/svgembed/pkg/host"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode PNG: %v", err)
	}
	return buf.Bytes()
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	ts := httptest.NewServer(New(opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if id := resp.Header.Get("X-Request-ID"); id == "" {
		t.Error("response should carry a request id")
	}
}

func TestConvertRawBody(t *testing.T) {
	ts := newTestServer(t, Options{})
	img := encodePNG(t, 10, 20)

	resp, err := http.Post(ts.URL+"/convert?name=logo", "image/png", bytes.NewReader(img))
	if err != nil {
		t.Fatalf("POST /convert: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result struct {
		Written string `json:"written"`
		DataURL string `json:"dataUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Written != "" {
		t.Error("no sink configured, result should be inline")
	}

	doc, err := dataurl.Decode(result.DataURL)
	if err != nil {
		t.Fatalf("decode data URL: %v", err)
	}
	if !strings.Contains(string(doc), `viewBox="0 0 10 20"`) {
		t.Errorf("document missing intrinsic viewBox:\n%s", doc)
	}
}

func TestConvertJSONBody(t *testing.T) {
	sink := host.NewMemHost()
	ts := newTestServer(t, Options{Sink: sink})
	img := encodePNG(t, 4, 4)

	body, _ := json.Marshal(map[string]string{
		"data": dataurl.Encode(img, dataurl.MimePNG),
	})
	resp, err := http.Post(ts.URL+"/convert?name=icon", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /convert: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result struct {
		Written string `json:"written"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Written != "icon.svg" {
		t.Errorf("written = %q, want icon.svg", result.Written)
	}
	if _, ok := sink.Document("icon.svg"); !ok {
		t.Error("sink should hold the written artifact")
	}
}

func TestConvertEmptyPayload(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Post(ts.URL+"/convert", "image/png", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("POST /convert: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}

	var errResp struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != "READ_UNAVAILABLE" {
		t.Errorf("code = %q, want READ_UNAVAILABLE", errResp.Code)
	}
}

func TestConvertInvalidJSON(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Post(ts.URL+"/convert", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST /convert: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestConvertNonPNGDegrades(t *testing.T) {
	// Conversion succeeds with fallback sizing for non-PNG bytes.
	ts := newTestServer(t, Options{})

	resp, err := http.Post(ts.URL+"/convert", "application/octet-stream", strings.NewReader("not a png"))
	if err != nil {
		t.Fatalf("POST /convert: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var result struct {
		DataURL string `json:"dataUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	doc, err := dataurl.Decode(result.DataURL)
	if err != nil {
		t.Fatalf("decode data URL: %v", err)
	}
	if !strings.Contains(string(doc), `width="100%"`) {
		t.Errorf("document should fall back to percentage sizing:\n%s", doc)
	}
}
