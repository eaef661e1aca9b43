package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/treebuilder/pkg/instrument"
	"github.com/vango-dev/treebuilder/pkg/render"
)

const paragraphScript = "- open: p\n- attr: class\n  value: x\n- text: a < b\n- close\n"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, cfg *Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.Logger = testLogger()
	return New(cfg)
}

func post(t *testing.T, s *Server, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestNewDefaults(t *testing.T) {
	s := New(nil)
	assert.Equal(t, BackendStream, s.Config().Backend)
	assert.Equal(t, int64(1<<20), s.Config().MaxBodyBytes)
}

func TestRenderBackends(t *testing.T) {
	s := newTestServer(t, nil)
	want := `<p class="x">a &lt; b</p>`

	for _, target := range []string{"/render", "/render?backend=stream", "/render?backend=dom"} {
		t.Run(target, func(t *testing.T) {
			rec := post(t, s, target, paragraphScript)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, want, rec.Body.String())
			assert.Empty(t, rec.Result().Trailer.Get(TrailerRenderError))
		})
	}
}

func TestRenderDefaultBackendFromConfig(t *testing.T) {
	s := newTestServer(t, &Config{Backend: BackendDOM, Pretty: true})
	rec := post(t, s, "/render", "- open: div\n- open: p\n- text: x\n- close\n- close\n")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<div>\n  <p>\nx  </p>\n</div>\n", rec.Body.String())
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		body     string
		status   int
		contains string
	}{
		{"unknown op", "/render", "- blink: x\n", http.StatusBadRequest, "T021"},
		{"invalid script", "/render", "open: p\n", http.StatusBadRequest, "T020"},
		{"unknown backend", "/render?backend=canvas", paragraphScript, http.StatusBadRequest, "T050"},
		{"mismatch before output", "/render", "- close\n", http.StatusUnprocessableEntity, "mismatched"},
		{"dom unclosed element", "/render?backend=dom", "- open: p\n", http.StatusUnprocessableEntity, "'p'"},
	}

	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestRenderErrorsAsJSON(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader("- open: p\n- blink: x\n"))
	req.Header.Set("Accept", "text/html;q=0.9, application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Code     string `json:"code"`
		Category string `json:"category"`
		Location struct {
			Line int `json:"line"`
		} `json:"location"`
		Suggestion string `json:"suggestion"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "T021", body.Code)
	assert.Equal(t, "script", body.Category)
	assert.Equal(t, 2, body.Location.Line)
	assert.NotEmpty(t, body.Suggestion)
}

func TestRenderContractErrorAsJSON(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/render?backend=dom", strings.NewReader("- close\n"))
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "T022", body["code"])
	assert.Contains(t, body["cause"], "mismatched")
}

func TestAcceptsJSON(t *testing.T) {
	tests := []struct {
		accept string
		want   bool
	}{
		{"", false},
		{"text/html", false},
		{"application/json", true},
		{"text/html, application/json;q=0.8", true},
		{"application/jsonl", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodPost, "/render", nil)
		if tt.accept != "" {
			r.Header.Set("Accept", tt.accept)
		}
		assert.Equal(t, tt.want, acceptsJSON(r), tt.accept)
	}
}

func TestRenderErrorAfterOutputUsesTrailer(t *testing.T) {
	s := newTestServer(t, nil)
	rec := post(t, s, "/render", "- open: p\n- text: x\n- attr: id\n  value: y\n- close\n")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>x", rec.Body.String())
	trailer := rec.Result().Trailer.Get(TrailerRenderError)
	assert.Contains(t, trailer, "T022")
	assert.Contains(t, trailer, "'id'")
}

func TestRenderBodyTooLarge(t *testing.T) {
	s := newTestServer(t, &Config{MaxBodyBytes: 8})
	rec := post(t, s, "/render", paragraphScript)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMarkdown(t *testing.T) {
	s := newTestServer(t, nil)

	rec := post(t, s, "/markdown", "# Hi\n\n~~old~~ new\n")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>Hi</h1><p><del>old</del> new</p>", rec.Body.String())
}

func TestMarkdownPage(t *testing.T) {
	s := newTestServer(t, nil)
	source := "# Guide & Notes\n\nbody\n"

	streamed := post(t, s, "/markdown?page=1", source)
	require.Equal(t, http.StatusOK, streamed.Code)
	body := streamed.Body.String()
	assert.True(t, strings.HasPrefix(body, render.Doctype+`<html lang="en"><head>`), body)
	assert.Contains(t, body, "<title>Guide &amp; Notes</title>")
	assert.True(t, strings.HasSuffix(body, "<p>body</p></body></html>"), body)

	materialized := post(t, s, "/markdown?page=1&backend=dom", source)
	require.Equal(t, http.StatusOK, materialized.Code)
	assert.Equal(t, body, materialized.Body.String())

	titled := post(t, s, "/markdown?page=true&title=Custom", source)
	assert.Contains(t, titled.Body.String(), "<title>Custom</title>")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newTestServer(t, &Config{
		Metrics:  instrument.NewMetrics(instrument.WithRegistry(reg), instrument.WithNamespace("srv")),
		Gatherer: reg,
		Tracing:  true,
	})

	require.Equal(t, http.StatusOK, post(t, s, "/render", paragraphScript).Code)
	require.Equal(t, http.StatusOK, post(t, s, "/render?backend=dom", paragraphScript).Code)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	metrics := rec.Body.String()
	assert.Contains(t, metrics, `srv_ops_total{backend="stream",op="open_element"} 1`)
	assert.Contains(t, metrics, `srv_ops_total{backend="dom",op="open_element"} 1`)
	assert.Contains(t, metrics, `srv_bytes_written_total{backend="stream"} 25`)
	assert.Contains(t, metrics, "srv_session_duration_seconds")
}

func TestFailedRendersReleaseSessions(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newTestServer(t, &Config{
		Metrics:  instrument.NewMetrics(instrument.WithRegistry(reg), instrument.WithNamespace("srv")),
		Gatherer: reg,
		Tracing:  true,
	})

	for _, target := range []string{"/render", "/render?backend=dom"} {
		for i := 0; i < 3; i++ {
			require.Equal(t, http.StatusUnprocessableEntity, post(t, s, target, "- close\n").Code)
		}
	}
	require.Equal(t, http.StatusOK, post(t, s, "/render", paragraphScript).Code)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	metrics := rec.Body.String()
	assert.Contains(t, metrics, "srv_active_sessions 0")
	assert.Contains(t, metrics, `srv_session_duration_seconds_count{backend="stream",status="error"} 3`)
	assert.Contains(t, metrics, `srv_session_duration_seconds_count{backend="dom",status="error"} 3`)
	assert.Contains(t, metrics, `srv_session_duration_seconds_count{backend="stream",status="success"} 1`)
}

func TestMetricsEndpointDisabled(t *testing.T) {
	s := newTestServer(t, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrClosedPipe))
}
