package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/treebuilder/pkg/instrument"
	"github.com/vango-dev/treebuilder/pkg/markdown"
)

// Backend names.
const (
	BackendStream = "stream"
	BackendDOM    = "dom"
)

// Config configures the HTTP server.
type Config struct {
	// Backend is used when a request does not name one (default: "stream").
	Backend string

	// Pretty indents dom backend output.
	Pretty bool

	// MaxBodyBytes caps request bodies and WebSocket messages
	// (default: 1 MiB).
	MaxBodyBytes int64

	// FlushThreshold is the number of bytes between flushes for streamed
	// responses (default: sink.DefaultFlushThreshold).
	FlushThreshold int

	// MarkdownFlavor is "commonmark" or "gfm" (default: "gfm").
	MarkdownFlavor string

	// Metrics instruments every builder when set.
	Metrics *instrument.Metrics

	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer

	// Tracing wraps every builder in a session span.
	Tracing bool

	// TracerName is passed to instrument.WithTracerName.
	TracerName string

	// CheckOrigin validates WebSocket origins (default: same host only).
	CheckOrigin func(r *http.Request) bool

	// ReadHeaderTimeout, WriteTimeout and ShutdownTimeout configure the
	// underlying http.Server.
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	ShutdownTimeout   time.Duration

	// Logger receives request and render logs (default: slog.Default()).
	Logger *slog.Logger
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Backend:           BackendStream,
		MaxBodyBytes:      1 << 20,
		MarkdownFlavor:    markdown.FlavorGFM,
		TracerName:        "treebuilder",
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		return defaults
	}
	cfg := *c
	if cfg.Backend == "" {
		cfg.Backend = defaults.Backend
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if cfg.MarkdownFlavor == "" {
		cfg.MarkdownFlavor = defaults.MarkdownFlavor
	}
	if cfg.TracerName == "" {
		cfg.TracerName = defaults.TracerName
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	return &cfg
}
