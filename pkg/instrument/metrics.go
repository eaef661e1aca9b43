package instrument

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/treebuilder/pkg/tree"
)

// Operation labels.
const (
	OpOpenElement   = "open_element"
	OpCloseElement  = "close_element"
	OpSetAttribute  = "set_attribute"
	OpAppendText    = "append_text"
	OpAppendComment = "append_comment"
	OpAppendHTML    = "append_html"
	OpFinish        = "finish"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "treebuilder").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for session duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "treebuilder",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors shared by every wrapped builder.
// It is safe for concurrent use; the builders it wraps are not.
type Metrics struct {
	opsTotal        *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	bytesWritten    *prometheus.CounterVec
	sessionDuration *prometheus.HistogramVec
	activeSessions  prometheus.Gauge
}

// NewMetrics creates and registers the collectors. Registering twice on
// the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		opsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ops_total",
			Help:        "Total number of builder calls",
			ConstLabels: config.ConstLabels,
		}, []string{"backend", "op"}),

		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "errors_total",
			Help:        "Total number of failed builder calls",
			ConstLabels: config.ConstLabels,
		}, []string{"backend", "kind"}),

		bytesWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bytes_written_total",
			Help:        "Total bytes written to sinks",
			ConstLabels: config.ConstLabels,
		}, []string{"backend"}),

		sessionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "session_duration_seconds",
			Help:        "Time from session start to Finish or Close",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"backend", "status"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of builder sessions not yet finished or closed",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Wrap returns a builder that records metrics for every call to b under
// the given backend label.
func (m *Metrics) Wrap(b tree.Builder, backend string) *MeteredBuilder {
	m.activeSessions.Inc()
	return &MeteredBuilder{
		next:    b,
		m:       m,
		backend: backend,
		start:   time.Now(),
	}
}

// CountWriter returns w wrapped so that bytes written are counted under
// the backend label.
func (m *Metrics) CountWriter(w io.Writer, backend string) io.Writer {
	return &countingWriter{w: w, counter: m.bytesWritten.WithLabelValues(backend)}
}

// ErrorKind maps a builder error to a low-cardinality label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, tree.ErrMismatchedElement):
		return "mismatch"
	case errors.Is(err, tree.ErrFlush):
		return "flush"
	case errors.Is(err, tree.ErrInvalidName):
		return "invalid_name"
	default:
		return "sink"
	}
}

// MeteredBuilder is a tree.Builder that records Prometheus metrics.
type MeteredBuilder struct {
	next     tree.Builder
	m        *Metrics
	backend  string
	start    time.Time
	failed   bool
	doneOnce sync.Once
}

var _ tree.Builder = (*MeteredBuilder)(nil)

// Unwrap returns the decorated builder.
func (b *MeteredBuilder) Unwrap() tree.Builder {
	return b.next
}

func (b *MeteredBuilder) record(op string, err error) {
	b.m.opsTotal.WithLabelValues(b.backend, op).Inc()
	if err != nil {
		b.failed = true
		b.m.errorsTotal.WithLabelValues(b.backend, ErrorKind(err)).Inc()
	}
}

func (b *MeteredBuilder) OpenElement(name, namespace string) (tree.NodeToken, error) {
	tok, err := b.next.OpenElement(name, namespace)
	b.record(OpOpenElement, err)
	return tok, err
}

func (b *MeteredBuilder) CloseElement() error {
	err := b.next.CloseElement()
	b.record(OpCloseElement, err)
	return err
}

func (b *MeteredBuilder) SetAttribute(name string, value any) error {
	err := b.next.SetAttribute(name, value)
	b.record(OpSetAttribute, err)
	return err
}

func (b *MeteredBuilder) AppendText(text string) (tree.NodeToken, error) {
	tok, err := b.next.AppendText(text)
	b.record(OpAppendText, err)
	return tok, err
}

func (b *MeteredBuilder) AppendComment(text string) (tree.NodeToken, error) {
	tok, err := b.next.AppendComment(text)
	b.record(OpAppendComment, err)
	return tok, err
}

func (b *MeteredBuilder) AppendHTML(markup string) (tree.Bounds, error) {
	bounds, err := b.next.AppendHTML(markup)
	b.record(OpAppendHTML, err)
	return bounds, err
}

// Finish forwards to the wrapped builder and observes the session
// duration. Only the first call is observed.
func (b *MeteredBuilder) Finish() error {
	err := b.next.Finish()
	b.record(OpFinish, err)

	status := "success"
	if b.failed {
		status = "error"
	}
	b.end(status)
	return err
}

// Close ends a session that was abandoned before Finish. It does not call
// the wrapped builder. Close after Finish is a no-op.
func (b *MeteredBuilder) Close() error {
	status := "abandoned"
	if b.failed {
		status = "error"
	}
	b.end(status)
	return nil
}

func (b *MeteredBuilder) end(status string) {
	b.doneOnce.Do(func() {
		b.m.sessionDuration.WithLabelValues(b.backend, status).Observe(time.Since(b.start).Seconds())
		b.m.activeSessions.Dec()
	})
}

type countingWriter struct {
	w       io.Writer
	counter prometheus.Counter
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.counter.Add(float64(n))
	return n, err
}
