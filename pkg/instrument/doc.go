// Package instrument decorates tree builders with Prometheus metrics and
// OpenTelemetry tracing.
//
// Both decorators implement tree.Builder and forward every call to the
// wrapped backend, so they can be stacked:
//
//	m := instrument.NewMetrics(instrument.WithNamespace("docs"))
//	b := instrument.Trace(ctx, m.Wrap(stream.New(w), "stream"), "stream")
//	defer b.Close()
//
// A session ends at its first Finish or Close. Callers that may return
// before Finish should defer Close so the span ends and the session gauge
// is released; the status label is then "error" or "abandoned".
//
// Metrics collected:
//   - treebuilder_ops_total: Counter of builder calls by backend and op
//   - treebuilder_errors_total: Counter of failed calls by backend and kind
//   - treebuilder_bytes_written_total: Counter of sink bytes by backend
//   - treebuilder_session_duration_seconds: Histogram from Wrap to Finish or Close
//   - treebuilder_active_sessions: Gauge of sessions not yet finished
package instrument
