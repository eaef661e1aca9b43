package instrument

import (
	"bytes"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vango-dev/treebuilder/pkg/dom"
	"github.com/vango-dev/treebuilder/pkg/stream"
	"github.com/vango-dev/treebuilder/pkg/tree"
)

func newTestMetrics(t *testing.T) (*Metrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewMetrics(WithRegistry(reg), WithNamespace("test")), reg
}

func TestMetricsCountsOperations(t *testing.T) {
	m, _ := newTestMetrics(t)

	var buf bytes.Buffer
	b := m.Wrap(stream.New(m.CountWriter(&buf, "stream")), "stream")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.activeSessions))

	_, err := b.OpenElement("p", "")
	require.NoError(t, err)
	require.NoError(t, b.SetAttribute("id", "x"))
	_, err = b.AppendText("hi")
	require.NoError(t, err)
	require.NoError(t, b.CloseElement())
	require.NoError(t, b.Finish())

	assert.Equal(t, `<p id="x">hi</p>`, buf.String())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.opsTotal.WithLabelValues("stream", OpOpenElement)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.opsTotal.WithLabelValues("stream", OpAppendText)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.opsTotal.WithLabelValues("stream", OpFinish)))
	assert.Equal(t, float64(buf.Len()), testutil.ToFloat64(m.bytesWritten.WithLabelValues("stream")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.activeSessions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.sessionDuration))
}

func TestMetricsCountsErrors(t *testing.T) {
	m, _ := newTestMetrics(t)
	b := m.Wrap(dom.New(), "dom")

	err := b.CloseElement()
	require.Error(t, err)
	_, err = b.OpenElement("", "")
	require.ErrorIs(t, err, tree.ErrInvalidName)

	_, err = b.OpenElement("div", "")
	require.NoError(t, err)
	require.Error(t, b.Finish())
	require.Error(t, b.Finish())

	assert.Equal(t, float64(3), testutil.ToFloat64(m.errorsTotal.WithLabelValues("dom", "mismatch")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.errorsTotal.WithLabelValues("dom", "invalid_name")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.opsTotal.WithLabelValues("dom", OpFinish)))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.activeSessions), "session observed once")
}

func TestMetricsCloseAbandonedSession(t *testing.T) {
	tests := []struct {
		name   string
		drive  func(b *MeteredBuilder)
		status string
	}{
		{
			name:   "failed call",
			drive:  func(b *MeteredBuilder) { _ = b.CloseElement() },
			status: "error",
		},
		{
			name: "no failure",
			drive: func(b *MeteredBuilder) {
				_, _ = b.OpenElement("p", "")
			},
			status: "abandoned",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, reg := newTestMetrics(t)
			b := m.Wrap(dom.New(), "dom")
			tt.drive(b)

			require.NoError(t, b.Close())
			require.NoError(t, b.Close())
			assert.Equal(t, float64(0), testutil.ToFloat64(m.activeSessions))
			assert.Equal(t, 1, testutil.CollectAndCount(m.sessionDuration))
			assert.Equal(t, []string{tt.status}, durationStatuses(t, reg))
		})
	}
}

func TestMetricsCloseAfterFinish(t *testing.T) {
	m, reg := newTestMetrics(t)
	b := m.Wrap(dom.New(), "dom")

	require.NoError(t, b.Finish())
	require.NoError(t, b.Close())

	assert.Equal(t, float64(0), testutil.ToFloat64(m.activeSessions))
	assert.Equal(t, 1, testutil.CollectAndCount(m.sessionDuration))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.opsTotal.WithLabelValues("dom", OpFinish)))
	assert.Equal(t, []string{"success"}, durationStatuses(t, reg))
}

// durationStatuses returns the status label of every observed session
// duration series.
func durationStatuses(t *testing.T, reg *prometheus.Registry) []string {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var statuses []string
	for _, mf := range families {
		if mf.GetName() != "test_session_duration_seconds" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "status" {
					statuses = append(statuses, label.GetValue())
				}
			}
		}
	}
	return statuses
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&tree.MismatchError{Recent: "p"}, "mismatch"},
		{&tree.FlushError{Attr: "id"}, "flush"},
		{tree.ErrInvalidName, "invalid_name"},
		{errors.New("broken pipe"), "sink"},
	}
	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestMetricsUnwrap(t *testing.T) {
	m, _ := newTestMetrics(t)
	inner := dom.New()
	assert.Same(t, inner, m.Wrap(inner, "dom").Unwrap())
}

func TestNewMetricsRegisters(t *testing.T) {
	_, reg := newTestMetrics(t)
	families, err := reg.Gather()
	require.NoError(t, err)

	// Vectors without observations are not gathered; the gauge always is.
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_active_sessions")
}
