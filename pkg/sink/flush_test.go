package sink

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlushWriterThreshold(t *testing.T) {
	var buf bytes.Buffer
	fw := &FlushableWriter{Writer: &buf}
	w := NewFlushWriter(fw, 4)

	_, err := w.Write([]byte("<p"))
	require.NoError(t, err)
	assert.Equal(t, 0, fw.FlushCount)

	_, err = w.Write([]byte(">hi"))
	require.NoError(t, err)
	assert.Equal(t, 1, fw.FlushCount)

	_, err = w.Write([]byte("<"))
	require.NoError(t, err)
	assert.Equal(t, 1, fw.FlushCount)

	w.Flush()
	assert.Equal(t, 2, fw.FlushCount)
	assert.Equal(t, "<p>hi<", buf.String())
	assert.Equal(t, int64(6), w.Written())
}

func TestFlushWriterDefaultThreshold(t *testing.T) {
	fw := &FlushableWriter{Writer: &bytes.Buffer{}}
	w := NewFlushWriter(fw, 0)

	_, err := w.Write(make([]byte, DefaultFlushThreshold-1))
	require.NoError(t, err)
	assert.Equal(t, 0, fw.FlushCount)

	_, err = w.Write([]byte{'x'})
	require.NoError(t, err)
	assert.Equal(t, 1, fw.FlushCount)
}

func TestFlushWriterWithoutFlusher(t *testing.T) {
	var buf bytes.Buffer
	w := NewFlushWriter(&buf, 1)

	_, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	w.Flush()
	assert.Equal(t, "abc", buf.String())
}

func TestFlushWriterResponseRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewFlushWriter(rec, 1)

	_, err := w.Write([]byte("<div>"))
	require.NoError(t, err)
	assert.True(t, rec.Flushed)
	assert.Equal(t, "<div>", rec.Body.String())
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("boom") }

func TestFlushWriterPropagatesErrors(t *testing.T) {
	fw := &FlushableWriter{Writer: errWriter{}}
	w := NewFlushWriter(fw, 1)

	_, err := w.Write([]byte("x"))
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 0, fw.FlushCount)
}
