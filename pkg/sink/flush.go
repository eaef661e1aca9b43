package sink

import (
	"io"
	"net/http"
)

// DefaultFlushThreshold is the number of bytes written between flushes.
const DefaultFlushThreshold = 512

// FlushWriter wraps an io.Writer and flushes it whenever at least
// threshold bytes have been written since the last flush. If the writer
// does not implement http.Flusher, FlushWriter only forwards writes.
type FlushWriter struct {
	w         io.Writer
	flusher   http.Flusher
	threshold int
	pending   int
	written   int64
}

// NewFlushWriter creates a FlushWriter. A threshold of zero or less uses
// DefaultFlushThreshold; pass 1 to flush after every write.
func NewFlushWriter(w io.Writer, threshold int) *FlushWriter {
	if threshold <= 0 {
		threshold = DefaultFlushThreshold
	}
	flusher, _ := w.(http.Flusher)
	return &FlushWriter{
		w:         w,
		flusher:   flusher,
		threshold: threshold,
	}
}

// Write implements io.Writer.
func (f *FlushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	f.pending += n
	f.written += int64(n)
	if err != nil {
		return n, err
	}
	if f.pending >= f.threshold {
		f.Flush()
	}
	return n, nil
}

// Flush flushes the writer if it supports flushing.
func (f *FlushWriter) Flush() {
	f.pending = 0
	if f.flusher != nil {
		f.flusher.Flush()
	}
}

// Written returns the total number of bytes forwarded.
func (f *FlushWriter) Written() int64 {
	return f.written
}

// FlushableWriter wraps an io.Writer with optional flushing capability.
// This is useful for testing streaming behavior without using
// http.ResponseWriter.
type FlushableWriter struct {
	io.Writer
	FlushCount int
}

// Flush implements http.Flusher.
func (w *FlushableWriter) Flush() {
	w.FlushCount++
}
