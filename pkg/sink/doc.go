// Package sink provides io.Writer destinations for the streaming tree
// backend.
//
// Three sinks are available:
//
//   - FlushWriter pushes bytes to HTTP clients as they are produced,
//     flushing the underlying http.Flusher once enough output accumulated.
//   - WebSocket sends each write as a text message on a gorilla/websocket
//     connection.
//   - S3Object buffers the document and uploads it with PutObject when
//     closed.
//
// Example:
//
//	fw := sink.NewFlushWriter(w, 0)
//	b := stream.New(fw)
//	// ... drive b ...
//	fw.Flush()
package sink
