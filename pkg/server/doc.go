// Package server exposes tree builders over HTTP and WebSocket.
//
// Routes:
//
//	GET  /healthz    liveness check
//	POST /render     run a call script; ?backend=stream|dom
//	POST /markdown   render Markdown; ?backend=stream|dom&page=1&title=...
//	GET  /ws         WebSocket: send a script, receive HTML messages
//	GET  /metrics    Prometheus metrics (when configured)
//
// With the stream backend, output is flushed to the client while the
// script runs. Failures after the first byte are reported in the
// X-Render-Error trailer. The dom backend materializes the tree first and
// answers 422 when the script is rejected.
//
// Example:
//
//	srv := server.New(&server.Config{Backend: "stream"})
//	if err := srv.Run(ctx, ":8080"); err != nil {
//	    log.Fatal(err)
//	}
package server
