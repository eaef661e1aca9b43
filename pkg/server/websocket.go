package server

import (
	"bufio"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/treebuilder/pkg/script"
	"github.com/vango-dev/treebuilder/pkg/sink"
)

// wsChunkSize is the largest HTML message sent over a WebSocket.
const wsChunkSize = 4096

// handleWebSocket renders one script per connection. The client sends the
// script as a single message and receives the HTML as text messages,
// followed by a close frame: 1000 on success, 1008 when the script is
// rejected, 1011 on internal failure.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	backend, ok := s.backend(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(s.config.MaxBodyBytes)

	_, msg, err := conn.ReadMessage()
	if err != nil {
		if websocket.IsUnexpectedCloseError(err,
			websocket.CloseGoingAway,
			websocket.CloseNormalClosure) {
			s.logger.Error("read error", "error", err)
		}
		return
	}

	ws := sink.NewWebSocket(conn, s.config.WriteTimeout)
	buf := bufio.NewWriterSize(ws, wsChunkSize)

	err = s.renderWebSocket(r, buf, backend, msg)
	if flushErr := buf.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		s.logger.Warn("websocket render failed",
			"backend", backend,
			"error", err,
			"request_id", requestID(r))
		ws.CloseWith(closeCodeFor(err), oneLine(err.Error()))
	} else {
		ws.Close()
	}

	// Wait briefly for the client's close frame so it receives ours.
	conn.SetReadDeadline(time.Now().Add(time.Second))
	conn.ReadMessage()
}

func (s *Server) renderWebSocket(r *http.Request, buf *bufio.Writer, backend string, msg []byte) error {
	sc, err := script.Parse("message", msg)
	if err != nil {
		return err
	}
	return s.renderTo(r.Context(), buf, backend, sc.Run)
}

func closeCodeFor(err error) int {
	if statusFor(err) == http.StatusInternalServerError {
		return websocket.CloseInternalServerErr
	}
	return websocket.ClosePolicyViolation
}
