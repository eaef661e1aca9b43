package sink

import (
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned by writes to a sink that was already closed.
var ErrClosed = errors.New("sink: closed")

// maxCloseReason is the longest close reason a control frame can carry.
const maxCloseReason = 123

// WebSocket is an io.Writer that sends every Write as one text message.
//
// gorilla/websocket supports one concurrent writer per connection, so
// writes and Close are serialized.
type WebSocket struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
	closed       bool
	messages     int
}

// NewWebSocket wraps conn. A zero writeTimeout disables write deadlines.
func NewWebSocket(conn *websocket.Conn, writeTimeout time.Duration) *WebSocket {
	return &WebSocket{conn: conn, writeTimeout: writeTimeout}
}

// Write implements io.Writer.
func (s *WebSocket) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if s.writeTimeout > 0 {
		s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	s.messages++
	return len(p), nil
}

// Messages returns the number of messages sent.
func (s *WebSocket) Messages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messages
}

// Close sends a normal closure frame. It does not close the connection.
func (s *WebSocket) Close() error {
	return s.CloseWith(websocket.CloseNormalClosure, "")
}

// CloseWith sends a close frame with the given code and reason. Reasons
// longer than a control frame allows are truncated.
func (s *WebSocket) CloseWith(code int, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if len(reason) > maxCloseReason {
		reason = reason[:maxCloseReason]
		for !utf8.ValidString(reason) {
			reason = reason[:len(reason)-1]
		}
	}
	deadline := time.Now().Add(time.Second)
	if s.writeTimeout > 0 {
		deadline = time.Now().Add(s.writeTimeout)
	}
	return s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason), deadline)
}
