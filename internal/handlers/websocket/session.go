package websocket

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Session wraps one gorilla connection. It is the transient per-connection
// transport state: owned exclusively by its controller, destroyed on
// disconnect, never persisted.
type Session struct {
	Conn        *websocket.Conn
	ConnectedAt time.Time

	mu     sync.Mutex
	closed bool
}

func NewSession(conn *websocket.Conn) *Session {
	return &Session{
		Conn:        conn,
		ConnectedAt: time.Now(),
	}
}

// Send implements FrameSink. Writes are serialized: the gorilla connection
// does not allow concurrent writers.
func (s *Session) Send(frame interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("session closed")
	}
	return s.Conn.WriteJSON(frame)
}

// Close sends a close frame with the given code and shuts the transport.
// Safe to call more than once.
func (s *Session) Close(code int, reason string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	msg := websocket.FormatCloseMessage(code, reason)
	_ = s.Conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = s.Conn.Close()
}
