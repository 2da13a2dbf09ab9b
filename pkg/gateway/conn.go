package gateway

import (
	"sync"

	"github.com/gorilla/websocket"

	pkgerrors "codegate/pkg/errors"
)

// Conn is one accepted WebSocket session
type Conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
	mu      sync.RWMutex
	closed  bool
}

func newConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// WriteJSON sends a JSON text frame. Writes are serialized per connection.
func (c *Conn) WriteJSON(v any) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return pkgerrors.ErrConnClosed
	}
	c.mu.RUnlock()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteJSON(v)
}

// Close closes the underlying transport once
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	return c.ws.Close()
}

// RemoteAddr returns the peer address for logging
func (c *Conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}
