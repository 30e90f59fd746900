package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pairpad/internal/models"
)

// writeWait bounds a single frame write so one stalled peer cannot hold a
// session's critical section; var for tests.
var writeWait = 10 * time.Second

// Client wraps one live connection. ID is the participant's handle for the
// lifetime of the connection and is meaningless after disconnect.
type Client struct {
	ID   string
	Conn *websocket.Conn
	mu   sync.Mutex
	hook func(models.WSFrame)
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{ID: uuid.NewString(), Conn: conn}
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.WSFrame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

func (c *Client) Send(frame models.WSFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.Conn == nil {
		return
	}
	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.Conn.WriteJSON(frame); err != nil {
		// a dead or stuck peer is dropped; its read loop will observe the
		// close and run the normal departure path
		_ = c.Conn.Close()
	}
}
