package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Baptiste-Ntr/spe-dev-4-sub000/internal/models"
)

// Client wraps one live WebSocket connection. ConnID is unique per socket
// and is the key every table in the engine uses.
type Client struct {
	ConnID string
	Conn   *websocket.Conn
	mu     sync.Mutex
	hook   func(models.Frame)
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{ConnID: uuid.New().String(), Conn: conn}
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.Frame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

// Send writes a frame to the client. A write error closes the connection so
// the reader goroutine observes the failure and runs the disconnect cascade.
func (c *Client) Send(frame models.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.Conn == nil {
		return
	}
	if err := c.Conn.WriteJSON(frame); err != nil {
		_ = c.Conn.Close()
	}
}
