package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"skill-hire/internal/domain/user"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

const (
	EventSnapshot           = "snapshot"
	EventWorkerNotification = "worker_notification"
	EventAdminNotification  = "admin_notification"
)

// Envelope is the frame every server message is wrapped in.
type Envelope struct {
	Type      string    `json:"type"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type Client struct {
	id     string
	role   user.Role
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger logrus.FieldLogger

	mu      sync.Mutex
	closed  bool
	onClose []func()
}

func NewClient(hub *Hub, conn *websocket.Conn, role user.Role, log logrus.FieldLogger) *Client {
	id := uuid.NewString()
	return &Client{
		id:     id,
		role:   role,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		logger: log.WithField("client_id", id),
	}
}

// OnClose registers fn to run once when the client is dropped. fn runs
// immediately when the client is already closed.
func (c *Client) OnClose(fn func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		fn()
		return
	}
	c.onClose = append(c.onClose, fn)
	c.mu.Unlock()
}

// Enqueue queues msg without blocking. A client whose buffer is full is
// dropped.
func (c *Client) Enqueue(msg []byte) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	select {
	case c.send <- msg:
		c.mu.Unlock()
		return true
	default:
		c.mu.Unlock()
		c.logger.Warn("ws client too slow, dropping")
		go c.hub.Unregister(c)
		return false
	}
}

func (c *Client) SendEvent(typ string, data any) bool {
	b, err := json.Marshal(Envelope{Type: typ, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		c.logger.WithError(err).WithField("type", typ).Error("ws event not encodable")
		return false
	}
	return c.Enqueue(b)
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	fns := c.onClose
	c.onClose = nil
	c.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ReadPump discards client frames and keeps the read deadline alive. It
// unregisters the client when the connection ends.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WithError(err).Warn("ws read error")
			}
			return
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.WithError(err).Warn("ws write error")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
