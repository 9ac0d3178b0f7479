package ws

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"skill-hire/internal/pkg/logger"
)

// Hub owns the set of live connections. Registration goes through channels
// so only Run mutates the set.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
	logger     logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		done:       make(chan struct{}),
		logger:     logger.OrDefault(log),
	}
}

// Run serves registrations until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.close()
			}
			h.mutex.Unlock()
			h.logger.Info("ws hub stopped")
			return

		case client := <-h.register:
			if client == nil || client.isClosed() {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.logger.WithFields(logrus.Fields{"client_id": client.id, "role": client.role, "total_clients": total}).Info("ws connected")

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			// Close even when the register has not been served yet; the
			// register branch then drops the closed client.
			h.mutex.Lock()
			delete(h.clients, client)
			total := len(h.clients)
			h.mutex.Unlock()
			client.close()
			h.logger.WithFields(logrus.Fields{"client_id": client.id, "total_clients": total}).Info("ws disconnected")
		}
	}
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	select {
	case <-h.done:
		client.close()
		return
	default:
	}
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

// Unregister may be called from any goroutine, including broker listeners.
func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case <-h.done:
		client.close()
		return
	default:
	}
	select {
	case h.unregister <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
