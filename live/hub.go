package live

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Hub tracks connected clients and closes them when its context ends.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	count      atomic.Int64
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run returns nil once ctx is done and every client has been closed.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			h.logger.Debug("live client registered", slog.String("client_id", client.ID.String()), slog.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.count.Store(int64(len(h.clients)))
				h.logger.Debug("live client unregistered", slog.String("client_id", client.ID.String()), slog.Int("clients", len(h.clients)))
			}
			client.close()

		case <-ctx.Done():
			for client := range h.clients {
				client.close()
				delete(h.clients, client)
			}
			h.count.Store(0)
			h.logger.Info("live hub stopped")
			return nil
		}
	}
}

// Count - число подключённых клиентов.
func (h *Hub) Count() int {
	return int(h.count.Load())
}

func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
		c.close()
	}
}
