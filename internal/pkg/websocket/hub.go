// Package websocket pushes domain events to connected users.
package websocket

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// notifyBuffer bounds pending notifications before Notify starts dropping
const notifyBuffer = 256

type notification struct {
	userID int64
	data   []byte
}

// Hub maintains the set of active clients keyed by user ID
type Hub struct {
	// Registered clients, a user may hold several connections
	clients map[int64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	notify     chan notification
	// closed when Run returns
	done chan struct{}

	// guards clients for readers outside Run
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		notify:     make(chan notification, notifyBuffer),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves registrations and notifications until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case n := <-h.notify:
			h.deliver(n)
		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}

	h.logger.Info().
		Int64("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client unregistered")
}

func (h *Hub) deliver(n notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[n.userID]
	if !ok {
		return
	}
	for client := range conns {
		select {
		case client.send <- n.data:
		default:
			// slow consumer
			h.logger.Warn().Int64("userID", n.userID).Msg("Client send buffer full, disconnecting")
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for client := range conns {
			h.removeLocked(client)
		}
	}
}

func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Notify queues data for every connection of userID. It never blocks; when
// the queue is full the notification is dropped.
func (h *Hub) Notify(userID int64, data []byte) bool {
	select {
	case h.notify <- notification{userID: userID, data: data}:
		return true
	default:
		h.logger.Warn().Int64("userID", userID).Msg("Notification queue full, dropping")
		return false
	}
}

// ClientCount returns the number of open connections for a user
func (h *Hub) ClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
