// Package notify delivers fire-and-forget notification events to
// connected users over WebSocket.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/medimarkt/medimarkt-backend/internal/services"
)

// Hub maintains the set of connected clients, keyed by user, and
// fans notification events out to each of a user's connections. It
// implements services.NotificationDispatcher; delivery never blocks
// the caller and delivery failures are logged, not returned.
type Hub struct {
	// Registered clients per user
	userClients map[uint]map[*Client]bool

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Events to deliver
	events chan deliveryRequest

	mu sync.RWMutex

	logger *slog.Logger
}

type deliveryRequest struct {
	userID  uint
	payload []byte
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		userClients: make(map[uint]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		events:      make(chan deliveryRequest, 256),
		logger:      logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.userClients[client.userID] == nil {
				h.userClients[client.userID] = make(map[*Client]bool)
			}
			h.userClients[client.userID][client] = true
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client registered", slog.Uint64("user_id", uint64(client.userID)))
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.userClients[client.userID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.userClients, client.userID)
					}
				}
			}
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("client unregistered", slog.Uint64("user_id", uint64(client.userID)))
			}

		case req := <-h.events:
			h.mu.RLock()
			clients := h.userClients[req.userID]
			for client := range clients {
				select {
				case client.send <- req.payload:
				default:
					// Client buffer full, skip
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Notify delivers a notification event to all of the target user's
// connections. If the event buffer is full the event is dropped; a
// push notification is best-effort and must never stall a request.
func (h *Hub) Notify(ctx context.Context, n services.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to marshal notification", slog.Any("error", err))
		}
		return
	}

	select {
	case h.events <- deliveryRequest{userID: n.TargetUserID, payload: data}:
	default:
		if h.logger != nil {
			h.logger.Warn("notification buffer full, event dropped",
				slog.String("event_id", n.ID),
				slog.Uint64("user_id", uint64(n.TargetUserID)))
		}
	}
}
