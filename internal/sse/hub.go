package sse

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// EventType defines the SSE event name.
type EventType string

const (
	EventSignedOut      EventType = "session.signed_out"
	EventTenantSwitched EventType = "tenant.switched"
	EventProductCreated EventType = "product.created"
	EventProductUpdated EventType = "product.updated"
	EventProductDeleted EventType = "product.deleted"
	EventSubscription   EventType = "subscription.updated"
)

// Event is the payload pushed to dashboard clients. Exactly one of UserID or
// TenantID addresses it.
type Event struct {
	Event     EventType   `json:"event"`
	UserID    string      `json:"userId,omitempty"`
	TenantID  string      `json:"tenantId,omitempty"`
	Message   string      `json:"message,omitempty"`
	Redirect  string      `json:"redirect,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client represents a connected dashboard tab.
type Client struct {
	ID       string
	UserID   string
	TenantID string
	Events   chan []byte
}

// Hub manages SSE client connections and fan-out.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a new SSE hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register adds a new client and returns it for streaming.
func (h *Hub) Register(clientID, userID, tenantID string) *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &Client{
		ID:       clientID,
		UserID:   userID,
		TenantID: tenantID,
		Events:   make(chan []byte, 64),
	}
	h.clients[clientID] = c
	log.Info().Str("client_id", clientID).Str("user_id", userID).Int("total_clients", len(h.clients)).Msg("SSE client connected")
	return c
}

// Unregister removes a client and closes its channel.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		close(c.Events)
		delete(h.clients, clientID)
		log.Info().Str("client_id", clientID).Int("total_clients", len(h.clients)).Msg("SSE client disconnected")
	}
}

// Retarget moves every client of userID to tenantID after a tenant switch.
func (h *Hub) Retarget(userID, tenantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.clients {
		if c.UserID == userID {
			c.TenantID = tenantID
		}
	}
}

// Publish delivers an event to the clients it addresses.
// Non-blocking: drops the message if a client buffer is full.
func (h *Hub) Publish(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal SSE event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		if !addressed(c, event) {
			continue
		}
		select {
		case c.Events <- data:
		default:
			log.Warn().Str("client_id", c.ID).Str("event", string(event.Event)).Msg("SSE client buffer full, dropping event")
		}
	}
}

func addressed(c *Client, e *Event) bool {
	if e.UserID != "" {
		return c.UserID == e.UserID
	}
	return e.TenantID != "" && c.TenantID == e.TenantID
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
