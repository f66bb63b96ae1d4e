// Package realtime broadcasts table change events to subscribed WebSocket
// clients so dashboards re-fetch without polling.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/hiraya-ph/outage-watch/backend/internal/notifications"
)

// Change event actions, mirroring the storage mutations.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// ChangeEvent is one mutation on a named table.
type ChangeEvent struct {
	Table     string      `json:"table"`
	Action    string      `json:"action"`
	Record    interface{} `json:"record"`
	Barangay  string      `json:"-"` // relevance scope, not serialized
	Areas     []string    `json:"-"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub manages WebSocket connections and broadcasting.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan ChangeEvent
	register   chan *Client
	unregister chan *Client

	mu              sync.RWMutex
	connectedCount  int
	lastBroadcastAt time.Time
}

// NewHub creates a hub; call Run in a goroutine before registering clients.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan ChangeEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run is the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.connectedCount = len(h.clients)
			h.mu.Unlock()
			log.WithField("clients", h.connectedCount).Info("realtime client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.connectedCount = len(h.clients)
			}
			h.mu.Unlock()
			log.WithField("clients", h.connectedCount).Info("realtime client disconnected")

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				log.WithError(err).Error("failed to marshal change event")
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if !client.wants(event) {
					continue
				}
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.connectedCount = len(h.clients)
			h.lastBroadcastAt = event.Timestamp
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a change event for delivery to matching clients.
func (h *Hub) Broadcast(event ChangeEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	h.broadcast <- event
}

// Stats returns the connected client count and last broadcast time.
func (h *Hub) Stats() (int, time.Time) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.connectedCount, h.lastBroadcastAt
}

// wants applies the client's optional column filter: a client subscribed to
// a barangay only receives events scoped to it.
func (c *Client) wants(event ChangeEvent) bool {
	if c.table != "" && c.table != event.Table {
		return false
	}
	if c.barangay == "" || event.Barangay == "" {
		return true
	}
	return notifications.Relevant(c.barangay, announcementScope(event))
}
