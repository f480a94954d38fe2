// Package events pushes roster changes to connected WebSocket clients.
package events

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/metrics"
	"github.com/brandonnguyen11/rosterAI/pkg/models"
)

// Message types.
const (
	TypeRosterSnapshot = "roster.snapshot" // sent once on connect
	TypeRosterUpdated  = "roster.updated"
)

// Message is the envelope written to clients.
type Message struct {
	Type      string             `json:"type"`
	Roster    *models.RosterView `json:"roster"`
	Timestamp time.Time          `json:"timestamp"`
}

// Hub tracks connected clients and fans messages out to them.
// Broadcast never blocks: a client whose buffer is full is dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewHub creates an empty hub. m may be nil.
func NewHub(m *metrics.Metrics, logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		metrics: m,
		logger:  logger.Named("events"),
	}
}

// Register adds a client.
func (h *Hub) Register(c *Client) {
	h.RegisterWithSnapshot(c, nil)
}

// RegisterWithSnapshot queues snapshot() for c and adds it to the hub while
// holding the broadcast lock. Any change committed before the call is in the
// snapshot; any change after it arrives as a later broadcast.
func (h *Hub) RegisterWithSnapshot(c *Client, snapshot func() Message) {
	h.mu.Lock()
	if snapshot != nil {
		c.TrySend(snapshot())
	}
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.metrics.EventClientConnected()
	h.logger.Debug("Event client connected",
		zap.String("client_id", c.ID),
		zap.Int("clients", count))
}

// Unregister removes a client and closes its send channel. Safe to call more
// than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.metrics.EventClientDisconnected()
		h.logger.Debug("Event client disconnected",
			zap.String("client_id", c.ID),
			zap.Int("clients", count))
	}
}

// Broadcast queues msg for every client.
func (h *Hub) Broadcast(msg Message) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.clients {
		if !c.TrySend(msg) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Event client too slow; disconnecting", zap.String("client_id", c.ID))
		h.Unregister(c)
	}
}

// BroadcastRoster sends a roster.updated message carrying view.
func (h *Hub) BroadcastRoster(view *models.RosterView) {
	h.Broadcast(Message{
		Type:      TypeRosterUpdated,
		Roster:    view,
		Timestamp: time.Now().UTC(),
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.Unregister(c)
	}
}
