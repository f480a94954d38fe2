package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/brandonnguyen11/rosterAI/pkg/events"
	"github.com/brandonnguyen11/rosterAI/pkg/services"
)

// RosterEventsHandler upgrades clients to a WebSocket that receives the full
// roster on connect and again after every change.
type RosterEventsHandler struct {
	hub           *events.Hub
	rosterService services.RosterService
	upgrader      websocket.Upgrader
	ctx           context.Context
	logger        *zap.Logger
}

// NewRosterEventsHandler creates a new RosterEventsHandler. Connections live
// until ctx is canceled or the peer disconnects. allowedOrigins follows the
// CORS setting; "*" accepts any origin.
func NewRosterEventsHandler(ctx context.Context, hub *events.Hub, rosterService services.RosterService, allowedOrigins []string, logger *zap.Logger) *RosterEventsHandler {
	return &RosterEventsHandler{
		hub:           hub,
		rosterService: rosterService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		ctx:    ctx,
		logger: logger,
	}
}

// RegisterRoutes registers the events handler's routes on the given mux.
func (h *RosterEventsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/roster/events", h.Subscribe)
}

// Subscribe handles GET /api/roster/events.
func (h *RosterEventsHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Debug("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := events.NewClient(uuid.NewString(), conn, h.hub, h.logger)

	// The snapshot is read under the hub lock so no roster change can slip
	// between it and the first broadcast.
	ctx := r.Context()
	h.hub.RegisterWithSnapshot(client, func() events.Message {
		return events.Message{
			Type:      events.TypeRosterSnapshot,
			Roster:    h.rosterService.View(ctx),
			Timestamp: time.Now().UTC(),
		}
	})

	go client.WritePump(h.ctx)
	go client.ReadPump(h.ctx)
}

func originChecker(allowed []string) func(*http.Request) bool {
	allowAll := len(allowed) == 0
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			allowAll = true
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		if allowAll {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Native mobile clients send no Origin.
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
