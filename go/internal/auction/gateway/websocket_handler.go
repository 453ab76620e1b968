package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mcdev12/auction/go/internal/auction"
	"github.com/rs/zerolog/log"
)

// Joiner hands a consistent auction snapshot to fn
type Joiner interface {
	Join(ctx context.Context, fn func(auction.Snapshot) error) error
}

// WebSocketHandler handles WebSocket upgrade requests for auction sessions
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	broadcaster       *Broadcaster
	joiner            Joiner
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager, b *Broadcaster, joiner Joiner) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		broadcaster:       b,
		joiner:            joiner,
	}
}

// HandleConnection upgrades the request and joins the new session
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	err := h.connectionManager.UpgradeConnection(w, r, func(c *Connection) error {
		// The upgrade has hijacked the request; its context is no longer tied to the client.
		return h.joiner.Join(context.Background(), func(snap auction.Snapshot) error {
			return h.broadcaster.Join(c, snap)
		})
	})
	if err != nil {
		// The upgrader has already written an error response if the handshake failed.
		log.Error().
			Err(err).
			Str("remote_addr", r.RemoteAddr).
			Msg("failed to open WebSocket session")
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(h.connectionManager.GetConnectionStats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleConnection)
	mux.HandleFunc("GET /ws/stats", h.HandleConnectionStats)
}
