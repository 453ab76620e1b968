package gateway

import (
	"context"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Service is the auction gateway: the session registry plus the broadcaster
// that feeds it
type Service struct {
	connectionManager *ConnectionManager
	broadcaster       *Broadcaster
}

// Config holds configuration for the auction gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	Clock            clockwork.Clock
}

// DefaultConfig returns default configuration for the auction gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		Clock:            clockwork.NewRealClock(),
	}
}

// NewService creates a new gateway service. Sinks get a copy of every broadcast event.
func NewService(config Config, sinks ...EventSink) *Service {
	connectionManager := NewConnectionManager(config.ConnectionConfig)
	return &Service{
		connectionManager: connectionManager,
		broadcaster:       NewBroadcaster(connectionManager, config.Clock, sinks...),
	}
}

// Broadcaster returns the publisher to hand to auction.App
func (s *Service) Broadcaster() *Broadcaster {
	return s.broadcaster
}

// Start blocks until ctx is cancelled and then closes every session
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting auction gateway service")

	<-ctx.Done()

	log.Info().Msg("auction gateway service shutting down")
	return s.Stop()
}

// Stop closes every session
func (s *Service) Stop() error {
	s.connectionManager.CloseAll()
	log.Info().Msg("auction gateway service stopped")
	return nil
}

// RegisterRoutes registers the WebSocket HTTP routes
func (s *Service) RegisterRoutes(mux *http.ServeMux, joiner Joiner) {
	NewWebSocketHandler(s.connectionManager, s.broadcaster, joiner).RegisterRoutes(mux)
	log.Info().Msg("auction gateway routes registered")
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() map[string]interface{} {
	stats := s.connectionManager.GetConnectionStats()
	stats["service"] = "auction_gateway"
	return stats
}
