package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/auction/go/internal/auction"
	"github.com/mcdev12/auction/go/internal/auction/gateway"
	"github.com/mcdev12/auction/go/internal/auction/relay"
	"github.com/mcdev12/auction/go/internal/ledger"
	"github.com/mcdev12/auction/go/internal/player"
	"github.com/mcdev12/auction/go/internal/results"
	"github.com/rs/zerolog/log"
)

type Services struct {
	App     *auction.App
	Auction *auction.Service
	REST    *auction.HTTPHandler
	Gateway *gateway.Service

	// Relay is nil when NATS_URL is not set
	Relay     *relay.Relay
	publisher *relay.JetStreamPublisher
	database  *sql.DB
}

// Options are the runtime knobs read from the environment
type Options struct {
	Store            string
	NATSURL          string
	ConnectionConfig gateway.ConnectionConfig
}

func setupServices(ctx context.Context, config *Config, opts Options) (*Services, error) {
	// Wire up dependency injection chain
	// Store → App layer → Gateway/Service layer
	clock := clockwork.NewRealClock()
	services := &Services{}

	var (
		playerRepo player.PlayerRepository
		resultLog  results.Log
	)
	switch opts.Store {
	case "postgres":
		database, err := setupDatabase(ctx)
		if err != nil {
			return nil, err
		}
		services.database = database
		playerRepo = player.NewRepository(database)
		resultLog = results.NewRepository(database)
	case "memory", "":
		playerRepo = player.NewMemoryRepository()
		resultLog = results.NewMemoryLog()
	default:
		return nil, fmt.Errorf("unknown STORE %q", opts.Store)
	}

	// Players
	playerApp := player.NewApp(playerRepo, config.Players())
	if err := playerApp.EnsureSeeded(ctx); err != nil {
		services.Close()
		return nil, err
	}

	// Event relay
	var sinks []gateway.EventSink
	if opts.NATSURL != "" {
		jsConfig := relay.DefaultJetStreamConfig()
		jsConfig.URL = opts.NATSURL
		publisher, err := relay.NewJetStreamPublisher(ctx, jsConfig)
		if err != nil {
			services.Close()
			return nil, fmt.Errorf("failed to create event relay: %w", err)
		}
		services.publisher = publisher
		services.Relay = relay.New(publisher, clock, relay.DefaultConfig())
		sinks = append(sinks, services.Relay)
	}

	// Gateway
	services.Gateway = gateway.NewService(gateway.Config{
		ConnectionConfig: opts.ConnectionConfig,
		Clock:            clock,
	}, sinks...)

	// Auction
	services.App = auction.NewApp(
		auction.Config{InitialBudget: config.Auction.InitialBudget},
		ledger.New(config.Auction.Teams, config.Auction.InitialBudget),
		playerApp,
		resultLog,
		services.Gateway.Broadcaster(),
		auction.WithClock(clock),
	)
	services.Auction = auction.NewService(services.App)
	services.REST = auction.NewHTTPHandler(services.App)

	log.Info().
		Str("store", opts.Store).
		Strs("teams", config.Auction.Teams).
		Int64("initial_budget", config.Auction.InitialBudget).
		Bool("relay", services.Relay != nil).
		Msg("services ready")

	return services, nil
}

// Close releases the database and NATS connections
func (s *Services) Close() {
	if s.publisher != nil {
		s.publisher.Close()
	}
	if s.database != nil {
		s.database.Close()
	}
}
