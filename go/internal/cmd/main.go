package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mcdev12/auction/go/internal/auction/gateway"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	config, err := loadConfig(os.Getenv("AUCTION_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	connConfig := gateway.DefaultConnectionConfig()
	connConfig.WriteTimeout = getEnvAsDuration("WS_WRITE_TIMEOUT", connConfig.WriteTimeout)
	connConfig.SendBufferSize = getEnvAsInt("WS_SEND_BUFFER", connConfig.SendBufferSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	services, err := setupServices(ctx, config, Options{
		Store:            getEnv("STORE", "memory"),
		NATSURL:          os.Getenv("NATS_URL"),
		ConnectionConfig: connConfig,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup services")
	}
	defer services.Close()

	if services.Relay != nil {
		go func() {
			if err := services.Relay.Start(ctx); err != nil {
				log.Error().Err(err).Msg("event relay failed")
			}
		}()
	}

	gatewayDone := make(chan struct{})
	go func() {
		defer close(gatewayDone)
		if err := services.Gateway.Start(ctx); err != nil {
			log.Error().Err(err).Msg("gateway service failed")
		}
	}()

	server := setupServer(services, getEnv("PORT", "8000"))

	go func() {
		log.Info().Str("addr", server.Addr).Msg("auction server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	// Hijacked WebSocket connections are not closed by Shutdown; the gateway closes them.
	cancel()
	select {
	case <-gatewayDone:
	case <-shutdownCtx.Done():
	}

	log.Info().Msg("auction server shutdown complete")
}
