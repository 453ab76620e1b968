// Command auction-tail durably follows the relayed auction event stream and logs every event.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mcdev12/auction/go/internal/auction/gateway"
	"github.com/mcdev12/auction/go/internal/auction/relay"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	config := relay.DefaultConsumerConfig()
	config.URL = getEnv("NATS_URL", config.URL)
	config.ConsumerName = getEnv("TAIL_CONSUMER", config.ConsumerName)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	consumer, err := relay.NewEventConsumer(ctx, config, logEvent)
	if err != nil {
		log.Fatal().Err(err).Str("nats_url", config.URL).Msg("failed to create event consumer")
	}
	defer consumer.Stop()

	log.Info().
		Str("nats_url", config.URL).
		Str("stream", config.StreamName).
		Msg("tailing auction events")

	if err := consumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("event consumer failed")
	}
}

func logEvent(_ context.Context, event *gateway.AuctionEvent) error {
	log.Info().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Time("timestamp", event.Timestamp).
		RawJSON("data", event.Data).
		Msg("auction event")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
