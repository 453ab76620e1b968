package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mcdev12/auction/go/internal/auction/gateway"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// JetStreamConfig describes the NATS connection and the stream relayed events land in
type JetStreamConfig struct {
	URL           string
	StreamName    string
	SubjectPrefix string
	// Retention keeps one auction day of events; DedupWindow must cover the relay's retries.
	Retention   time.Duration
	DedupWindow time.Duration
}

func DefaultJetStreamConfig() JetStreamConfig {
	return JetStreamConfig{
		URL:           nats.DefaultURL,
		StreamName:    "AUCTION_EVENTS",
		SubjectPrefix: "auction.events",
		Retention:     24 * time.Hour,
		DedupWindow:   2 * time.Minute,
	}
}

// Subject returns the subject an event of the given type is published on
func (c JetStreamConfig) Subject(eventType gateway.EventType) string {
	return c.SubjectPrefix + "." + string(eventType)
}

func (c JetStreamConfig) streamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:        c.StreamName,
		Description: "Live auction events",
		Subjects:    []string{c.SubjectPrefix + ".>"},
		Storage:     jetstream.FileStorage,
		MaxAge:      c.Retention,
		Duplicates:  c.DedupWindow,
	}
}

// connect dials NATS with unlimited reconnects and opens a JetStream handle
func connect(url string) (*nats.Conn, jetstream.JetStream, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create JetStream context: %w", err)
	}
	return nc, js, nil
}

// JetStreamPublisher writes auction events to a JetStream stream
type JetStreamPublisher struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	config JetStreamConfig
}

// NewJetStreamPublisher connects and creates the stream, or brings an existing one up to date
func NewJetStreamPublisher(ctx context.Context, cfg JetStreamConfig) (*JetStreamPublisher, error) {
	nc, js, err := connect(cfg.URL)
	if err != nil {
		return nil, err
	}

	stream, err := js.CreateOrUpdateStream(ctx, cfg.streamConfig())
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create or update stream %s: %w", cfg.StreamName, err)
	}
	log.Info().
		Str("stream", cfg.StreamName).
		Uint64("messages", stream.CachedInfo().State.Msgs).
		Msg("auction event stream ready")

	return &JetStreamPublisher{nc: nc, js: js, config: cfg}, nil
}

// PublishEvent publishes one event. The event ID doubles as the JetStream
// message ID so a retried publish is deduplicated by the server.
func (p *JetStreamPublisher) PublishEvent(ctx context.Context, event *gateway.AuctionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := nats.NewMsg(p.config.Subject(event.Type))
	msg.Data = data
	msg.Header.Set("Event-Type", string(event.Type))

	ack, err := p.js.PublishMsg(ctx, msg,
		jetstream.WithMsgID(event.ID),
		jetstream.WithExpectStream(p.config.StreamName),
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.ID, err)
	}

	log.Debug().
		Str("subject", msg.Subject).
		Str("event_id", event.ID).
		Uint64("sequence", ack.Sequence).
		Bool("duplicate", ack.Duplicate).
		Msg("relayed event")
	return nil
}

func (p *JetStreamPublisher) Close() error {
	p.nc.Close()
	return nil
}
