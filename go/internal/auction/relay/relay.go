package relay

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/auction/go/internal/auction/gateway"
	"github.com/rs/zerolog/log"
)

// EventPublisher is where relayed events end up
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *gateway.AuctionEvent) error
}

// Config controls the relay queue
type Config struct {
	QueueSize   int
	MaxAttempts int
	RetryWait   time.Duration
}

func DefaultConfig() Config {
	return Config{
		QueueSize:   1024,
		MaxAttempts: 3,
		RetryWait:   500 * time.Millisecond,
	}
}

// Relay mirrors broadcast events to an EventPublisher. Forward never blocks:
// when the queue is full the event is dropped and counted.
type Relay struct {
	publisher EventPublisher
	queue     chan *gateway.AuctionEvent
	clock     clockwork.Clock
	config    Config

	published atomic.Int64
	dropped   atomic.Int64
}

var _ gateway.EventSink = (*Relay)(nil)

func New(publisher EventPublisher, clock clockwork.Clock, cfg Config) *Relay {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Relay{
		publisher: publisher,
		queue:     make(chan *gateway.AuctionEvent, cfg.QueueSize),
		clock:     clock,
		config:    cfg,
	}
}

// Forward queues an event for publishing
func (r *Relay) Forward(event *gateway.AuctionEvent) {
	select {
	case r.queue <- event:
	default:
		r.dropped.Add(1)
		log.Warn().
			Str("event_id", event.ID).
			Str("event_type", string(event.Type)).
			Msg("relay queue full, dropping event")
	}
}

// Start publishes queued events in order until ctx is cancelled
func (r *Relay) Start(ctx context.Context) error {
	log.Info().Int("queue_size", r.config.QueueSize).Msg("starting event relay")
	for {
		select {
		case <-ctx.Done():
			log.Info().
				Int64("published", r.published.Load()).
				Int64("dropped", r.dropped.Load()).
				Msg("event relay shutting down")
			return nil
		case event := <-r.queue:
			r.publish(ctx, event)
		}
	}
}

func (r *Relay) publish(ctx context.Context, event *gateway.AuctionEvent) {
	for attempt := 1; ; attempt++ {
		err := r.publisher.PublishEvent(ctx, event)
		if err == nil {
			r.published.Add(1)
			return
		}
		if attempt >= r.config.MaxAttempts || ctx.Err() != nil {
			r.dropped.Add(1)
			log.Error().
				Err(err).
				Str("event_id", event.ID).
				Int("attempts", attempt).
				Msg("failed to relay event")
			return
		}

		log.Warn().Err(err).Str("event_id", event.ID).Int("attempt", attempt).Msg("relay publish failed, retrying")
		select {
		case <-ctx.Done():
			r.dropped.Add(1)
			return
		case <-r.clock.After(r.config.RetryWait):
		}
	}
}

// Stats returns publish counters
func (r *Relay) Stats() (published, dropped int64) {
	return r.published.Load(), r.dropped.Load()
}
