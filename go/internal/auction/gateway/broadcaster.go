package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/auction/go/internal/auction"
	"github.com/rs/zerolog/log"
)

// EventSink receives a copy of every broadcast event. Forward must not block.
type EventSink interface {
	Forward(event *AuctionEvent)
}

// Broadcaster turns auction events into frames and fans them out to every
// registered session. It implements auction.Publisher.
type Broadcaster struct {
	manager *ConnectionManager
	sinks   []EventSink
	clock   clockwork.Clock
}

var _ auction.Publisher = (*Broadcaster)(nil)

// NewBroadcaster creates a broadcaster over the given registry
func NewBroadcaster(manager *ConnectionManager, clock clockwork.Clock, sinks ...EventSink) *Broadcaster {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Broadcaster{
		manager: manager,
		sinks:   sinks,
		clock:   clock,
	}
}

// Publish serializes each event once and enqueues it on every session that is
// registered when the event's broadcast starts. A session that cannot take the
// frame is unregistered and closed; the others are unaffected.
func (b *Broadcaster) Publish(events ...auction.Event) {
	for _, e := range events {
		event, frame, err := b.encode(e)
		if err != nil {
			log.Error().Err(err).Msg("failed to encode auction event")
			continue
		}

		b.deliver(event, frame, b.manager.Snapshot())

		for _, sink := range b.sinks {
			sink.Forward(event)
		}
	}
}

// Join queues the snapshot replay on s and then registers it. Callers run
// this inside auction.App.Join so that the next live event lands right after
// the replay.
func (b *Broadcaster) Join(s Session, snap auction.Snapshot) error {
	if err := b.SnapshotFor(s, snap); err != nil {
		return err
	}
	b.manager.Register(s)
	return nil
}

// SnapshotFor queues the snapshot replay on one session: players, budgets,
// results, then the active round if there is one.
func (b *Broadcaster) SnapshotFor(s Session, snap auction.Snapshot) error {
	for _, e := range snap.Events() {
		event, frame, err := b.encode(e)
		if err != nil {
			return err
		}
		if !s.Enqueue(frame) {
			return fmt.Errorf("session %s rejected %s snapshot frame", s.ID(), event.Type)
		}
	}
	return nil
}

func (b *Broadcaster) encode(e auction.Event) (*AuctionEvent, []byte, error) {
	event, err := NewAuctionEvent(e, b.clock.Now())
	if err != nil {
		return nil, nil, err
	}
	frame, err := json.Marshal(event)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	return event, frame, nil
}

func (b *Broadcaster) deliver(event *AuctionEvent, frame []byte, sessions []Session) {
	for _, s := range sessions {
		if s.Enqueue(frame) {
			continue
		}
		if b.manager.Unregister(s) {
			log.Warn().
				Str("connection_id", s.ID()).
				Str("event_type", string(event.Type)).
				Msg("session queue full or closed, dropping session")
		}
		s.Close()
	}

	log.Debug().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Int("sessions", len(sessions)).
		Msg("broadcast event")
}
