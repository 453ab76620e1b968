package relay

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/auction/go/internal/auction"
	"github.com/mcdev12/auction/go/internal/auction/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	mu       sync.Mutex
	failures int
	calls    int
	ids      []string
	done     chan struct{}
	want     int
}

func (s *stubPublisher) PublishEvent(_ context.Context, event *gateway.AuctionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failures > 0 {
		s.failures--
		return errors.New("nats unavailable")
	}
	s.ids = append(s.ids, event.ID)
	if len(s.ids) == s.want {
		close(s.done)
	}
	return nil
}

func newEvent(t *testing.T, e auction.Event) *gateway.AuctionEvent {
	t.Helper()
	event, err := gateway.NewAuctionEvent(e, time.Now())
	require.NoError(t, err)
	return event
}

func TestRelay_DropsWhenQueueFull(t *testing.T) {
	r := New(&stubPublisher{}, clockwork.NewFakeClock(), Config{QueueSize: 2, MaxAttempts: 1})

	for i := 0; i < 5; i++ {
		r.Forward(newEvent(t, auction.DataCleared{}))
	}

	published, dropped := r.Stats()
	assert.Equal(t, int64(0), published)
	assert.Equal(t, int64(3), dropped)
}

func TestRelay_PublishesInOrder(t *testing.T) {
	pub := &stubPublisher{done: make(chan struct{}), want: 3}
	r := New(pub, clockwork.NewFakeClock(), Config{QueueSize: 10, MaxAttempts: 1})

	events := []*gateway.AuctionEvent{
		newEvent(t, auction.RoundStarted{Player: "Virat Kohli"}),
		newEvent(t, auction.BidAccepted{Player: "Virat Kohli", Amount: 10, Team: "CSK"}),
		newEvent(t, auction.RoundSettled{Player: "Virat Kohli", Team: "CSK", Amount: 10}),
	}
	for _, e := range events {
		r.Forward(e)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Start(ctx)

	select {
	case <-pub.done:
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not publish all events")
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, []string{events[0].ID, events[1].ID, events[2].ID}, pub.ids)
}

func TestRelay_RetriesAfterWait(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pub := &stubPublisher{failures: 1, done: make(chan struct{}), want: 1}
	r := New(pub, clock, Config{QueueSize: 1, MaxAttempts: 2, RetryWait: time.Second})

	r.Forward(newEvent(t, auction.DataCleared{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Start(ctx)

	clock.BlockUntil(1)
	clock.Advance(time.Second)

	select {
	case <-pub.done:
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not retry")
	}

	published, dropped := r.Stats()
	assert.Equal(t, int64(1), published)
	assert.Equal(t, int64(0), dropped)
}

func TestDecodeEvent(t *testing.T) {
	event := newEvent(t, auction.RoundUnsold{Player: "Ravindra Jadeja"})
	data, err := json.Marshal(event)
	require.NoError(t, err)

	decoded, err := DecodeEvent(data)
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, gateway.EventTypeEndBidding, decoded.Type)

	_, err = DecodeEvent([]byte(`{"type":"bogus","data":{}}`))
	assert.Error(t, err)
}

func TestJetStreamConfig(t *testing.T) {
	cfg := DefaultJetStreamConfig()
	assert.Equal(t, "auction.events.new_bid", cfg.Subject(gateway.EventTypeNewBid))

	sc := cfg.streamConfig()
	assert.Equal(t, "AUCTION_EVENTS", sc.Name)
	assert.Equal(t, []string{"auction.events.>"}, sc.Subjects)
	assert.Equal(t, 24*time.Hour, sc.MaxAge)
	assert.Equal(t, 2*time.Minute, sc.Duplicates)
}
