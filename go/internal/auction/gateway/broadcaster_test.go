package gateway

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/auction/go/internal/auction"
	"github.com/mcdev12/auction/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	id string

	mu     sync.Mutex
	frames [][]byte
	limit  int
	closed bool
}

func newFakeSession(id string, limit int) *fakeSession {
	return &fakeSession{id: id, limit: limit}
}

func (s *fakeSession) ID() string { return s.id }

func (s *fakeSession) Enqueue(msg []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.frames) >= s.limit {
		return false
	}
	s.frames = append(s.frames, msg)
	return true
}

func (s *fakeSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *fakeSession) events(t *testing.T) []AuctionEvent {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]AuctionEvent, 0, len(s.frames))
	for _, f := range s.frames {
		var e AuctionEvent
		require.NoError(t, json.Unmarshal(f, &e))
		out = append(out, e)
	}
	return out
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

type recordingSink struct {
	mu     sync.Mutex
	events []*AuctionEvent
}

func (r *recordingSink) Forward(event *AuctionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func eventTypes(events []AuctionEvent) []EventType {
	out := make([]EventType, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func TestBroadcaster_PublishReachesEverySession(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	cm := NewConnectionManager(DefaultConnectionConfig())
	sink := &recordingSink{}
	b := NewBroadcaster(cm, clock, sink)

	a := newFakeSession("a", 10)
	c := newFakeSession("c", 10)
	cm.Register(a)
	cm.Register(c)

	b.Publish(
		auction.RoundStarted{Player: "Virat Kohli"},
		auction.BidAccepted{Player: "Virat Kohli", Amount: 100, Team: "CSK"},
	)

	for _, s := range []*fakeSession{a, c} {
		events := s.events(t)
		require.Len(t, events, 2)
		assert.Equal(t, []EventType{EventTypeStartBidding, EventTypeNewBid}, eventTypes(events))
		assert.True(t, clock.Now().Equal(events[0].Timestamp))

		payload, err := ParseEventPayload(&events[1])
		require.NoError(t, err)
		bid := payload.(*BidPayload)
		assert.Equal(t, "Virat Kohli", bid.Player)
		assert.Equal(t, int64(100), bid.HighestBid)
		require.NotNil(t, bid.Team)
		assert.Equal(t, "CSK", *bid.Team)
	}

	assert.Len(t, sink.events, 2)
	assert.Equal(t, a.events(t)[0].ID, sink.events[0].ID)
}

func TestBroadcaster_FullSessionIsDropped(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	b := NewBroadcaster(cm, clockwork.NewFakeClock())

	healthy := newFakeSession("healthy", 10)
	slow := newFakeSession("slow", 1)
	cm.Register(healthy)
	cm.Register(slow)

	b.Publish(auction.RoundStarted{Player: "Rohit Sharma"})
	b.Publish(auction.BidAccepted{Player: "Rohit Sharma", Amount: 10, Team: "MI"})
	b.Publish(auction.BidAccepted{Player: "Rohit Sharma", Amount: 20, Team: "RCB"})

	assert.Len(t, healthy.events(t), 3)
	assert.Len(t, slow.events(t), 1)
	assert.True(t, slow.isClosed())
	assert.False(t, healthy.isClosed())
	assert.Equal(t, 1, cm.Count())
}

func TestBroadcaster_UnsoldEndHasNullTeam(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	b := NewBroadcaster(cm, clockwork.NewFakeClock())
	s := newFakeSession("s", 10)
	cm.Register(s)

	b.Publish(auction.RoundUnsold{Player: "Jasprit Bumrah"})

	events := s.events(t)
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeEndBidding, events[0].Type)
	assert.JSONEq(t, `{"player":"Jasprit Bumrah","team":null,"highest_bid":0}`, string(events[0].Data))
}

func TestBroadcaster_JoinReplaysSnapshotInOrder(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	b := NewBroadcaster(cm, clockwork.NewFakeClock())

	player, team := "Hardik Pandya", "KKR"
	snap := auction.Snapshot{
		Players: []models.Player{{Name: player, Role: "All-Rounder", BasePrice: 42000}},
		Budgets: models.Budgets{"KKR": {Budget: 1000}},
		Results: nil,
		Round:   models.AuctionRound{Player: &player, HighestBid: 300, LeadingTeam: &team, IsActive: true},
	}

	s := newFakeSession("joiner", 10)
	require.NoError(t, b.Join(s, snap))
	assert.Equal(t, 1, cm.Count())

	events := s.events(t)
	assert.Equal(t, []EventType{
		EventTypePlayersUpdate,
		EventTypeBudgetsUpdate,
		EventTypeResultsUpdate,
		EventTypeStartBidding,
	}, eventTypes(events))
	assert.JSONEq(t, `{"results":[]}`, string(events[2].Data))
	assert.JSONEq(t, `{"player":"Hardik Pandya","highest_bid":300,"team":"KKR"}`, string(events[3].Data))
}

func TestBroadcaster_JoinFailsWhenQueueTooSmall(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	b := NewBroadcaster(cm, clockwork.NewFakeClock())

	s := newFakeSession("tiny", 2)
	err := b.Join(s, auction.Snapshot{})
	require.Error(t, err)
	assert.Equal(t, 0, cm.Count())
}

func TestConnectionManager_SnapshotIsStable(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	a := newFakeSession("a", 1)
	cm.Register(a)

	snap := cm.Snapshot()
	cm.Register(newFakeSession("b", 1))

	assert.Len(t, snap, 1)
	assert.Equal(t, 2, cm.Count())
	assert.True(t, cm.Unregister(a))
	assert.False(t, cm.Unregister(a))

	cm.CloseAll()
	assert.Equal(t, 0, cm.Count())
}
