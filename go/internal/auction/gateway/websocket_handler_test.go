package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mcdev12/auction/go/internal/auction"
	"github.com/mcdev12/auction/go/internal/ledger"
	"github.com/mcdev12/auction/go/internal/player"
	"github.com/mcdev12/auction/go/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	app     *auction.App
	service *Service
	server  *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	players := player.NewApp(player.NewMemoryRepository(), player.DefaultSeedPlayers())
	require.NoError(t, players.EnsureSeeded(ctx))

	service := NewService(DefaultConfig())
	app := auction.NewApp(
		auction.Config{InitialBudget: 1000},
		ledger.New([]string{"CSK", "MI"}, 1000),
		players,
		results.NewMemoryLog(),
		service.Broadcaster(),
	)

	mux := http.NewServeMux()
	service.RegisterRoutes(mux, app)
	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		service.Stop()
		server.Close()
	})

	return &testServer{app: app, service: service, server: server}
}

func (ts *testServer) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) AuctionEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var e AuctionEvent
	require.NoError(t, conn.ReadJSON(&e))
	return e
}

func TestWebSocket_MidRoundJoinerGetsSnapshotThenLiveEvents(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	_, err := ts.app.StartBidding(ctx, "Virat Kohli")
	require.NoError(t, err)
	_, err = ts.app.PlaceBid(ctx, "CSK", 200)
	require.NoError(t, err)

	conn := ts.dial(t)

	var got []EventType
	for i := 0; i < 4; i++ {
		got = append(got, readEvent(t, conn).Type)
	}
	assert.Equal(t, []EventType{
		EventTypePlayersUpdate,
		EventTypeBudgetsUpdate,
		EventTypeResultsUpdate,
		EventTypeStartBidding,
	}, got)

	_, err = ts.app.PlaceBid(ctx, "MI", 300)
	require.NoError(t, err)

	live := readEvent(t, conn)
	require.Equal(t, EventTypeNewBid, live.Type)
	payload, err := ParseEventPayload(&live)
	require.NoError(t, err)
	bid := payload.(*BidPayload)
	assert.Equal(t, int64(300), bid.HighestBid)
	assert.Equal(t, "MI", *bid.Team)
}

func TestWebSocket_IdleJoinerGetsNoRound(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t)

	players := readEvent(t, conn)
	require.Equal(t, EventTypePlayersUpdate, players.Type)
	payload, err := ParseEventPayload(&players)
	require.NoError(t, err)
	assert.Len(t, payload.(*PlayersUpdatePayload).Players, 5)

	assert.Equal(t, EventTypeBudgetsUpdate, readEvent(t, conn).Type)
	assert.Equal(t, EventTypeResultsUpdate, readEvent(t, conn).Type)

	// Client text is ignored; the next frame is the settlement of a new round.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))

	ctx := context.Background()
	_, err = ts.app.StartBidding(ctx, "Rohit Sharma")
	require.NoError(t, err)
	_, err = ts.app.EndBidding(ctx)
	require.NoError(t, err)

	assert.Equal(t, EventTypeStartBidding, readEvent(t, conn).Type)
	end := readEvent(t, conn)
	assert.Equal(t, EventTypeEndBidding, end.Type)
	assert.JSONEq(t, `{"player":"Rohit Sharma","team":null,"highest_bid":0}`, string(end.Data))
	assert.Equal(t, EventTypeResultsUpdate, readEvent(t, conn).Type)
}

func TestWebSocket_Stats(t *testing.T) {
	ts := newTestServer(t)
	conn := ts.dial(t)
	readEvent(t, conn)

	resp, err := http.Get(ts.server.URL + "/ws/stats")
	require.NoError(t, err)
	defer resp.Body.Close()

	var stats map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 1, stats["total_connections"])
}
