package auction

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	api "github.com/mcdev12/auction/go/internal/auction"
	"github.com/mcdev12/auction/go/internal/auction/gateway"
	"github.com/mcdev12/auction/go/internal/ledger"
	"github.com/mcdev12/auction/go/internal/player"
	"github.com/mcdev12/auction/go/internal/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	players := player.NewApp(player.NewMemoryRepository(), player.DefaultSeedPlayers())
	require.NoError(t, players.EnsureSeeded(ctx))

	gw := gateway.NewService(gateway.DefaultConfig())
	app := api.NewApp(api.Config{InitialBudget: 1000}, ledger.New([]string{"CSK", "MI"}, 1000), players, results.NewMemoryLog(), gw.Broadcaster())

	mux := http.NewServeMux()
	api.NewService(app).RegisterRoutes(mux)
	api.NewHTTPHandler(app).RegisterRoutes(mux)
	gw.RegisterRoutes(mux, app)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		gw.Stop()
		server.Close()
	})
	return server
}

func TestClient_Round(t *testing.T) {
	server := newServer(t)
	client := NewClient(server.Client(), server.URL+"/")
	ctx := context.Background()

	players, err := client.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 5)

	_, err = client.PlaceBid(ctx, "CSK", 10)
	require.Error(t, err)
	assert.Equal(t, "InactiveRound", ErrorKind(err))

	_, err = client.StartBidding(ctx, "Jasprit Bumrah")
	require.NoError(t, err)
	msg, err := client.PlaceBid(ctx, "MI", 700)
	require.NoError(t, err)
	assert.Equal(t, "MI placed a bid of ₹700", msg)

	state, err := client.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(700), state.Round.HighestBid)

	settlement, err := client.EndBidding(ctx)
	require.NoError(t, err)
	assert.True(t, settlement.Sold)

	budgets, err := client.ListBudgets(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(300), budgets["MI"].Budget)

	entries, err := client.ListResults(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	msg, err = client.ClearData(ctx)
	require.NoError(t, err)
	assert.Equal(t, "All data cleared and sample players reloaded.", msg)
}

func TestRESTClient_Errors(t *testing.T) {
	server := newServer(t)
	client := NewRESTClient(server.URL)
	ctx := context.Background()

	_, err := client.PlaceBid(ctx, "CSK", 10)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "InactiveRound", apiErr.Code)

	_, err = client.StartBidding(ctx, "Hardik Pandya")
	require.NoError(t, err)
	_, err = client.PlaceBid(ctx, "CSK", 400)
	require.NoError(t, err)
	settlement, err := client.EndBidding(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hardik Pandya sold to CSK for ₹400. Remaining budget: ₹600", settlement.Message)

	budgets, err := client.Budgets(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(600), budgets["CSK"].Budget)
}

func TestWatch_ReceivesSnapshot(t *testing.T) {
	server := newServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []gateway.EventType
	errStop := errors.New("stop")
	err := Watch(ctx, server.URL, func(e *gateway.AuctionEvent) error {
		got = append(got, e.Type)
		if len(got) == 3 {
			return errStop
		}
		return nil
	})
	require.ErrorIs(t, err, errStop)
	assert.Equal(t, []gateway.EventType{
		gateway.EventTypePlayersUpdate,
		gateway.EventTypeBudgetsUpdate,
		gateway.EventTypeResultsUpdate,
	}, got)
}
