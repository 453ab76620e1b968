package player

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/mcdev12/auction/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to AUCTION_TEST_DSN; tests are skipped without it.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("AUCTION_TEST_DSN")
	if dsn == "" {
		t.Skip("AUCTION_TEST_DSN not set")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS players (
		    id         SERIAL PRIMARY KEY,
		    name       TEXT   NOT NULL UNIQUE,
		    role       TEXT   NOT NULL,
		    base_price BIGINT NOT NULL DEFAULT 0,
		    image      TEXT   NOT NULL DEFAULT ''
		)`)
	require.NoError(t, err)
	return db
}

func TestRepository_ReplaceAllAndCreate(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, DefaultSeedPlayers()))
	count, err := repo.CountPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	require.NoError(t, repo.CreatePlayer(ctx, models.Player{Name: "MS Dhoni", Role: "Wicketkeeper", BasePrice: 60000}))
	players, err := repo.ListPlayers(ctx)
	require.NoError(t, err)
	require.Len(t, players, 6)
	assert.Equal(t, "Virat Kohli", players[0].Name)
	assert.Equal(t, "MS Dhoni", players[5].Name)

	err = repo.CreatePlayer(ctx, models.Player{Name: "MS Dhoni", Role: "Batsman"})
	require.ErrorIs(t, err, ErrDuplicatePlayer)

	// A failed insert rolls the whole replacement back.
	dup := []models.Player{{Name: "X", Role: "Bowler"}, {Name: "X", Role: "Bowler"}}
	require.ErrorIs(t, repo.ReplaceAll(ctx, dup), ErrDuplicatePlayer)
	count, err = repo.CountPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}
