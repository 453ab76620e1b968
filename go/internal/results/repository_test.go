package results

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
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
		CREATE TABLE IF NOT EXISTS results (
		    seq         BIGSERIAL PRIMARY KEY,
		    id          UUID        NOT NULL UNIQUE,
		    player      TEXT        NOT NULL,
		    team        TEXT,
		    highest_bid BIGINT      NOT NULL,
		    is_active   BOOLEAN     NOT NULL DEFAULT FALSE,
		    created_at  TIMESTAMPTZ NOT NULL
		)`)
	require.NoError(t, err)
	return db
}

func TestRepository_AppendAllClear(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Clear(ctx))

	team := "Team A"
	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.Append(ctx, models.ResultEntry{ID: uuid.New(), Player: "P1", Team: &team, HighestBid: 500, CreatedAt: now}))
	require.NoError(t, repo.Append(ctx, models.ResultEntry{ID: uuid.New(), Player: "P2", CreatedAt: now}))

	entries, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "P1", entries[0].Player)
	assert.Equal(t, "Team A", *entries[0].Team)
	assert.Nil(t, entries[1].Team)
	assert.True(t, now.Equal(entries[0].CreatedAt))

	require.NoError(t, repo.Clear(ctx))
	entries, err = repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
