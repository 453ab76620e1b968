package results

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/auction/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLog_AppendKeepsOrder(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryLog()
	team := "Team A"

	require.NoError(t, log.Append(ctx, models.ResultEntry{ID: uuid.New(), Player: "P1", Team: &team, HighestBid: 100, IsActive: true}))
	require.NoError(t, log.Append(ctx, models.ResultEntry{ID: uuid.New(), Player: "P2", CreatedAt: time.Now()}))

	entries, err := log.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "P1", entries[0].Player)
	assert.False(t, entries[0].IsActive)
	assert.True(t, entries[0].Sold())
	assert.Equal(t, "P2", entries[1].Player)
	assert.False(t, entries[1].Sold())
}

func TestMemoryLog_AllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryLog()
	require.NoError(t, log.Append(ctx, models.ResultEntry{Player: "P1"}))

	entries, err := log.All(ctx)
	require.NoError(t, err)
	entries[0].Player = "mutated"

	again, err := log.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "P1", again[0].Player)
}

func TestMemoryLog_Clear(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryLog()
	require.NoError(t, log.Append(ctx, models.ResultEntry{Player: "P1"}))
	require.NoError(t, log.Clear(ctx))

	entries, err := log.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
