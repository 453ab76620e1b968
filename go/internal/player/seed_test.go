package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSeedConfig_Players(t *testing.T) {
	var cfg SeedConfig
	require.NoError(t, yaml.Unmarshal([]byte(`
seed_players:
  - name: MS Dhoni
    role: Wicketkeeper
    base_price: 900
    image: https://example.com/dhoni.jpg
`), &cfg))

	players := cfg.Players()
	require.Len(t, players, 1)
	assert.Equal(t, "MS Dhoni", players[0].Name)
	assert.Equal(t, "Wicketkeeper", players[0].Role)
	assert.Equal(t, int64(900), players[0].BasePrice)
	assert.Equal(t, "https://example.com/dhoni.jpg", players[0].Image)

	assert.Equal(t, DefaultSeedPlayers(), SeedConfig{}.Players())
}
