package player

import "github.com/mcdev12/auction/go/internal/models"

// SeedPlayer is one entry of the seed_players YAML list
type SeedPlayer struct {
	Name      string `yaml:"name"`
	Role      string `yaml:"role"`
	BasePrice int64  `yaml:"base_price"`
	Image     string `yaml:"image"`
}

// SeedConfig is the seed_players section shared by the server config and the seed tool
type SeedConfig struct {
	SeedPlayers []SeedPlayer `yaml:"seed_players"`
}

// Players returns the configured seed players, or DefaultSeedPlayers when none are set
func (c SeedConfig) Players() []models.Player {
	if len(c.SeedPlayers) == 0 {
		return DefaultSeedPlayers()
	}
	out := make([]models.Player, 0, len(c.SeedPlayers))
	for _, p := range c.SeedPlayers {
		out = append(out, models.Player{Name: p.Name, Role: p.Role, BasePrice: p.BasePrice, Image: p.Image})
	}
	return out
}

// DefaultSeedPlayers is loaded whenever the player store is empty
func DefaultSeedPlayers() []models.Player {
	return []models.Player{
		{Name: "Virat Kohli", Role: "Batsman", BasePrice: 50000, Image: "https://i.ibb.co/ZdS5KpR/virat.jpg"},
		{Name: "Rohit Sharma", Role: "Batsman", BasePrice: 45000, Image: "https://i.ibb.co/xFM3W2T/rohit.jpg"},
		{Name: "Jasprit Bumrah", Role: "Bowler", BasePrice: 40000, Image: "https://i.ibb.co/zHq2Nw7/bumrah.jpg"},
		{Name: "Hardik Pandya", Role: "All-Rounder", BasePrice: 42000, Image: "https://i.ibb.co/WgLwKLD/hardik.jpg"},
		{Name: "Ravindra Jadeja", Role: "All-Rounder", BasePrice: 38000, Image: "https://i.ibb.co/3WMLk9C/jadeja.jpg"},
	}
}
