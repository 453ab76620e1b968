package models

// Player represents a player that can be put up for auction
type Player struct {
	Name      string `json:"name"`
	Role      string `json:"role"`       // 'Batsman', 'Bowler', 'All-Rounder', ...
	BasePrice int64  `json:"base_price"` // reserve price, informational only
	Image     string `json:"image"`
}
