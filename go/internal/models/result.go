package models

import (
	"time"

	"github.com/google/uuid"
)

// ResultEntry records a settled (or unsold) round.
type ResultEntry struct {
	ID         uuid.UUID `json:"id"`
	Player     string    `json:"player"`
	Team       *string   `json:"team"` // nil when the round ended with no bids
	HighestBid int64     `json:"highest_bid"`
	IsActive   bool      `json:"is_active"` // always false once logged
	CreatedAt  time.Time `json:"created_at"`
}

// Sold reports whether the round had a winning team
func (e ResultEntry) Sold() bool {
	return e.Team != nil
}
