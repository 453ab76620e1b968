package models

// AuctionRound is the single bidding round of the auction.
// LeadingTeam is set iff HighestBid > 0.
type AuctionRound struct {
	Player      *string `json:"player"`
	HighestBid  int64   `json:"highest_bid"`
	LeadingTeam *string `json:"team"`
	IsActive    bool    `json:"is_active"`
}

// PlayerName returns the round's player or "" when none is set
func (r AuctionRound) PlayerName() string {
	if r.Player == nil {
		return ""
	}
	return *r.Player
}

// TeamName returns the leading team or "" when nobody has bid
func (r AuctionRound) TeamName() string {
	if r.LeadingTeam == nil {
		return ""
	}
	return *r.LeadingTeam
}
