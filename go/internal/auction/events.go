package auction

import "github.com/mcdev12/auction/go/internal/models"

// Event is a state change emitted by the App, in transition order.
type Event interface {
	isEvent()
}

// RoundStarted is emitted by StartBidding and replayed to sessions joining mid-round
type RoundStarted struct {
	Player     string
	HighestBid int64
	Team       *string
}

// BidAccepted is emitted for every accepted bid
type BidAccepted struct {
	Player string
	Amount int64
	Team   string
}

// RoundSettled is emitted when a round ends with a winning team
type RoundSettled struct {
	Player string
	Team   string
	Amount int64
}

// RoundUnsold is emitted when a round ends without bids
type RoundUnsold struct {
	Player string
}

type PlayersChanged struct {
	Players []models.Player
}

type BudgetsChanged struct {
	Budgets models.Budgets
}

type ResultsChanged struct {
	Results []models.ResultEntry
}

// DataCleared is emitted before the fresh snapshots that follow a clear
type DataCleared struct{}

func (RoundStarted) isEvent()   {}
func (BidAccepted) isEvent()    {}
func (RoundSettled) isEvent()   {}
func (RoundUnsold) isEvent()    {}
func (PlayersChanged) isEvent() {}
func (BudgetsChanged) isEvent() {}
func (ResultsChanged) isEvent() {}
func (DataCleared) isEvent()    {}

// Publisher receives events. Publish must not block on slow receivers.
type Publisher interface {
	Publish(events ...Event)
}

// Snapshot is the full auction state handed to a joining session
type Snapshot struct {
	Players []models.Player
	Budgets models.Budgets
	Results []models.ResultEntry
	Round   models.AuctionRound
}

// Events returns the snapshot as the ordered replay a new session receives.
func (s Snapshot) Events() []Event {
	events := []Event{
		PlayersChanged{Players: s.Players},
		BudgetsChanged{Budgets: s.Budgets},
		ResultsChanged{Results: s.Results},
	}
	if s.Round.IsActive {
		events = append(events, RoundStarted{
			Player:     s.Round.PlayerName(),
			HighestBid: s.Round.HighestBid,
			Team:       s.Round.LeadingTeam,
		})
	}
	return events
}
