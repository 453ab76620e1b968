package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/auction/go/internal/auction"
	"github.com/mcdev12/auction/go/internal/models"
)

// AuctionEvent is the envelope of every frame sent to a session
type AuctionEvent struct {
	ID        string          `json:"id"`        // Event UUID
	Type      EventType       `json:"type"`      // Event type
	Timestamp time.Time       `json:"timestamp"` // Event creation time
	Data      json.RawMessage `json:"data"`      // Event-specific payload
}

// EventType represents the type of auction event
type EventType string

const (
	EventTypePlayersUpdate EventType = "players_update"
	EventTypeBudgetsUpdate EventType = "budgets_update"
	EventTypeResultsUpdate EventType = "results_update"
	EventTypeStartBidding  EventType = "start_bidding"
	EventTypeNewBid        EventType = "new_bid"
	EventTypeEndBidding    EventType = "end_bidding"
	EventTypeClearData     EventType = "clear_data"
)

type PlayersUpdatePayload struct {
	Players []models.Player `json:"players"`
}

type BudgetsUpdatePayload struct {
	Budgets models.Budgets `json:"budgets"`
}

type ResultsUpdatePayload struct {
	Results []models.ResultEntry `json:"results"`
}

// BidPayload is shared by start_bidding and new_bid
type BidPayload struct {
	Player     string  `json:"player"`
	HighestBid int64   `json:"highest_bid"`
	Team       *string `json:"team"`
}

// EndBiddingPayload has a null team when the round ended unsold
type EndBiddingPayload struct {
	Player     string  `json:"player"`
	Team       *string `json:"team"`
	HighestBid int64   `json:"highest_bid"`
}

type ClearDataPayload struct{}

// toWire maps a domain event to its wire type and payload
func toWire(e auction.Event) (EventType, interface{}, error) {
	switch ev := e.(type) {
	case auction.PlayersChanged:
		players := ev.Players
		if players == nil {
			players = []models.Player{}
		}
		return EventTypePlayersUpdate, PlayersUpdatePayload{Players: players}, nil
	case auction.BudgetsChanged:
		budgets := ev.Budgets
		if budgets == nil {
			budgets = models.Budgets{}
		}
		return EventTypeBudgetsUpdate, BudgetsUpdatePayload{Budgets: budgets}, nil
	case auction.ResultsChanged:
		entries := ev.Results
		if entries == nil {
			entries = []models.ResultEntry{}
		}
		return EventTypeResultsUpdate, ResultsUpdatePayload{Results: entries}, nil
	case auction.RoundStarted:
		return EventTypeStartBidding, BidPayload{Player: ev.Player, HighestBid: ev.HighestBid, Team: ev.Team}, nil
	case auction.BidAccepted:
		team := ev.Team
		return EventTypeNewBid, BidPayload{Player: ev.Player, HighestBid: ev.Amount, Team: &team}, nil
	case auction.RoundSettled:
		team := ev.Team
		return EventTypeEndBidding, EndBiddingPayload{Player: ev.Player, Team: &team, HighestBid: ev.Amount}, nil
	case auction.RoundUnsold:
		return EventTypeEndBidding, EndBiddingPayload{Player: ev.Player}, nil
	case auction.DataCleared:
		return EventTypeClearData, ClearDataPayload{}, nil
	default:
		return "", nil, fmt.Errorf("unknown event %T", e)
	}
}

// NewAuctionEvent wraps a domain event in a wire envelope
func NewAuctionEvent(e auction.Event, now time.Time) (*AuctionEvent, error) {
	eventType, payload, err := toWire(e)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return &AuctionEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: now.UTC(),
		Data:      data,
	}, nil
}

// ParseEventPayload parses event data into the appropriate payload struct
func ParseEventPayload(event *AuctionEvent) (interface{}, error) {
	var payload interface{}
	switch event.Type {
	case EventTypePlayersUpdate:
		payload = &PlayersUpdatePayload{}
	case EventTypeBudgetsUpdate:
		payload = &BudgetsUpdatePayload{}
	case EventTypeResultsUpdate:
		payload = &ResultsUpdatePayload{}
	case EventTypeStartBidding, EventTypeNewBid:
		payload = &BidPayload{}
	case EventTypeEndBidding:
		payload = &EndBiddingPayload{}
	case EventTypeClearData:
		return &ClearDataPayload{}, nil
	default:
		return nil, fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err := json.Unmarshal(event.Data, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
