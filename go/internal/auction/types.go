package auction

import "github.com/mcdev12/auction/go/internal/models"

// Request and response messages of the AuctionService RPCs

type ListPlayersRequest struct{}

type ListPlayersResponse struct {
	Players []models.Player `json:"players"`
}

type AddPlayerRequest struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	BasePrice int64  `json:"base_price"`
	Image     string `json:"image"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ListBudgetsRequest struct{}

type ListBudgetsResponse struct {
	Budgets models.Budgets `json:"budgets"`
}

type ListResultsRequest struct{}

type ListResultsResponse struct {
	Results []models.ResultEntry `json:"results"`
}

type ClearDataRequest struct{}

type StartBiddingRequest struct {
	PlayerName string `json:"player_name"`
}

type PlaceBidRequest struct {
	Team   string `json:"team"`
	Amount int64  `json:"amount"`
}

type EndBiddingRequest struct{}

type EndBiddingResponse = Settlement

type GetStateRequest struct{}

// GetStateResponse is the current round plus budgets
type GetStateResponse struct {
	Round   models.AuctionRound `json:"round"`
	Budgets models.Budgets      `json:"budgets"`
	Teams   []string            `json:"teams"`
}

// ErrorResponse is the structured error payload of the REST surface
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
