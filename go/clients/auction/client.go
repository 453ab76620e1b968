// Package auction is a typed Go client for the live auction server.
package auction

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	api "github.com/mcdev12/auction/go/internal/auction"
	"github.com/mcdev12/auction/go/internal/models"
)

// Client calls the AuctionService over Connect
type Client struct {
	listPlayers  *connect.Client[api.ListPlayersRequest, api.ListPlayersResponse]
	addPlayer    *connect.Client[api.AddPlayerRequest, api.MessageResponse]
	listBudgets  *connect.Client[api.ListBudgetsRequest, api.ListBudgetsResponse]
	listResults  *connect.Client[api.ListResultsRequest, api.ListResultsResponse]
	clearData    *connect.Client[api.ClearDataRequest, api.MessageResponse]
	startBidding *connect.Client[api.StartBiddingRequest, api.MessageResponse]
	placeBid     *connect.Client[api.PlaceBidRequest, api.MessageResponse]
	endBidding   *connect.Client[api.EndBiddingRequest, api.EndBiddingResponse]
	getState     *connect.Client[api.GetStateRequest, api.GetStateResponse]
}

// NewClient creates a client for the server at baseURL. A nil httpClient
// gets a client with a 30 second timeout.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)

	return &Client{
		listPlayers:  connect.NewClient[api.ListPlayersRequest, api.ListPlayersResponse](httpClient, baseURL+api.ListPlayersProcedure, opts...),
		addPlayer:    connect.NewClient[api.AddPlayerRequest, api.MessageResponse](httpClient, baseURL+api.AddPlayerProcedure, opts...),
		listBudgets:  connect.NewClient[api.ListBudgetsRequest, api.ListBudgetsResponse](httpClient, baseURL+api.ListBudgetsProcedure, opts...),
		listResults:  connect.NewClient[api.ListResultsRequest, api.ListResultsResponse](httpClient, baseURL+api.ListResultsProcedure, opts...),
		clearData:    connect.NewClient[api.ClearDataRequest, api.MessageResponse](httpClient, baseURL+api.ClearDataProcedure, opts...),
		startBidding: connect.NewClient[api.StartBiddingRequest, api.MessageResponse](httpClient, baseURL+api.StartBiddingProcedure, opts...),
		placeBid:     connect.NewClient[api.PlaceBidRequest, api.MessageResponse](httpClient, baseURL+api.PlaceBidProcedure, opts...),
		endBidding:   connect.NewClient[api.EndBiddingRequest, api.EndBiddingResponse](httpClient, baseURL+api.EndBiddingProcedure, opts...),
		getState:     connect.NewClient[api.GetStateRequest, api.GetStateResponse](httpClient, baseURL+api.GetStateProcedure, opts...),
	}
}

func (c *Client) ListPlayers(ctx context.Context) ([]models.Player, error) {
	resp, err := c.listPlayers.CallUnary(ctx, connect.NewRequest(&api.ListPlayersRequest{}))
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return resp.Msg.Players, nil
}

func (c *Client) AddPlayer(ctx context.Context, p models.Player) (string, error) {
	resp, err := c.addPlayer.CallUnary(ctx, connect.NewRequest(&api.AddPlayerRequest{
		Name:      p.Name,
		Role:      p.Role,
		BasePrice: p.BasePrice,
		Image:     p.Image,
	}))
	if err != nil {
		return "", fmt.Errorf("failed to add player: %w", err)
	}
	return resp.Msg.Message, nil
}

func (c *Client) ListBudgets(ctx context.Context) (models.Budgets, error) {
	resp, err := c.listBudgets.CallUnary(ctx, connect.NewRequest(&api.ListBudgetsRequest{}))
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return resp.Msg.Budgets, nil
}

func (c *Client) ListResults(ctx context.Context) ([]models.ResultEntry, error) {
	resp, err := c.listResults.CallUnary(ctx, connect.NewRequest(&api.ListResultsRequest{}))
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return resp.Msg.Results, nil
}

func (c *Client) ClearData(ctx context.Context) (string, error) {
	resp, err := c.clearData.CallUnary(ctx, connect.NewRequest(&api.ClearDataRequest{}))
	if err != nil {
		return "", fmt.Errorf("failed to clear data: %w", err)
	}
	return resp.Msg.Message, nil
}

func (c *Client) StartBidding(ctx context.Context, player string) (string, error) {
	resp, err := c.startBidding.CallUnary(ctx, connect.NewRequest(&api.StartBiddingRequest{PlayerName: player}))
	if err != nil {
		return "", fmt.Errorf("failed to start bidding: %w", err)
	}
	return resp.Msg.Message, nil
}

func (c *Client) PlaceBid(ctx context.Context, team string, amount int64) (string, error) {
	resp, err := c.placeBid.CallUnary(ctx, connect.NewRequest(&api.PlaceBidRequest{Team: team, Amount: amount}))
	if err != nil {
		return "", fmt.Errorf("failed to place bid: %w", err)
	}
	return resp.Msg.Message, nil
}

func (c *Client) EndBidding(ctx context.Context) (api.Settlement, error) {
	resp, err := c.endBidding.CallUnary(ctx, connect.NewRequest(&api.EndBiddingRequest{}))
	if err != nil {
		return api.Settlement{}, fmt.Errorf("failed to end bidding: %w", err)
	}
	return *resp.Msg, nil
}

func (c *Client) GetState(ctx context.Context) (*api.GetStateResponse, error) {
	resp, err := c.getState.CallUnary(ctx, connect.NewRequest(&api.GetStateRequest{}))
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return resp.Msg, nil
}

// ErrorKind returns the auction error kind carried by a failed call, or "" if none
func ErrorKind(err error) string {
	var cerr *connect.Error
	if !errors.As(err, &cerr) {
		return ""
	}
	return cerr.Meta().Get("Auction-Error")
}
