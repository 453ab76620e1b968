package auction

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	"github.com/mcdev12/auction/go/internal/models"
	"github.com/rs/zerolog/log"
)

// AuctionServiceName is the fully-qualified name of the auction RPC service
const AuctionServiceName = "auction.v1.AuctionService"

// Procedure paths of the AuctionService RPCs
const (
	ListPlayersProcedure  = "/" + AuctionServiceName + "/ListPlayers"
	AddPlayerProcedure    = "/" + AuctionServiceName + "/AddPlayer"
	ListBudgetsProcedure  = "/" + AuctionServiceName + "/ListBudgets"
	ListResultsProcedure  = "/" + AuctionServiceName + "/ListResults"
	ClearDataProcedure    = "/" + AuctionServiceName + "/ClearData"
	StartBiddingProcedure = "/" + AuctionServiceName + "/StartBidding"
	PlaceBidProcedure     = "/" + AuctionServiceName + "/PlaceBid"
	EndBiddingProcedure   = "/" + AuctionServiceName + "/EndBidding"
	GetStateProcedure     = "/" + AuctionServiceName + "/GetState"
)

// Auctioneer is what the transport layers need from the auction App
type Auctioneer interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	AddPlayer(ctx context.Context, p models.Player) error
	Budgets() models.Budgets
	Teams() []string
	Results(ctx context.Context) ([]models.ResultEntry, error)
	ClearData(ctx context.Context) (string, error)
	StartBidding(ctx context.Context, player string) (string, error)
	PlaceBid(ctx context.Context, team string, amount int64) (string, error)
	EndBidding(ctx context.Context) (Settlement, error)
	Round() models.AuctionRound
}

var _ Auctioneer = (*App)(nil)

// Service implements the AuctionService connect RPCs
type Service struct {
	app Auctioneer
}

// NewService creates a new auction connect service
func NewService(app Auctioneer) *Service {
	return &Service{app: app}
}

// ListPlayers returns every player
func (s *Service) ListPlayers(ctx context.Context, req *connect.Request[ListPlayersRequest]) (*connect.Response[ListPlayersResponse], error) {
	players, err := s.app.ListPlayers(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListPlayersResponse{Players: players}), nil
}

// AddPlayer validates and stores a player
func (s *Service) AddPlayer(ctx context.Context, req *connect.Request[AddPlayerRequest]) (*connect.Response[MessageResponse], error) {
	p := models.Player{
		Name:      req.Msg.Name,
		Role:      req.Msg.Role,
		BasePrice: req.Msg.BasePrice,
		Image:     req.Msg.Image,
	}
	if err := s.app.AddPlayer(ctx, p); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MessageResponse{Message: "Player added"}), nil
}

// ListBudgets returns every team's remaining budget
func (s *Service) ListBudgets(ctx context.Context, req *connect.Request[ListBudgetsRequest]) (*connect.Response[ListBudgetsResponse], error) {
	return connect.NewResponse(&ListBudgetsResponse{Budgets: s.app.Budgets()}), nil
}

// ListResults returns the result log
func (s *Service) ListResults(ctx context.Context, req *connect.Request[ListResultsRequest]) (*connect.Response[ListResultsResponse], error) {
	entries, err := s.app.Results(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListResultsResponse{Results: entries}), nil
}

// ClearData resets the auction
func (s *Service) ClearData(ctx context.Context, req *connect.Request[ClearDataRequest]) (*connect.Response[MessageResponse], error) {
	msg, err := s.app.ClearData(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MessageResponse{Message: msg}), nil
}

// StartBidding opens a round
func (s *Service) StartBidding(ctx context.Context, req *connect.Request[StartBiddingRequest]) (*connect.Response[MessageResponse], error) {
	msg, err := s.app.StartBidding(ctx, req.Msg.PlayerName)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MessageResponse{Message: msg}), nil
}

// PlaceBid places a bid for a team
func (s *Service) PlaceBid(ctx context.Context, req *connect.Request[PlaceBidRequest]) (*connect.Response[MessageResponse], error) {
	msg, err := s.app.PlaceBid(ctx, req.Msg.Team, req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&MessageResponse{Message: msg}), nil
}

// EndBidding closes the active round
func (s *Service) EndBidding(ctx context.Context, req *connect.Request[EndBiddingRequest]) (*connect.Response[EndBiddingResponse], error) {
	settlement, err := s.app.EndBidding(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&settlement), nil
}

// GetState returns the current round and budgets
func (s *Service) GetState(ctx context.Context, req *connect.Request[GetStateRequest]) (*connect.Response[GetStateResponse], error) {
	return connect.NewResponse(&GetStateResponse{
		Round:   s.app.Round(),
		Budgets: s.app.Budgets(),
		Teams:   s.app.Teams(),
	}), nil
}

// RegisterRoutes mounts every AuctionService procedure on mux
func (s *Service) RegisterRoutes(mux *http.ServeMux, opts ...connect.HandlerOption) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux.Handle(ListPlayersProcedure, connect.NewUnaryHandler(ListPlayersProcedure, s.ListPlayers, opts...))
	mux.Handle(AddPlayerProcedure, connect.NewUnaryHandler(AddPlayerProcedure, s.AddPlayer, opts...))
	mux.Handle(ListBudgetsProcedure, connect.NewUnaryHandler(ListBudgetsProcedure, s.ListBudgets, opts...))
	mux.Handle(ListResultsProcedure, connect.NewUnaryHandler(ListResultsProcedure, s.ListResults, opts...))
	mux.Handle(ClearDataProcedure, connect.NewUnaryHandler(ClearDataProcedure, s.ClearData, opts...))
	mux.Handle(StartBiddingProcedure, connect.NewUnaryHandler(StartBiddingProcedure, s.StartBidding, opts...))
	mux.Handle(PlaceBidProcedure, connect.NewUnaryHandler(PlaceBidProcedure, s.PlaceBid, opts...))
	mux.Handle(EndBiddingProcedure, connect.NewUnaryHandler(EndBiddingProcedure, s.EndBidding, opts...))
	mux.Handle(GetStateProcedure, connect.NewUnaryHandler(GetStateProcedure, s.GetState, opts...))

	log.Info().Str("service", AuctionServiceName).Msg("auction service routes registered")
}

// toConnectError maps auction errors onto connect codes
func toConnectError(err error) error {
	var code connect.Code
	switch {
	case errors.Is(err, ErrInactiveRound), errors.Is(err, ErrInsufficientBudget), errors.Is(err, ErrBidTooLow):
		code = connect.CodeFailedPrecondition
	case errors.Is(err, ErrUnknownTeam):
		code = connect.CodeNotFound
	case errors.Is(err, ErrInvalidPlayer), errors.Is(err, ErrDuplicatePlayer):
		code = connect.CodeInvalidArgument
	default:
		code = connect.CodeInternal
	}
	cerr := connect.NewError(code, err)
	cerr.Meta().Set("Auction-Error", ErrorCode(err))
	return cerr
}
