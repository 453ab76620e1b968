package auction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mcdev12/auction/go/internal/models"
	"github.com/rs/zerolog/log"
)

// HTTPHandler serves the auction actions as plain JSON endpoints
type HTTPHandler struct {
	app Auctioneer
}

// NewHTTPHandler creates a new REST handler
func NewHTTPHandler(app Auctioneer) *HTTPHandler {
	return &HTTPHandler{app: app}
}

// RegisterRoutes registers the REST routes with an HTTP mux
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.HandleHome)
	mux.HandleFunc("GET /players/", h.HandleListPlayers)
	mux.HandleFunc("POST /add_player/", h.HandleAddPlayer)
	mux.HandleFunc("GET /budgets/", h.HandleListBudgets)
	mux.HandleFunc("GET /results/", h.HandleListResults)
	mux.HandleFunc("POST /clear_data/", h.HandleClearData)
	mux.HandleFunc("POST /start_bidding/", h.HandleStartBidding)
	mux.HandleFunc("POST /place_bid/", h.HandlePlaceBid)
	mux.HandleFunc("POST /end_bidding/", h.HandleEndBidding)
	mux.HandleFunc("GET /api/auction/state", h.HandleGetState)
}

func (h *HTTPHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Cricket Auction API (with WebSocket) running."})
}

// HandleListPlayers handles GET /players/
func (h *HTTPHandler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.app.ListPlayers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

// HandleAddPlayer handles POST /add_player/
func (h *HTTPHandler) HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	var req AddPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "InvalidRequest"})
		return
	}

	p := models.Player{Name: req.Name, Role: req.Role, BasePrice: req.BasePrice, Image: req.Image}
	if err := h.app.AddPlayer(r.Context(), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Player added"})
}

// HandleListBudgets handles GET /budgets/
func (h *HTTPHandler) HandleListBudgets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Budgets())
}

// HandleListResults handles GET /results/
func (h *HTTPHandler) HandleListResults(w http.ResponseWriter, r *http.Request) {
	entries, err := h.app.Results(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleClearData handles POST /clear_data/
func (h *HTTPHandler) HandleClearData(w http.ResponseWriter, r *http.Request) {
	msg, err := h.app.ClearData(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// HandleStartBidding handles POST /start_bidding/?player_name=
func (h *HTTPHandler) HandleStartBidding(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if !query.Has("player_name") {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "player_name is required", Code: "InvalidRequest"})
		return
	}

	msg, err := h.app.StartBidding(r.Context(), query.Get("player_name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// HandlePlaceBid handles POST /place_bid/?team=&amount=
func (h *HTTPHandler) HandlePlaceBid(w http.ResponseWriter, r *http.Request) {
	team := r.URL.Query().Get("team")
	amount, err := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "amount must be an integer", Code: "InvalidRequest"})
		return
	}

	msg, err := h.app.PlaceBid(r.Context(), team, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// HandleEndBidding handles POST /end_bidding/
func (h *HTTPHandler) HandleEndBidding(w http.ResponseWriter, r *http.Request) {
	settlement, err := h.app.EndBidding(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlement)
}

// HandleGetState handles GET /api/auction/state
func (h *HTTPHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, GetStateResponse{
		Round:   h.app.Round(),
		Budgets: h.app.Budgets(),
		Teams:   h.app.Teams(),
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInactiveRound), errors.Is(err, ErrInsufficientBudget), errors.Is(err, ErrBidTooLow):
		status = http.StatusConflict
	case errors.Is(err, ErrUnknownTeam):
		status = http.StatusNotFound
	case errors.Is(err, ErrInvalidPlayer), errors.Is(err, ErrDuplicatePlayer):
		status = http.StatusBadRequest
	default:
		log.Error().Err(err).Msg("auction request failed")
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: ErrorCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
