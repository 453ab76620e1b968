package auction

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/auction/go/internal/ledger"
	"github.com/mcdev12/auction/go/internal/models"
	"github.com/mcdev12/auction/go/internal/results"
	"github.com/rs/zerolog/log"
)

// PlayerApp defines what the auction needs from the player app
type PlayerApp interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	AddPlayer(ctx context.Context, p models.Player) error
	ResetToSeed(ctx context.Context) error
}

// Config holds the auction settings
type Config struct {
	InitialBudget int64
}

// App owns the auction state: the single round and the team ledger.
// Every mutation (start, bid, end, add player, clear) runs under mu, and the
// resulting events are handed to the publisher before mu is released so that
// event order matches transition order.
type App struct {
	mu    sync.Mutex
	round models.AuctionRound

	ledger    *ledger.Ledger
	players   PlayerApp
	results   results.Log
	publisher Publisher
	clock     clockwork.Clock
	config    Config
}

// Option configures an App
type Option func(*App)

// WithClock overrides the clock used for result timestamps
func WithClock(clock clockwork.Clock) Option {
	return func(a *App) {
		a.clock = clock
	}
}

// NewApp creates a new auction App with an inactive round
func NewApp(cfg Config, l *ledger.Ledger, players PlayerApp, resultLog results.Log, publisher Publisher, opts ...Option) *App {
	a := &App{
		ledger:    l,
		players:   players,
		results:   resultLog,
		publisher: publisher,
		clock:     clockwork.NewRealClock(),
		config:    cfg,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Settlement describes the outcome of EndBidding
type Settlement struct {
	Message string              `json:"message"`
	Ended   bool                `json:"ended"`
	Sold    bool                `json:"sold"`
	Result  *models.ResultEntry `json:"result,omitempty"`
}

// StartBidding opens a round for player, replacing any round in progress
func (a *App) StartBidding(ctx context.Context, player string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.round = models.AuctionRound{
		Player:   &player,
		IsActive: true,
	}

	log.Info().Str("player", player).Msg("bidding started")
	a.publish(RoundStarted{Player: player})

	return fmt.Sprintf("Bidding started for %s", player), nil
}

// PlaceBid applies a bid as one atomic check-then-update against the round
// and the team's budget.
func (a *App) PlaceBid(ctx context.Context, team string, amount int64) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.round.IsActive {
		return "", ErrInactiveRound
	}
	budget, err := a.ledger.Get(team)
	if err != nil {
		return "", fmt.Errorf("invalid team name: %w", err)
	}
	if amount > budget {
		log.Debug().Str("team", team).Int64("amount", amount).Int64("budget", budget).Msg("bid rejected: budget")
		return "", fmt.Errorf("%s does not have enough budget: %w", team, ErrInsufficientBudget)
	}
	if amount <= a.round.HighestBid {
		log.Debug().Str("team", team).Int64("amount", amount).Int64("highest_bid", a.round.HighestBid).Msg("bid rejected: too low")
		return "", fmt.Errorf("%d <= %d: %w", amount, a.round.HighestBid, ErrBidTooLow)
	}

	a.round.HighestBid = amount
	a.round.LeadingTeam = &team

	player := a.round.PlayerName()
	log.Info().Str("player", player).Str("team", team).Int64("amount", amount).Msg("bid accepted")
	a.publish(BidAccepted{Player: player, Amount: amount, Team: team})

	return fmt.Sprintf("%s placed a bid of ₹%d", team, amount), nil
}

// EndBidding closes the active round. With a leading team the team is debited
// and the sale is logged; without one the round is logged as unsold. Ending
// when no round is active changes nothing.
func (a *App) EndBidding(ctx context.Context) (Settlement, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.round.IsActive {
		return Settlement{Message: "No active bidding to end."}, nil
	}

	round := a.round
	player := round.PlayerName()
	entry := models.ResultEntry{
		ID:         uuid.New(),
		Player:     player,
		Team:       round.LeadingTeam,
		HighestBid: round.HighestBid,
		CreatedAt:  a.clock.Now().UTC(),
	}

	if round.LeadingTeam != nil {
		team := *round.LeadingTeam
		budget, err := a.ledger.Get(team)
		if err != nil {
			return Settlement{}, fmt.Errorf("failed to settle %s: %w", player, err)
		}
		if round.HighestBid > budget {
			log.Error().Str("team", team).Int64("amount", round.HighestBid).Int64("budget", budget).Msg("settlement would overdraw team")
			return Settlement{}, fmt.Errorf("failed to settle %s: %w", player, ErrBudgetUnderflow)
		}
		if err := a.results.Append(ctx, entry); err != nil {
			return Settlement{}, fmt.Errorf("failed to record result: %w", err)
		}
		if err := a.ledger.Debit(team, round.HighestBid); err != nil {
			return Settlement{}, fmt.Errorf("failed to settle %s: %w", player, err)
		}
		a.round = models.AuctionRound{}

		remaining, _ := a.ledger.Get(team)
		log.Info().Str("player", player).Str("team", team).Int64("amount", round.HighestBid).Int64("remaining", remaining).Msg("round settled")

		a.publish(RoundSettled{Player: player, Team: team, Amount: round.HighestBid})
		a.publish(BudgetsChanged{Budgets: a.ledger.Snapshot()})
		a.publishResults(ctx)
		a.publishPlayers(ctx)

		return Settlement{
			Message: fmt.Sprintf("%s sold to %s for ₹%d. Remaining budget: ₹%d", player, team, round.HighestBid, remaining),
			Ended:   true,
			Sold:    true,
			Result:  &entry,
		}, nil
	}

	if err := a.results.Append(ctx, entry); err != nil {
		return Settlement{}, fmt.Errorf("failed to record result: %w", err)
	}
	a.round = models.AuctionRound{}

	log.Info().Str("player", player).Msg("round ended unsold")
	a.publish(RoundUnsold{Player: player})
	a.publishResults(ctx)

	return Settlement{Message: "No bids placed.", Ended: true, Result: &entry}, nil
}

// AddPlayer stores a player and broadcasts the new player list
func (a *App) AddPlayer(ctx context.Context, p models.Player) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.players.AddPlayer(ctx, p); err != nil {
		return err
	}
	log.Info().Str("player", p.Name).Str("role", p.Role).Msg("player added")
	a.publishPlayers(ctx)
	return nil
}

// ClearData empties the result log, resets players to the seed set and
// budgets to the initial budget, and closes any open round.
func (a *App) ClearData(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.results.Clear(ctx); err != nil {
		return "", fmt.Errorf("failed to clear results: %w", err)
	}
	if err := a.players.ResetToSeed(ctx); err != nil {
		// Results are already cleared, so sessions must see that.
		a.publishResults(ctx)
		return "", err
	}
	a.ledger.Reset(a.config.InitialBudget)
	a.round = models.AuctionRound{}

	log.Info().Int64("budget", a.config.InitialBudget).Msg("auction data cleared")
	a.publish(DataCleared{})
	a.publishPlayers(ctx)
	a.publish(BudgetsChanged{Budgets: a.ledger.Snapshot()})
	a.publishResults(ctx)

	return "All data cleared and sample players reloaded.", nil
}

// ListPlayers returns every player
func (a *App) ListPlayers(ctx context.Context) ([]models.Player, error) {
	return a.players.ListPlayers(ctx)
}

// Budgets returns the remaining budget of every team
func (a *App) Budgets() models.Budgets {
	return a.ledger.Snapshot()
}

// Teams returns the registered team names
func (a *App) Teams() []string {
	return a.ledger.Teams()
}

// Results returns the result log, oldest first
func (a *App) Results(ctx context.Context) ([]models.ResultEntry, error) {
	entries, err := a.results.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return entries, nil
}

// Round returns a copy of the current round
func (a *App) Round() models.AuctionRound {
	a.mu.Lock()
	defer a.mu.Unlock()
	return copyRound(a.round)
}

// Join builds a consistent snapshot and passes it to fn while holding the
// state lock, so no transition can happen between the snapshot and whatever
// fn does with it (typically registering a session).
func (a *App) Join(ctx context.Context, fn func(Snapshot) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	players, err := a.players.ListPlayers(ctx)
	if err != nil {
		return err
	}
	entries, err := a.results.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	return fn(Snapshot{
		Players: players,
		Budgets: a.ledger.Snapshot(),
		Results: entries,
		Round:   copyRound(a.round),
	})
}

func (a *App) publish(events ...Event) {
	if a.publisher == nil {
		return
	}
	a.publisher.Publish(events...)
}

// publishResults broadcasts the full result log. A read failure only skips the broadcast.
func (a *App) publishResults(ctx context.Context) {
	entries, err := a.results.All(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load results for broadcast")
		return
	}
	a.publish(ResultsChanged{Results: entries})
}

func (a *App) publishPlayers(ctx context.Context) {
	players, err := a.players.ListPlayers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load players for broadcast")
		return
	}
	a.publish(PlayersChanged{Players: players})
}

func copyRound(r models.AuctionRound) models.AuctionRound {
	out := models.AuctionRound{HighestBid: r.HighestBid, IsActive: r.IsActive}
	if r.Player != nil {
		p := *r.Player
		out.Player = &p
	}
	if r.LeadingTeam != nil {
		t := *r.LeadingTeam
		out.LeadingTeam = &t
	}
	return out
}
