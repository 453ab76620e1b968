package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/mcdev12/auction/go/internal/models"
	"github.com/rs/zerolog/log"
)

// PlayerRepository defines what the app layer needs from the repository
type PlayerRepository interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	CountPlayers(ctx context.Context) (int, error)
	CreatePlayer(ctx context.Context, p models.Player) error
	ReplaceAll(ctx context.Context, players []models.Player) error
}

// App handles player business logic
type App struct {
	repo PlayerRepository
	seed []models.Player
}

// NewApp creates a new player App. seed is loaded whenever the store is empty.
func NewApp(repo PlayerRepository, seed []models.Player) *App {
	return &App{
		repo: repo,
		seed: append([]models.Player(nil), seed...),
	}
}

// ListPlayers returns every player
func (a *App) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := a.repo.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// AddPlayer validates and stores a new player
func (a *App) AddPlayer(ctx context.Context, p models.Player) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Role = strings.TrimSpace(p.Role)
	if err := a.validatePlayer(p); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := a.repo.CreatePlayer(ctx, p); err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// EnsureSeeded loads the seed set if no players are stored
func (a *App) EnsureSeeded(ctx context.Context) error {
	count, err := a.repo.CountPlayers(ctx)
	if err != nil {
		return fmt.Errorf("failed to check player store: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := a.repo.ReplaceAll(ctx, a.seed); err != nil {
		return fmt.Errorf("failed to load seed players: %w", err)
	}
	log.Info().Int("players", len(a.seed)).Msg("loaded seed players")
	return nil
}

// ResetToSeed replaces all players with the seed set
func (a *App) ResetToSeed(ctx context.Context) error {
	if err := a.repo.ReplaceAll(ctx, a.seed); err != nil {
		return fmt.Errorf("failed to reset players: %w", err)
	}
	return nil
}

func (a *App) validatePlayer(p models.Player) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPlayer)
	}
	if p.Role == "" {
		return fmt.Errorf("%w: role is required", ErrInvalidPlayer)
	}
	if p.BasePrice < 0 {
		return fmt.Errorf("%w: base_price must not be negative", ErrInvalidPlayer)
	}
	return nil
}
