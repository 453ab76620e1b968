package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/mcdev12/auction/go/internal/models"
)

// MemoryRepository keeps players in process memory
type MemoryRepository struct {
	mu      sync.RWMutex
	players []models.Player
}

// NewMemoryRepository creates an empty in-memory player store
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) ListPlayers(_ context.Context) ([]models.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Player, len(m.players))
	copy(out, m.players)
	return out, nil
}

func (m *MemoryRepository) CountPlayers(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.players), nil
}

// CreatePlayer appends p. Names are unique, as in the Postgres store.
func (m *MemoryRepository) CreatePlayer(_ context.Context, p models.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.players {
		if existing.Name == p.Name {
			return fmt.Errorf("%w: %q", ErrDuplicatePlayer, p.Name)
		}
	}
	m.players = append(m.players, p)
	return nil
}

// ReplaceAll swaps in players. A duplicate name leaves the store unchanged.
func (m *MemoryRepository) ReplaceAll(_ context.Context, players []models.Player) error {
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if _, ok := seen[p.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicatePlayer, p.Name)
		}
		seen[p.Name] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.players = append([]models.Player(nil), players...)
	return nil
}
