package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mcdev12/auction/go/internal/models"
)

var (
	// ErrUnknownTeam is returned for a team that is not registered
	ErrUnknownTeam = errors.New("unknown team")
	// ErrBudgetUnderflow is returned when a debit would take a budget below zero
	ErrBudgetUnderflow = errors.New("budget underflow")
)

// Ledger holds every team's remaining budget.
// Budgets never go negative.
type Ledger struct {
	mu      sync.RWMutex
	order   []string
	budgets map[string]int64
}

// New creates a ledger with every team starting at initialBudget
func New(teams []string, initialBudget int64) *Ledger {
	l := &Ledger{
		order:   make([]string, 0, len(teams)),
		budgets: make(map[string]int64, len(teams)),
	}
	for _, team := range teams {
		if _, exists := l.budgets[team]; exists {
			continue
		}
		l.order = append(l.order, team)
		l.budgets[team] = max(initialBudget, 0)
	}
	return l
}

// Has reports whether team is registered
func (l *Ledger) Has(team string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.budgets[team]
	return ok
}

// Get returns the remaining budget of team
func (l *Ledger) Get(team string) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	budget, ok := l.budgets[team]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTeam, team)
	}
	return budget, nil
}

// Debit subtracts amount from team's budget.
func (l *Ledger) Debit(team string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	budget, ok := l.budgets[team]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, team)
	}
	if amount < 0 || amount > budget {
		return fmt.Errorf("%w: %s has %d, debit %d", ErrBudgetUnderflow, team, budget, amount)
	}
	l.budgets[team] = budget - amount
	return nil
}

// Reset sets every team's budget back to budget
func (l *Ledger) Reset(budget int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for team := range l.budgets {
		l.budgets[team] = max(budget, 0)
	}
}

// Teams returns the team names in registration order
func (l *Ledger) Teams() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]string(nil), l.order...)
}

// Snapshot returns a copy of all budgets.
func (l *Ledger) Snapshot() models.Budgets {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(models.Budgets, len(l.budgets))
	for team, budget := range l.budgets {
		out[team] = models.TeamBudget{Budget: budget}
	}
	return out
}
