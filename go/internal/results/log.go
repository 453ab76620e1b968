package results

import (
	"context"
	"sync"

	"github.com/mcdev12/auction/go/internal/models"
)

// Log is the append-only record of finished rounds.
type Log interface {
	Append(ctx context.Context, entry models.ResultEntry) error
	// All returns every entry, oldest first.
	All(ctx context.Context) ([]models.ResultEntry, error)
	Clear(ctx context.Context) error
}

// MemoryLog is an in-process Log
type MemoryLog struct {
	mu      sync.RWMutex
	entries []models.ResultEntry
}

// NewMemoryLog creates an empty in-memory result log
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (m *MemoryLog) Append(_ context.Context, entry models.ResultEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.IsActive = false
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MemoryLog) All(_ context.Context) ([]models.ResultEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ResultEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemoryLog) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}
