package player

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/mcdev12/auction/go/internal/models"
	"github.com/mcdev12/auction/go/internal/sqlutil"
)

// Repository handles all player-related database operations
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new player repository
func NewRepository(database *sql.DB) *Repository {
	return &Repository{db: database}
}

// ListPlayers returns every player in insertion order
func (r *Repository) ListPlayers(ctx context.Context) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, role, base_price, image
		FROM players
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.Name, &p.Role, &p.BasePrice, &p.Image); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate players: %w", err)
	}
	return players, nil
}

// CountPlayers returns the number of stored players
func (r *Repository) CountPlayers(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

// CreatePlayer inserts a single player
func (r *Repository) CreatePlayer(ctx context.Context, p models.Player) error {
	if err := insertPlayer(ctx, r.db, p); err != nil {
		return err
	}
	return nil
}

// ReplaceAll deletes every player and inserts players in one transaction
func (r *Repository) ReplaceAll(ctx context.Context, players []models.Player) error {
	return sqlutil.Run(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM players`); err != nil {
			return fmt.Errorf("failed to delete players: %w", err)
		}
		for _, p := range players {
			if err := insertPlayer(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// uniqueViolation is the Postgres error code for a UNIQUE constraint failure
const uniqueViolation = pq.ErrorCode("23505")

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertPlayer(ctx context.Context, db execer, p models.Player) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO players (name, role, base_price, image)
		VALUES ($1, $2, $3, $4)
	`, p.Name, p.Role, p.BasePrice, p.Image)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %q", ErrDuplicatePlayer, p.Name)
		}
		return fmt.Errorf("failed to insert player %q: %w", p.Name, err)
	}
	return nil
}
