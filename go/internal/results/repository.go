package results

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mcdev12/auction/go/internal/models"
	"github.com/mcdev12/auction/go/internal/sqlutil"
)

// Repository is a Postgres-backed Log
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new result repository
func NewRepository(database *sql.DB) *Repository {
	return &Repository{db: database}
}

// Append inserts a finished round
func (r *Repository) Append(ctx context.Context, entry models.ResultEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO results (id, player, team, highest_bid, is_active, created_at)
		VALUES ($1, $2, $3, $4, false, $5)
	`, entry.ID, entry.Player, sqlutil.ToSqlString(entry.Team), entry.HighestBid, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert result: %w", err)
	}
	return nil
}

// All returns every logged round ordered oldest to newest
func (r *Repository) All(ctx context.Context) ([]models.ResultEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, player, team, highest_bid, created_at
		FROM results
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	entries := []models.ResultEntry{}
	for rows.Next() {
		var (
			entry models.ResultEntry
			team  sql.NullString
		)
		if err := rows.Scan(&entry.ID, &entry.Player, &team, &entry.HighestBid, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		entry.Team = sqlutil.FromSqlString(team)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return entries, nil
}

// Clear removes every logged round
func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM results`); err != nil {
		return fmt.Errorf("failed to clear results: %w", err)
	}
	return nil
}
