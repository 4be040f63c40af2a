package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// ReplaceInjuries empties the table and inserts the latest report in one transaction
func (s *PostgresStorage) ReplaceInjuries(ctx context.Context, records []models.InjuryRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM injuries`); err != nil {
		return fmt.Errorf("failed to clear injuries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO injuries (player_name, team_name, status, details, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (player_name) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare injury insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		name := strings.TrimSpace(r.PlayerName)
		if name == "" {
			continue
		}
		updatedAt := r.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, name, r.TeamName, r.Status, r.Details, updatedAt); err != nil {
			return fmt.Errorf("failed to insert injury %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit injuries: %w", err)
	}
	return nil
}

// IsInjured looks the player up case-insensitively
func (s *PostgresStorage) IsInjured(ctx context.Context, playerName string) (bool, error) {
	name := strings.TrimSpace(playerName)
	if name == "" {
		return false, nil
	}
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM injuries WHERE LOWER(player_name) = LOWER($1))`, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check injury for %s: %w", name, err)
	}
	return exists, nil
}

// Injuries lists the current report
func (s *PostgresStorage) Injuries(ctx context.Context) ([]models.InjuryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT player_name, team_name, status, details, updated_at FROM injuries ORDER BY player_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query injuries: %w", err)
	}
	defer rows.Close()

	var out []models.InjuryRecord
	for rows.Next() {
		var r models.InjuryRecord
		if err := rows.Scan(&r.PlayerName, &r.TeamName, &r.Status, &r.Details, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan injury: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
