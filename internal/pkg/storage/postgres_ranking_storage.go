package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// ReplaceRankings deletes the (side, date) scope and inserts entries in the same transaction
func (s *PostgresStorage) ReplaceRankings(ctx context.Context, side models.RankingSide, date time.Time, entries []models.RankingEntry) error {
	if err := checkRankingScope(side, entries); err != nil {
		return err
	}
	day := dateOnly(date)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM league_rankings WHERE side = $1 AND reference_date = $2`, string(side), day); err != nil {
		return fmt.Errorf("failed to clear %s rankings: %w", side, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO league_rankings (side, category, subject_kind, subject_name, team_name, rank_position,
		stat_value, avg_points, avg_steals, avg_blocks, reference_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (side, category, reference_date, subject_name) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare ranking insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			string(side), string(e.Category), string(e.Kind), e.SubjectName, e.TeamName, e.RankPosition,
			e.StatValue, e.AvgPoints, e.AvgSteals, e.AvgBlocks, day,
		); err != nil {
			return fmt.Errorf("failed to insert ranking %s/%s: %w", e.Category, e.SubjectName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rankings: %w", err)
	}
	return nil
}

// Rankings returns the live rows of (side, date)
func (s *PostgresStorage) Rankings(ctx context.Context, side models.RankingSide, date time.Time) ([]models.RankingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT category, subject_kind, subject_name, team_name, rank_position,
		stat_value, avg_points, avg_steals, avg_blocks, reference_date
	FROM league_rankings
	WHERE side = $1 AND reference_date = $2
	ORDER BY category ASC, rank_position ASC
	`, string(side), dateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	var out []models.RankingEntry
	for rows.Next() {
		var (
			e        models.RankingEntry
			category string
			kind     string
		)
		if err := rows.Scan(&category, &kind, &e.SubjectName, &e.TeamName, &e.RankPosition,
			&e.StatValue, &e.AvgPoints, &e.AvgSteals, &e.AvgBlocks, &e.ReferenceDate); err != nil {
			return nil, fmt.Errorf("failed to scan ranking: %w", err)
		}
		e.Category = models.StatCategory(category)
		e.Kind = models.SubjectKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

func checkRankingScope(side models.RankingSide, entries []models.RankingEntry) error {
	if side != models.SideOffensive && side != models.SideDefensive {
		return fmt.Errorf("unknown ranking side %q", side)
	}
	for _, e := range entries {
		if !e.Category.Valid() {
			return fmt.Errorf("unknown ranking category %q", e.Category)
		}
		if e.Side() != side {
			return fmt.Errorf("category %s does not belong to %s rankings", e.Category, side)
		}
	}
	return nil
}
