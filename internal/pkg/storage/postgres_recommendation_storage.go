package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

const recommendationColumns = `event_id, report_date, league, home_team, away_team, scheduled_at, market_line,
		probability, risk_tier, confidence, trend, justification,
		home_net_rating, away_net_rating, projected_margin, edge`

// InsertRecommendation stores a recommendation if its event id is not recorded yet.
// Returns true if the record was newly inserted, false if it already existed.
func (s *PostgresStorage) InsertRecommendation(ctx context.Context, rec *models.Recommendation) (bool, error) {
	if rec == nil || rec.EventID == "" {
		return false, fmt.Errorf("recommendation without event id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := `
	INSERT INTO handicap_list (` + recommendationColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	ON CONFLICT (event_id) DO NOTHING
	RETURNING id
	`

	var id int64
	err = tx.QueryRowContext(ctx, query,
		rec.EventID, dateOnly(rec.ReportDate), rec.League, rec.HomeTeam, rec.AwayTeam, rec.ScheduledAt, rec.MarketLine,
		rec.Probability, string(rec.RiskTier), rec.Confidence, string(rec.Trend), rec.Justification,
		rec.HomeNetRating, rec.AwayNetRating, rec.ProjectedMargin, rec.Edge,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		// Conflict on event_id: already handled by an earlier run
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return false, nil
	}
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("failed to insert recommendation %s: %w", rec.EventID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// GetRecommendation loads one row by event id
func (s *PostgresStorage) GetRecommendation(ctx context.Context, eventID string) (*models.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + ` FROM handicap_list WHERE event_id = $1`

	rec, err := scanRecommendation(s.db.QueryRowContext(ctx, query, eventID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation %s: %w", eventID, err)
	}
	return rec, nil
}

// RecommendationsByDate lists the rows of one report date
func (s *PostgresStorage) RecommendationsByDate(ctx context.Context, reportDate time.Time) ([]models.Recommendation, error) {
	query := `SELECT ` + recommendationColumns + `
	FROM handicap_list
	WHERE report_date = $1
	ORDER BY probability DESC, scheduled_at ASC`

	rows, err := s.db.QueryContext(ctx, query, dateOnly(reportDate))
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var out []models.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecommendation(row rowScanner) (*models.Recommendation, error) {
	var (
		rec      models.Recommendation
		riskTier string
		trend    string
	)
	err := row.Scan(
		&rec.EventID, &rec.ReportDate, &rec.League, &rec.HomeTeam, &rec.AwayTeam, &rec.ScheduledAt, &rec.MarketLine,
		&rec.Probability, &riskTier, &rec.Confidence, &trend, &rec.Justification,
		&rec.HomeNetRating, &rec.AwayNetRating, &rec.ProjectedMargin, &rec.Edge,
	)
	if err != nil {
		return nil, err
	}
	rec.RiskTier = models.RiskTier(riskTier)
	rec.Trend = models.Trend(trend)
	return &rec, nil
}
