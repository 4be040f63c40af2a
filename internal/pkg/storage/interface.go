package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// RecommendationStore persists scored recommendations, one per event id
type RecommendationStore interface {
	// InsertRecommendation stores rec unless its event id is already recorded.
	// Returns true if the row was newly inserted, false if it already existed.
	InsertRecommendation(ctx context.Context, rec *models.Recommendation) (bool, error)

	// GetRecommendation returns the stored row for eventID or ErrNotFound.
	GetRecommendation(ctx context.Context, eventID string) (*models.Recommendation, error)

	// RecommendationsByDate returns the rows of one report date, highest probability first.
	RecommendationsByDate(ctx context.Context, reportDate time.Time) ([]models.Recommendation, error)
}

// RankingStore keeps one live set of leaderboard rows per (side, reference date)
type RankingStore interface {
	// ReplaceRankings drops every row of (side, date) and stores entries in their place.
	ReplaceRankings(ctx context.Context, side models.RankingSide, date time.Time, entries []models.RankingEntry) error

	// Rankings returns the rows of (side, date) ordered by category and rank.
	Rankings(ctx context.Context, side models.RankingSide, date time.Time) ([]models.RankingEntry, error)
}

// InjuryStore mirrors the latest injury report
type InjuryStore interface {
	// ReplaceInjuries swaps the whole table for records.
	ReplaceInjuries(ctx context.Context, records []models.InjuryRecord) error

	// IsInjured matches playerName case-insensitively.
	IsInjured(ctx context.Context, playerName string) (bool, error)

	Injuries(ctx context.Context) ([]models.InjuryRecord, error)
}

// AlertGuard remembers which alerts were already sent on a given day
type AlertGuard interface {
	// MarkOnce returns true the first time (date, kind, key) is seen and false afterwards.
	MarkOnce(ctx context.Context, date time.Time, kind, key string) (bool, error)
	// Forget drops the marker so an alert that failed to go out can be retried.
	Forget(ctx context.Context, date time.Time, kind, key string) error
}

// AlertKey builds the marker key shared by every AlertGuard implementation.
func AlertKey(date time.Time, kind, key string) string {
	return "alert:" + date.Format("2006-01-02") + ":" + kind + ":" + models.NormalizeName(key)
}

// dateOnly truncates t to its calendar day in t's own zone.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
