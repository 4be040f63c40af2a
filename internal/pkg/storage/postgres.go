package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
)

// Ensure PostgresStorage implements the store interfaces
var (
	_ RecommendationStore = (*PostgresStorage)(nil)
	_ RankingStore        = (*PostgresStorage)(nil)
	_ InjuryStore         = (*PostgresStorage)(nil)
)

// PostgresStorage stores recommendations, rankings and injuries in PostgreSQL
type PostgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage opens the pool, checks the connection and creates missing tables
func NewPostgresStorage(cfg *config.PostgresConfig) (*PostgresStorage, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	storage, err := NewPostgresStorageFromDB(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("PostgreSQL storage initialized successfully")
	return storage, nil
}

// NewPostgresStorageFromDB wraps an already opened pool and initializes the schema
func NewPostgresStorageFromDB(ctx context.Context, db *sql.DB) (*PostgresStorage, error) {
	storage := &PostgresStorage{db: db}
	if err := storage.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return storage, nil
}

func (s *PostgresStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS handicap_list (
		id SERIAL PRIMARY KEY,
		event_id VARCHAR(64) NOT NULL UNIQUE,
		report_date DATE NOT NULL,
		league VARCHAR(32) NOT NULL DEFAULT '',
		home_team VARCHAR(128) NOT NULL,
		away_team VARCHAR(128) NOT NULL,
		scheduled_at TIMESTAMPTZ NOT NULL,
		market_line VARCHAR(64) NOT NULL DEFAULT '',
		probability DOUBLE PRECISION NOT NULL,
		risk_tier VARCHAR(16) NOT NULL,
		confidence INTEGER NOT NULL,
		trend VARCHAR(16) NOT NULL,
		justification TEXT NOT NULL DEFAULT '',
		home_net_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		away_net_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
		projected_margin DOUBLE PRECISION NOT NULL DEFAULT 0,
		edge DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_handicap_list_report_date ON handicap_list(report_date);

	CREATE TABLE IF NOT EXISTS league_rankings (
		id SERIAL PRIMARY KEY,
		side VARCHAR(16) NOT NULL,
		category VARCHAR(32) NOT NULL,
		subject_kind VARCHAR(16) NOT NULL,
		subject_name VARCHAR(128) NOT NULL,
		team_name VARCHAR(128) NOT NULL DEFAULT '',
		rank_position INTEGER NOT NULL,
		stat_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_points DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_steals DOUBLE PRECISION NOT NULL DEFAULT 0,
		avg_blocks DOUBLE PRECISION NOT NULL DEFAULT 0,
		reference_date DATE NOT NULL,
		UNIQUE(side, category, reference_date, subject_name)
	);

	CREATE INDEX IF NOT EXISTS idx_league_rankings_scope ON league_rankings(side, reference_date);

	CREATE TABLE IF NOT EXISTS injuries (
		player_name VARCHAR(128) PRIMARY KEY,
		team_name VARCHAR(128) NOT NULL DEFAULT '',
		status VARCHAR(64) NOT NULL DEFAULT '',
		details TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Close closes the database connection
func (s *PostgresStorage) Close() error {
	return s.db.Close()
}

// Ping is used by the health endpoint
func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
