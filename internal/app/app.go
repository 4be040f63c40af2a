// Package app wires the shared runtime of the binaries: stores, alert guard, sender, ops server and the run loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Vodeneev/hoopsedge/internal/notifier"
	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
	"github.com/Vodeneev/hoopsedge/internal/pkg/health"
	"github.com/Vodeneev/hoopsedge/internal/pkg/health/handlers"
	"github.com/Vodeneev/hoopsedge/internal/pkg/metrics"
	"github.com/Vodeneev/hoopsedge/internal/pkg/storage"
)

// Stores bundles every persistence interface behind one backend.
type Stores struct {
	Recommendations storage.RecommendationStore
	Rankings        storage.RankingStore
	Injuries        storage.InjuryStore
	Alerts          storage.AlertGuard
	Checks          map[string]handlers.Check

	closers []func() error
}

// OpenStores connects to Postgres and Redis when configured, and falls back to memory otherwise.
func OpenStores(cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	s := &Stores{Checks: map[string]handlers.Check{}}

	if cfg.Postgres.DSN != "" {
		pg, err := storage.NewPostgresStorage(&cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL storage: %w", err)
		}
		s.Recommendations, s.Rankings, s.Injuries = pg, pg, pg
		s.Checks["postgres"] = pg.Ping
		s.closers = append(s.closers, pg.Close)
		logger.Info("PostgreSQL storage initialized")
	} else {
		mem := storage.NewMemoryStorage()
		s.Recommendations, s.Rankings, s.Injuries = mem, mem, mem
		logger.Warn("postgres dsn not set, using in-memory storage")
	}

	if cfg.Redis.URL != "" {
		guard, err := storage.NewRedisAlertGuard(&cfg.Redis)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to initialize Redis alert guard: %w", err)
		}
		s.Alerts = guard
		s.Checks["redis"] = guard.Ping
		s.closers = append(s.closers, guard.Close)
		logger.Info("Redis alert guard initialized")
	} else {
		s.Alerts = storage.NewMemoryAlertGuard()
	}
	return s, nil
}

// Close releases every backend connection.
func (s *Stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// NewSender returns the Telegram sender, or a logging sender for dry runs and missing credentials.
// stop must be called before exit so queued messages are flushed.
func NewSender(cfg *config.NotifierConfig, recorder *metrics.Recorder, logger *slog.Logger) (sender notifier.Sender, stop func(), err error) {
	if cfg.DryRun || cfg.TelegramBotToken == "" {
		logger.Warn("telegram disabled, messages are only logged", "dry_run", cfg.DryRun)
		return notifier.NewLogSender(recorder, logger), func() {}, nil
	}
	tg, err := notifier.NewTelegramSender(cfg, recorder, logger)
	if err != nil {
		return nil, nil, err
	}
	return tg, tg.Stop, nil
}

// StartOps serves the ops endpoints until ctx is done. An empty address disables the server.
func StartOps(ctx context.Context, cfg *config.Config, service string, stores *Stores, recorder *metrics.Recorder) {
	if cfg.HTTP.Addr == "" {
		return
	}
	router := health.NewRouter(health.Deps{
		Recommendations: stores.Recommendations,
		Metrics:         recorder,
		Checks:          stores.Checks,
		Location:        cfg.Location(),
	})
	health.Run(ctx, cfg.HTTP.Addr, service, router, 5*time.Second)
}

// Cycle is one scheduled run.
type Cycle func(ctx context.Context, logger *slog.Logger) error

// Loop runs cycle immediately, then every interval until ctx is done. With once set it returns after the first run.
// Runs never overlap; each one gets its own run_id.
func Loop(ctx context.Context, job string, interval time.Duration, once bool, recorder *metrics.Recorder, logger *slog.Logger, cycle Cycle) error {
	run := func() error {
		runLogger := logger.With("run_id", uuid.NewString(), "job", job)
		start := time.Now()
		err := cycle(ctx, runLogger)
		recorder.RunFinished(job, err, time.Since(start))
		if err != nil {
			runLogger.Error("run failed", "error", err, "duration", time.Since(start))
		} else {
			runLogger.Info("run finished", "duration", time.Since(start))
		}
		return err
	}

	err := run()
	if once {
		return err
	}

	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping run loop", "job", job)
			return nil
		case <-ticker.C:
			_ = run()
		}
	}
}
