package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/app"
	"github.com/Vodeneev/hoopsedge/internal/feed/espn"
	"github.com/Vodeneev/hoopsedge/internal/feed/nbastats"
	"github.com/Vodeneev/hoopsedge/internal/handicap"
	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
	"github.com/Vodeneev/hoopsedge/internal/pkg/logging"
	"github.com/Vodeneev/hoopsedge/internal/pkg/metrics"
)

const (
	serviceName       = "handicap"
	defaultConfigPath = "configs/production.yaml"
)

func main() {
	var configPath string
	var once bool

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.BoolVar(&once, "once", false, "Run a single cycle and exit")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, closeLogs, err := logging.SetupLogger(&cfg.Logging, serviceName)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	defer closeLogs()
	logger.Info("Config loaded", "path", configPath, "timezone", cfg.Schedule.Timezone)

	recorder := metrics.NewRecorder(metrics.WithProcessCollectors())

	stores, err := app.OpenStores(cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("Error closing storage", "error", err)
		}
	}()

	sender, stopSender, err := app.NewSender(&cfg.Notifier, recorder, logger)
	if err != nil {
		logger.Error("Failed to create Telegram sender", "error", err)
		os.Exit(1)
	}
	defer stopSender()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app.StartOps(ctx, cfg, serviceName, stores, recorder)

	loc := cfg.Location()
	scoreboard := espn.NewClient(&cfg.Feeds, loc, recorder, logger)
	stats := nbastats.NewClient(&cfg.Feeds, recorder, logger)

	cycle := func(ctx context.Context, runLogger *slog.Logger) error {
		persister := handicap.NewPersister(stores.Recommendations, recorder, runLogger)
		job := handicap.NewJob(handicap.JobOptions{
			Events:   scoreboard,
			Stats:    stats,
			Pipeline: handicap.NewPipeline(cfg.Scoring, scoreboard, persister, runLogger),
			Sender:   sender,
			Alerts:   stores.Alerts,
			PickCap:  cfg.Notifier.PickCap,
			Location: loc,
			Metrics:  recorder,
			Logger:   runLogger,
		})
		_, err := job.Run(ctx, time.Now())
		return err
	}

	logger.Info("Starting handicap service", "interval", cfg.Schedule.Interval, "once", once)
	if err := app.Loop(ctx, serviceName, cfg.Schedule.Interval, once, recorder, logger, cycle); err != nil && once {
		stopSender()
		logger.Error("Handicap run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Handicap service stopped")
}
