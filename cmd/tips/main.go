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

	"github.com/Vodeneev/hoopsedge/internal/ai"
	"github.com/Vodeneev/hoopsedge/internal/app"
	"github.com/Vodeneev/hoopsedge/internal/feed/espn"
	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
	"github.com/Vodeneev/hoopsedge/internal/pkg/logging"
	"github.com/Vodeneev/hoopsedge/internal/pkg/metrics"
	"github.com/Vodeneev/hoopsedge/internal/tips"
)

const (
	serviceName       = "tips"
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

	feed := espn.NewClient(&cfg.Feeds, cfg.Location(), recorder, logger)
	writer := ai.NewGeminiClient(&cfg.AI, recorder, logger)
	if cfg.AI.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, using fallback texts")
	}
	tipStores := tips.Stores{Rankings: stores.Rankings, Injuries: stores.Injuries, Alerts: stores.Alerts}

	cycle := func(ctx context.Context, runLogger *slog.Logger) error {
		svc := tips.NewService(cfg, feed, tipStores, writer, sender, recorder, runLogger)
		_, err := svc.Run(ctx, time.Now())
		return err
	}

	logger.Info("Starting tips service", "interval", cfg.Schedule.Interval, "once", once)
	if err := app.Loop(ctx, serviceName, cfg.Schedule.Interval, once, recorder, logger, cycle); err != nil && once {
		stopSender()
		logger.Error("Tips run failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Tips service stopped")
}
