package handicap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/notifier"
	"github.com/Vodeneev/hoopsedge/internal/pkg/metrics"
	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
	"github.com/Vodeneev/hoopsedge/internal/pkg/storage"
)

const reportKind = "handicap_report"

// EventSource lists the games of a day.
type EventSource interface {
	Scoreboard(ctx context.Context, day time.Time) ([]models.Event, error)
}

// StatsSource returns the current team efficiency snapshot keyed by team name.
type StatsSource interface {
	TeamStats(ctx context.Context) (map[string]models.TeamStat, error)
}

// Job is one scheduled handicap cycle: fetch, score, persist, report.
type Job struct {
	events   EventSource
	stats    StatsSource
	pipeline *Pipeline
	sender   notifier.Sender
	alerts   storage.AlertGuard
	pickCap  int
	loc      *time.Location
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

// JobOptions carries the collaborators of a Job. Alerts may be nil, which sends the report on every run.
type JobOptions struct {
	Events   EventSource
	Stats    StatsSource
	Pipeline *Pipeline
	Sender   notifier.Sender
	Alerts   storage.AlertGuard
	PickCap  int
	Location *time.Location
	Metrics  *metrics.Recorder
	Logger   *slog.Logger
}

func NewJob(opts JobOptions) *Job {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Job{
		events:   opts.Events,
		stats:    opts.Stats,
		pipeline: opts.Pipeline,
		sender:   opts.Sender,
		alerts:   opts.Alerts,
		pickCap:  opts.PickCap,
		loc:      opts.Location,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
	}
}

// Run scores the games of now's calendar day and sends the daily report once.
func (j *Job) Run(ctx context.Context, now time.Time) (RunResult, error) {
	now = now.In(j.loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, j.loc)

	stats, err := j.stats.TeamStats(ctx)
	if err != nil {
		j.logger.Error("team stats unavailable, scoring with placeholders", "error", err)
		stats = nil
	}

	events, err := j.events.Scoreboard(ctx, day)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	res := j.pipeline.Run(ctx, events, stats, day)

	if !j.firstReport(ctx, day) {
		j.logger.Debug("handicap report already sent today", "date", day.Format("2006-01-02"))
		return res, nil
	}
	sel := notifier.Select(res.Recommendations, j.pickCap)
	j.metrics.Suppressed(sel.Suppressed)
	if err := j.sender.Send(ctx, notifier.FormatReport(sel, j.loc)); err != nil {
		j.forgetReport(ctx, day)
		return res, fmt.Errorf("failed to send report: %w", err)
	}
	j.logger.Info("handicap report sent", "items", len(sel.Items), "picks", len(sel.Picks()), "suppressed", sel.Suppressed)
	return res, nil
}

func (j *Job) firstReport(ctx context.Context, day time.Time) bool {
	if j.alerts == nil {
		return true
	}
	first, err := j.alerts.MarkOnce(ctx, day, reportKind, "daily")
	if err != nil {
		j.logger.Warn("alert guard unavailable", "error", err)
		return true
	}
	return first
}

// forgetReport releases the day's marker so the next cycle sends the report again.
func (j *Job) forgetReport(ctx context.Context, day time.Time) {
	if j.alerts == nil {
		return
	}
	if err := j.alerts.Forget(ctx, day, reportKind, "daily"); err != nil {
		j.logger.Warn("failed to release report marker", "error", err)
	}
}
