// Package handicap scores the day's games against the quoted handicap lines.
package handicap

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// FatigueSource tells whether a team played on the day before day.
type FatigueSource interface {
	PlayedDayBefore(ctx context.Context, teamID string, day time.Time) (bool, error)
}

// Pipeline scores events and persists the results.
type Pipeline struct {
	params    MarginParams
	aliases   map[string]string
	checkB2B  bool
	fatigue   FatigueSource
	persister *Persister
	logger    *slog.Logger
}

// NewPipeline builds a pipeline from the scoring config. fatigue may be nil, which disables back-to-back checks.
func NewPipeline(cfg config.ScoringConfig, fatigue FatigueSource, persister *Persister, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		params:    MarginParams{HomeCourt: cfg.HomeCourt, BackToBackPenalty: cfg.BackToBackPenalty},
		aliases:   cfg.TeamAliases,
		checkB2B:  cfg.CheckBackToBack && fatigue != nil,
		fatigue:   fatigue,
		persister: persister,
		logger:    logger,
	}
}

// RunResult is the output of one run.
type RunResult struct {
	Recommendations []models.Recommendation
	Persist         PersistResult
}

// Run scores every event in order and persists the batch.
func (p *Pipeline) Run(ctx context.Context, events []models.Event, stats map[string]models.TeamStat, reportDate time.Time) RunResult {
	recs := p.Score(ctx, events, stats, reportDate)
	res := RunResult{Recommendations: recs}
	if p.persister != nil {
		res.Persist = p.persister.PersistAll(ctx, recs)
	}
	p.logger.Info("handicap run scored",
		"events", len(events), "recommendations", len(recs),
		"inserted", res.Persist.Inserted, "skipped", res.Persist.Skipped, "failed", res.Persist.Failed)
	return res
}

// Score builds one recommendation per event without touching the store.
func (p *Pipeline) Score(ctx context.Context, events []models.Event, stats map[string]models.TeamStat, reportDate time.Time) []models.Recommendation {
	normalizer := NewNormalizer(stats, p.aliases, p.logger)
	if normalizer.Size() == 0 {
		p.logger.Warn("no team statistics available; every recommendation will use placeholders")
	}

	recs := make([]models.Recommendation, 0, len(events))
	for _, ev := range events {
		if ev.EventID == "" {
			p.logger.Warn("skipping event without id", "home", ev.HomeTeam, "away", ev.AwayTeam)
			continue
		}
		home, away := normalizer.Pair(ev)
		fatigue := p.fatigueFor(ctx, ev, reportDate)

		features, err := ComputeFeatures(home, away, fatigue, ev.MarketLine, ev.HomeTeam, p.params)
		if err != nil {
			p.logger.Warn("market line not parsed, using 0", "event_id", ev.EventID, "line", ev.MarketLine, "error", err)
		}
		class := Classify(features.Edge)
		recs = append(recs, BuildRecommendation(ev, home, away, features, class, reportDate))
	}
	return recs
}

func (p *Pipeline) fatigueFor(ctx context.Context, ev models.Event, day time.Time) Fatigue {
	if !p.checkB2B {
		return Fatigue{}
	}
	return Fatigue{
		HomeBackToBack: p.playedDayBefore(ctx, ev.EventID, ev.HomeTeamID, day),
		AwayBackToBack: p.playedDayBefore(ctx, ev.EventID, ev.AwayTeamID, day),
	}
}

func (p *Pipeline) playedDayBefore(ctx context.Context, eventID, teamID string, day time.Time) bool {
	if teamID == "" {
		return false
	}
	played, err := p.fatigue.PlayedDayBefore(ctx, teamID, day)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.logger.Warn("back-to-back check failed, assuming rested", "event_id", eventID, "team_id", teamID, "error", err)
		}
		return false
	}
	return played
}
