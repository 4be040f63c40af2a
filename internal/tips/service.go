// Package tips runs the daily tips cycle: it refreshes leaderboards and injuries, then posts the agenda,
// status news, style-clash alerts and free tickets for the day's games.
package tips

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/ai"
	"github.com/Vodeneev/hoopsedge/internal/notifier"
	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
	"github.com/Vodeneev/hoopsedge/internal/pkg/metrics"
	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
	"github.com/Vodeneev/hoopsedge/internal/pkg/storage"
	"github.com/Vodeneev/hoopsedge/internal/styleclash"
)

// Alert kinds used with the AlertGuard.
const (
	kindAgenda = "agenda"
	kindStatus = "status"
	kindClash  = "clash"
	kindTicket = "free_ticket"
)

// Feed is the slice of the sports-data client the tips cycle needs.
type Feed interface {
	Scoreboard(ctx context.Context, day time.Time) ([]models.Event, error)
	Injuries(ctx context.Context) ([]models.InjuryRecord, error)
	TeamLeaders(ctx context.Context, day time.Time, topDefensive, topOffensive int) ([]models.RankingEntry, error)
	AthleteLeaders(ctx context.Context, day time.Time) ([]models.RankingEntry, error)
	RecentAverage(ctx context.Context, teamID string, n int) (float64, bool, error)
}

// Stores groups the persistence the cycle reads and writes.
type Stores struct {
	Rankings storage.RankingStore
	Injuries storage.InjuryStore
	Alerts   storage.AlertGuard
}

type Service struct {
	cfg         config.StyleClashConfig
	recentGames int
	loc         *time.Location

	feed     Feed
	stores   Stores
	writer   ai.Generator
	sender   notifier.Sender
	detector *styleclash.Detector
	composer *styleclash.Composer
	metrics  *metrics.Recorder
	logger   *slog.Logger
}

func NewService(cfg *config.Config, feed Feed, stores Stores, writer ai.Generator, sender notifier.Sender, recorder *metrics.Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:         cfg.StyleClash,
		recentGames: cfg.Feeds.RecentGames,
		loc:         cfg.Location(),
		feed:        feed,
		stores:      stores,
		writer:      writer,
		sender:      sender,
		detector:    styleclash.NewDetector(cfg.StyleClash),
		composer:    styleclash.NewComposer(cfg.StyleClash.CandidateLimit, logger),
		metrics:     recorder,
		logger:      logger,
	}
}

// RunResult summarizes one cycle.
type RunResult struct {
	Games       int
	Clashes     int
	FreeTickets int
	Messages    int
}

// Run executes one cycle for the calendar day of now.
func (s *Service) Run(ctx context.Context, now time.Time) (RunResult, error) {
	var res RunResult
	day := s.calendarDay(now)

	s.Refresh(ctx, day)

	events, err := s.feed.Scoreboard(ctx, day)
	if err != nil {
		return res, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}
	events = upcoming(events)
	res.Games = len(events)
	if len(events) == 0 {
		s.logger.Warn("no games left today", "date", day.Format("2006-01-02"))
		return res, nil
	}

	table, err := styleclash.LoadTable(ctx, s.stores.Rankings, day)
	if err != nil {
		s.logger.Error("rankings unavailable, continuing with an empty table", "error", err)
		table = styleclash.NewRankingTable(day)
	}

	if s.firstToday(ctx, day, kindAgenda, "schedule") {
		agenda := s.send(ctx, &res, FormatAgenda(events, s.loc))
		status := s.send(ctx, &res, s.statusNews(ctx, table, events))
		if !agenda && !status {
			s.forget(ctx, day, kindAgenda, "schedule")
		}
	}

	for _, ev := range events {
		clash, ok := s.detector.Detect(table, ev.HomeTeam, ev.AwayTeam)
		if !ok {
			continue
		}
		s.metrics.ClashDetected()
		res.Clashes++
		if !s.firstToday(ctx, day, kindClash, clash.Winner) {
			s.logger.Debug("clash alert already sent today", "winner", clash.Winner)
			continue
		}
		if !s.send(ctx, &res, s.clashAlert(ctx, table, ev, clash)) {
			s.forget(ctx, day, kindClash, clash.Winner)
		}
	}

	for _, ev := range events {
		ticket, ok := s.freeTicket(ctx, table, ev)
		if !ok {
			continue
		}
		if !s.firstToday(ctx, day, kindTicket, ev.EventID) {
			continue
		}
		res.FreeTickets++
		if !s.send(ctx, &res, FormatFreeTicket(ticket)) {
			s.forget(ctx, day, kindTicket, ev.EventID)
		}
	}

	s.logger.Info("tips cycle finished",
		"games", res.Games, "clashes", res.Clashes, "free_tickets", res.FreeTickets, "messages", res.Messages)
	return res, nil
}

// Refresh replaces the day's leaderboards and the injury report in the stores.
// Feed failures keep whatever the stores already hold.
func (s *Service) Refresh(ctx context.Context, day time.Time) {
	if injuries, err := s.feed.Injuries(ctx); err != nil {
		s.logger.Error("failed to fetch injuries", "error", err)
	} else if err := s.stores.Injuries.ReplaceInjuries(ctx, injuries); err != nil {
		s.logger.Error("failed to store injuries", "error", err)
	}

	// A side mixes team and player rows, so a partial fetch would drop the other half.
	teams, err := s.feed.TeamLeaders(ctx, day, s.cfg.TopDefensive, s.cfg.TopOffensive)
	if err != nil {
		s.logger.Error("failed to fetch team leaderboards, keeping stored rankings", "error", err)
		return
	}
	players, err := s.feed.AthleteLeaders(ctx, day)
	if err != nil {
		s.logger.Error("failed to fetch athlete leaderboards, keeping stored rankings", "error", err)
		return
	}
	rows := append(teams, players...)

	bySide := map[models.RankingSide][]models.RankingEntry{}
	for _, r := range rows {
		r.ReferenceDate = day
		bySide[r.Side()] = append(bySide[r.Side()], r)
	}
	for _, side := range []models.RankingSide{models.SideOffensive, models.SideDefensive} {
		if len(bySide[side]) == 0 {
			s.logger.Warn("no ranking rows fetched, keeping stored rows", "side", side)
			continue
		}
		if err := s.stores.Rankings.ReplaceRankings(ctx, side, day, bySide[side]); err != nil {
			s.logger.Error("failed to store rankings", "side", side, "error", err)
		}
	}
}

func (s *Service) statusNews(ctx context.Context, table *styleclash.RankingTable, events []models.Event) string {
	var notes []StatusNote
	for _, ev := range events {
		for _, team := range []string{ev.HomeTeam, ev.AwayTeam} {
			prompt, ok := s.statusPrompt(ctx, table, team)
			if !ok {
				continue
			}
			notes = append(notes, StatusNote{Team: team, Text: stripTeamPrefix(s.writer.Generate(ctx, prompt), team)})
		}
	}
	return FormatStatusNews(notes)
}

func (s *Service) statusPrompt(ctx context.Context, table *styleclash.RankingTable, team string) (string, bool) {
	if p, ok := table.TopPlayer(models.SideOffensive, team, statusNewsRank); ok {
		if s.injured(ctx, p.SubjectName) {
			return offensiveAbsencePrompt(p, team), true
		}
		return offensiveLeaderPrompt(p, team), true
	}
	if p, ok := table.TopPlayer(models.SideDefensive, team, statusNewsRank); ok {
		if s.injured(ctx, p.SubjectName) {
			return defensiveAbsencePrompt(p, team), true
		}
		return defensiveLeaderPrompt(p, team), true
	}
	return "", false
}

func (s *Service) clashAlert(ctx context.Context, table *styleclash.RankingTable, ev models.Event, clash styleclash.Clash) string {
	ppg := s.recentAverage(ctx, teamID(ev, clash.Winner))
	bet := s.composer.Compose(ctx, table, s.stores.Injuries, clash, ppg)
	text := s.writer.Generate(ctx, clashPrompt(clash))
	s.logger.Info("style clash", "event_id", ev.EventID, "winner", clash.Winner, "rival", clash.Rival, "legs", len(bet.Legs))
	return FormatClashAlert(text, bet)
}

// freeTicket collects team total legs for hot offenses and points legs for healthy top scorers.
func (s *Service) freeTicket(ctx context.Context, table *styleclash.RankingTable, ev models.Event) (FreeTicket, bool) {
	ticket := FreeTicket{HomeTeam: ev.HomeTeam, AwayTeam: ev.AwayTeam}

	for _, side := range []struct{ team, id string }{{ev.HomeTeam, ev.HomeTeamID}, {ev.AwayTeam, ev.AwayTeamID}} {
		avg := s.recentAverage(ctx, side.id)
		if avg < s.cfg.TeamTotalMinAverage {
			continue
		}
		if leg, ok := styleclash.PointsLeg(models.LegTeamTotal, side.team, avg); ok {
			ticket.Legs = append(ticket.Legs, leg)
		}
	}

	for _, team := range []string{ev.HomeTeam, ev.AwayTeam} {
		cands := table.PlayerCandidates(models.SideOffensive, team, 1)
		if len(cands) == 0 {
			continue
		}
		scorer := cands[0]
		leg, ok := styleclash.PointsLeg(models.LegPlayerPoints, scorer.SubjectName, styleclash.AveragePoints(scorer))
		if !ok || s.injured(ctx, scorer.SubjectName) {
			continue
		}
		ticket.Highlights = append(ticket.Highlights, Highlight{Player: scorer.SubjectName, Team: team})
		ticket.Legs = append(ticket.Legs, leg)
	}

	if len(ticket.Legs) == 0 {
		return FreeTicket{}, false
	}
	ticket.Analysis = s.writer.Generate(ctx, freeTicketPrompt(ev))
	return ticket, true
}

func (s *Service) recentAverage(ctx context.Context, teamID string) float64 {
	if teamID == "" {
		return 0
	}
	avg, ok, err := s.feed.RecentAverage(ctx, teamID, s.recentGames)
	if err != nil {
		s.logger.Warn("recent average unavailable", "team_id", teamID, "error", err)
		return 0
	}
	if !ok {
		return 0
	}
	return avg
}

// injured treats a failed lookup as injured, the same way the composer does.
func (s *Service) injured(ctx context.Context, player string) bool {
	hurt, err := s.stores.Injuries.IsInjured(ctx, player)
	if err != nil {
		s.logger.Warn("injury lookup failed", "player", player, "error", err)
		return true
	}
	return hurt
}

// firstToday consults the alert guard. A guard failure lets the message through.
func (s *Service) firstToday(ctx context.Context, day time.Time, kind, key string) bool {
	if s.stores.Alerts == nil {
		return true
	}
	first, err := s.stores.Alerts.MarkOnce(ctx, day, kind, key)
	if err != nil {
		s.logger.Warn("alert guard unavailable", "kind", kind, "key", key, "error", err)
		return true
	}
	return first
}

// forget releases a marker taken by firstToday after the message failed to go out.
func (s *Service) forget(ctx context.Context, day time.Time, kind, key string) {
	if s.stores.Alerts == nil {
		return
	}
	if err := s.stores.Alerts.Forget(ctx, day, kind, key); err != nil {
		s.logger.Warn("failed to release alert marker", "kind", kind, "key", key, "error", err)
	}
}

// send reports whether text was handed to the sender. Empty text counts as delivered.
func (s *Service) send(ctx context.Context, res *RunResult, text string) bool {
	if text == "" {
		return true
	}
	if err := s.sender.Send(ctx, text); err != nil {
		s.logger.Error("failed to send message", "error", err)
		return false
	}
	res.Messages++
	return true
}

func (s *Service) calendarDay(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

func upcoming(events []models.Event) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, ev := range events {
		if !ev.Finished() {
			out = append(out, ev)
		}
	}
	return out
}

func teamID(ev models.Event, team string) string {
	if models.SameName(team, ev.HomeTeam) {
		return ev.HomeTeamID
	}
	return ev.AwayTeamID
}
