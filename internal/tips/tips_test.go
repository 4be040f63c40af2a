package tips

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/ai"
	"github.com/Vodeneev/hoopsedge/internal/notifier"
	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
	"github.com/Vodeneev/hoopsedge/internal/pkg/storage"
	"github.com/Vodeneev/hoopsedge/internal/styleclash"
)

type fakeFeed struct {
	events      []models.Event
	scoreErr    error
	injuries    []models.InjuryRecord
	teamRows    []models.RankingEntry
	athleteRows []models.RankingEntry
	teamErr     error
	athleteErr  error
	averages    map[string]float64
}

func (f *fakeFeed) Scoreboard(context.Context, time.Time) ([]models.Event, error) {
	return f.events, f.scoreErr
}

func (f *fakeFeed) Injuries(context.Context) ([]models.InjuryRecord, error) {
	return f.injuries, nil
}

func (f *fakeFeed) TeamLeaders(context.Context, time.Time, int, int) ([]models.RankingEntry, error) {
	return f.teamRows, f.teamErr
}

func (f *fakeFeed) AthleteLeaders(context.Context, time.Time) ([]models.RankingEntry, error) {
	return f.athleteRows, f.athleteErr
}

func (f *fakeFeed) RecentAverage(_ context.Context, teamID string, _ int) (float64, bool, error) {
	avg, ok := f.averages[teamID]
	return avg, ok, nil
}

func teamRow(team string, category models.StatCategory, rank int) models.RankingEntry {
	return models.RankingEntry{Kind: models.SubjectTeam, SubjectName: team, TeamName: team, Category: category, RankPosition: rank}
}

func playerRow(name, team string, category models.StatCategory, rank int, pts, stl, blk float64) models.RankingEntry {
	return models.RankingEntry{
		Kind: models.SubjectPlayer, SubjectName: name, TeamName: team, Category: category, RankPosition: rank,
		AvgPoints: pts, AvgSteals: stl, AvgBlocks: blk,
	}
}

func newFixture(t *testing.T) (*Service, *fakeFeed, *notifier.LogSender) {
	t.Helper()
	cfg, err := config.Parse([]byte("{}"), nil)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	loc := cfg.Location()

	feed := &fakeFeed{
		events: []models.Event{
			{
				EventID: "401", HomeTeam: "Boston Celtics", AwayTeam: "Orlando Magic", HomeTeamID: "2", AwayTeamID: "19",
				ScheduledAt: time.Date(2025, 12, 10, 21, 30, 0, 0, loc), State: "pre",
			},
			{
				EventID: "402", HomeTeam: "Los Angeles Lakers", AwayTeam: "Golden State Warriors",
				ScheduledAt: time.Date(2025, 12, 10, 19, 0, 0, 0, loc), State: "post",
			},
		},
		injuries: []models.InjuryRecord{{PlayerName: "Paolo Banchero", Status: "Out"}},
		teamRows: []models.RankingEntry{
			teamRow("Boston Celtics", models.CategorySteals, 1),
			teamRow("Boston Celtics", models.CategoryPoints, 1),
		},
		athleteRows: []models.RankingEntry{
			playerRow("Jayson Tatum", "Boston Celtics", models.CategoryPoints, 1, 27.9, 1.1, 0.6),
			playerRow("Jrue Holiday", "Boston Celtics", models.CategoryPoints, 2, 12.5, 1.4, 0.8),
			playerRow("Paolo Banchero", "Orlando Magic", models.CategoryPoints, 30, 25.1, 0.9, 0.5),
			playerRow("Jrue Holiday", "Boston Celtics", models.CategorySteals, 1, 12.5, 1.4, 0.8),
			playerRow("Jayson Tatum", "Boston Celtics", models.CategorySteals, 2, 27.9, 1.1, 0.6),
		},
		averages: map[string]float64{"2": 118.3, "19": 101},
	}

	mem := storage.NewMemoryStorage()
	sender := notifier.NewLogSender(nil, nil)
	stores := Stores{Rankings: mem, Injuries: mem, Alerts: storage.NewMemoryAlertGuard()}
	return NewService(cfg, feed, stores, ai.Static("Big night ahead."), sender, nil, nil), feed, sender
}

func TestRun_FullCycle(t *testing.T) {
	svc, _, sender := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 12, 10, 15, 0, 0, 0, svc.loc)

	res, err := svc.Run(ctx, now)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Games != 1 || res.Clashes != 1 || res.FreeTickets != 1 || res.Messages != 4 {
		t.Fatalf("result = %+v", res)
	}

	sent := sender.Sent()
	if !strings.Contains(sent[0], "21:30 - <b>Boston Celtics</b> x <b>Orlando Magic</b>") || strings.Contains(sent[0], "Lakers") {
		t.Errorf("agenda = %q", sent[0])
	}
	if !strings.Contains(sent[1], "<b>Boston Celtics</b>: Big night ahead.") || strings.Contains(sent[1], "Orlando") {
		t.Errorf("status news = %q", sent[1])
	}

	clash := sent[2]
	for _, want := range []string{
		"STYLE CLASH ALERT",
		"✔️ Boston Celtics to win",
		"✔️ Boston Celtics 116+ points",
		"✔️ Jayson Tatum 24+ points",
		"✔️ Jrue Holiday 10+ points",
		"Technical note",
	} {
		if !strings.Contains(clash, want) {
			t.Errorf("clash alert missing %q:\n%s", want, clash)
		}
	}

	ticket := sent[3]
	if !strings.Contains(ticket, "🏀 <b>Boston Celtics</b> 116+ points") || !strings.Contains(ticket, "👤 Jayson Tatum 24+ points") {
		t.Errorf("free ticket = %q", ticket)
	}
	if strings.Contains(ticket, "Banchero") || strings.Contains(ticket, "Orlando Magic</b> 9") {
		t.Errorf("free ticket should skip injured scorer and cold offense:\n%s", ticket)
	}

	// a second cycle the same day sends nothing new
	res, err = svc.Run(ctx, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if res.Messages != 0 || res.Clashes != 1 {
		t.Errorf("second run = %+v, want no messages", res)
	}
}

func TestRun_ScoreboardFailure(t *testing.T) {
	svc, feed, sender := newFixture(t)
	feed.scoreErr = errors.New("espn down")

	if _, err := svc.Run(context.Background(), time.Now()); err == nil {
		t.Fatal("expected scoreboard error")
	}
	if len(sender.Sent()) != 0 {
		t.Errorf("nothing should be sent, got %d", len(sender.Sent()))
	}
}

func TestRun_NoGamesLeft(t *testing.T) {
	svc, feed, sender := newFixture(t)
	feed.events = feed.events[1:]

	res, err := svc.Run(context.Background(), time.Now())
	if err != nil || res.Games != 0 || len(sender.Sent()) != 0 {
		t.Errorf("Run = %+v, %v; sent %d", res, err, len(sender.Sent()))
	}
}

func TestFreeTicket_SkippedWithoutLegs(t *testing.T) {
	svc, feed, _ := newFixture(t)
	ctx := context.Background()
	feed.averages = map[string]float64{"2": 99, "19": 98}
	feed.athleteRows = nil
	day := svc.calendarDay(time.Now())
	svc.Refresh(ctx, day)

	table := newTableFromStore(t, svc, day)
	if _, ok := svc.freeTicket(ctx, table, feed.events[0]); ok {
		t.Error("ticket without legs should be skipped")
	}
}

func TestStatusNews_InjuredLeaderAndPlaceholder(t *testing.T) {
	svc, feed, _ := newFixture(t)
	ctx := context.Background()
	feed.injuries = []models.InjuryRecord{{PlayerName: "jayson tatum", Status: "Out"}}
	day := svc.calendarDay(time.Now())
	svc.Refresh(ctx, day)
	table := newTableFromStore(t, svc, day)

	prompt, ok := svc.statusPrompt(ctx, table, "Boston Celtics")
	if !ok || !strings.Contains(prompt, "INJURED") || !strings.Contains(prompt, "Jayson Tatum") {
		t.Errorf("prompt = %q, %v", prompt, ok)
	}
	if _, ok := svc.statusPrompt(ctx, table, "Orlando Magic"); ok {
		t.Error("Orlando has no leader within the top 5")
	}

	if got := FormatStatusNews(nil); !strings.Contains(got, noStatusNewsText) {
		t.Errorf("empty status news = %q", got)
	}
}

func TestStripTeamPrefix(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Boston Celtics: Tatum leads the league.", "Tatum leads the league."},
		{"boston celtics:Tatum", "Tatum"},
		{"Tatum leads the league.", "Tatum leads the league."},
		{"Boston", "Boston"},
	}
	for _, tt := range tests {
		if got := stripTeamPrefix(tt.in, "Boston Celtics"); got != tt.want {
			t.Errorf("stripTeamPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatClashAlert_EscapesModelText(t *testing.T) {
	bet := models.MultiLegBet{Legs: []models.Leg{{Kind: models.LegMoneyline, Label: "Boston Celtics to win"}}}
	got := FormatClashAlert("Edge <big> & clear", bet)
	if !strings.Contains(got, "Edge &lt;big&gt; &amp; clear") {
		t.Errorf("alert = %q", got)
	}
}

func TestRefresh_LeaderboardFailureKeepsStoredRows(t *testing.T) {
	for _, tt := range []struct {
		name string
		fail func(*fakeFeed)
	}{
		{"team feed", func(f *fakeFeed) { f.teamErr = errors.New("espn 502") }},
		{"athlete feed", func(f *fakeFeed) { f.athleteErr = errors.New("espn 502") }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			svc, feed, _ := newFixture(t)
			ctx := context.Background()
			day := svc.calendarDay(time.Now())
			svc.Refresh(ctx, day)
			before, _ := svc.stores.Rankings.Rankings(ctx, models.SideDefensive, day)

			tt.fail(feed)
			feed.teamRows = nil
			feed.athleteRows = []models.RankingEntry{playerRow("Other Guard", "Miami Heat", models.CategorySteals, 1, 10, 2, 0)}
			svc.Refresh(ctx, day)

			after, _ := svc.stores.Rankings.Rankings(ctx, models.SideDefensive, day)
			if len(before) != 3 || len(after) != len(before) {
				t.Fatalf("defensive rows before=%d after=%d, want 3 kept", len(before), len(after))
			}
			table := newTableFromStore(t, svc, day)
			if _, ok := svc.detector.Detect(table, "Boston Celtics", "Orlando Magic"); !ok {
				t.Error("stored team rows should still produce the clash")
			}
		})
	}
}

// failingSender rejects messages containing match and records the rest.
type failingSender struct {
	match    string
	failures int
	sent     []string
}

func (f *failingSender) Send(_ context.Context, text string) error {
	if f.failures > 0 && strings.Contains(text, f.match) {
		f.failures--
		return errors.New("message queue is full")
	}
	f.sent = append(f.sent, text)
	return nil
}

func TestRun_FailedClashAlertIsRetried(t *testing.T) {
	svc, _, _ := newFixture(t)
	sender := &failingSender{match: "STYLE CLASH ALERT", failures: 1}
	svc.sender = sender
	ctx := context.Background()
	now := time.Date(2025, 12, 10, 15, 0, 0, 0, svc.loc)

	res, err := svc.Run(ctx, now)
	if err != nil || res.Messages != 3 {
		t.Fatalf("first Run = %+v, %v; want 3 messages", res, err)
	}
	res, err = svc.Run(ctx, now.Add(time.Hour))
	if err != nil || res.Messages != 1 {
		t.Fatalf("second Run = %+v, %v; want only the clash alert", res, err)
	}
	if last := sender.sent[len(sender.sent)-1]; !strings.Contains(last, "STYLE CLASH ALERT") {
		t.Errorf("retried message = %q", last)
	}
	if res, _ = svc.Run(ctx, now.Add(2*time.Hour)); res.Messages != 0 {
		t.Errorf("third Run sent %d messages, want 0", res.Messages)
	}
}

func newTableFromStore(t *testing.T, svc *Service, day time.Time) *styleclash.RankingTable {
	t.Helper()
	table, err := styleclash.LoadTable(context.Background(), svc.stores.Rankings, day)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	return table
}
