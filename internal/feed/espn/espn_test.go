package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

const scoreboardJSON = `{
  "leagues": [{"abbreviation": "NBA"}],
  "events": [
    {
      "id": "401",
      "date": "2025-12-11T00:30Z",
      "status": {"type": {"state": "pre"}},
      "competitions": [{
        "competitors": [
          {"homeAway": "home", "team": {"id": "2", "displayName": "Boston Celtics", "abbreviation": "BOS"}},
          {"homeAway": "away", "team": {"id": "19", "displayName": "Orlando Magic", "abbreviation": "ORL"}}
        ],
        "odds": [{"details": "BOS -7.5"}]
      }]
    },
    {
      "id": "402",
      "date": "2025-12-11T03:00:00Z",
      "status": {"type": {"state": "post"}},
      "competitions": [{
        "competitors": [
          {"homeAway": "home", "team": {"id": "13", "displayName": "Los Angeles Lakers"}},
          {"homeAway": "away", "team": {"id": "9", "displayName": "Golden State Warriors"}}
        ]
      }]
    },
    {"id": "403", "date": "2025-12-11T03:00Z", "competitions": []}
  ]
}`

const injuriesJSON = `{
  "injuries": [
    {
      "displayName": "Boston Celtics",
      "injuries": [
        {"status": "Out", "shortComment": "Ankle", "date": "2025-12-10T18:00Z", "athlete": {"displayName": "Jayson Tatum"}},
        {"status": "Out", "athlete": {"displayName": " "}}
      ]
    },
    {
      "displayName": "Orlando Magic",
      "athletes": [{"displayName": "Paolo Banchero", "status": "Day-To-Day"}]
    }
  ]
}`

const teamLeadersJSON = `{
  "results": {"stats": [
    {"name": "steals", "leaders": [
      {"value": 9.8, "team": {"id": "19", "displayName": "Orlando Magic"}},
      {"value": "9.1", "team": {"id": "2", "displayName": "Boston Celtics"}}
    ]},
    {"name": "assists", "leaders": [{"value": 30, "team": {"id": "9", "displayName": "Golden State Warriors"}}]},
    {"name": "points", "leaders": [{"value": 121.4, "team": {"id": "2", "displayName": "Boston Celtics"}}]}
  ]}
}`

const athleteLeadersJSON = `{
  "athletes": [
    {"athlete": {"displayName": "Jayson Tatum", "teamName": "Celtics", "teamShortName": "BOS"},
     "categories": [{"name": "offensive", "totals": ["27.9", "9.1"]}, {"name": "defensive", "totals": ["1.1", "0.6"]}]},
    {"athlete": {"displayName": "Jrue Holiday", "teamName": "Celtics", "teamShortName": "BOS"},
     "categories": [{"name": "offensive", "totals": ["12.5"]}, {"name": "defensive", "totals": ["1.4", "0.8"]}]},
    {"athlete": {"displayName": "Wendell Carter Jr.", "teamName": "Magic", "teamShortName": "XXX"},
     "categories": [{"name": "offensive", "totals": ["11.0"]}, {"name": "defensive", "totals": ["0.6", "1.5"]}]}
  ]
}`

const scheduleJSON = `{
  "events": [
    {"id": "1", "date": "2025-12-08T00:00Z", "competitions": [{"status": {"type": {"completed": true}},
      "competitors": [{"team": {"id": "2"}, "score": {"value": 110, "displayValue": "110"}}, {"team": {"id": "5"}, "score": {"value": 100}}]}]},
    {"id": "2", "date": "2025-12-10T00:30Z", "competitions": [{"status": {"type": {"completed": true}},
      "competitors": [{"team": {"id": "2"}, "score": {"value": 120}}, {"team": {"id": "6"}, "score": {"value": 99}}]}]},
    {"id": "3", "date": "2025-12-12T00:30Z", "competitions": [{"status": {"type": {"completed": false}},
      "competitors": [{"team": {"id": "2"}}, {"team": {"id": "7"}}]}]}
  ]
}`

func newTestClient(t *testing.T) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/site/scoreboard", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dates") != "20251210" {
			http.Error(w, "bad date", http.StatusBadRequest)
			return
		}
		w.Write([]byte(scoreboardJSON))
	})
	mux.HandleFunc("/site/injuries", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(injuriesJSON)) })
	mux.HandleFunc("/site/teams/2/schedule", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(scheduleJSON)) })
	mux.HandleFunc("/web/v2/sports/basketball/nba/statistics/teams", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(teamLeadersJSON))
	})
	mux.HandleFunc("/web/common/v3/sports/basketball/nba/statistics/byathlete", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "50" {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		w.Write([]byte(athleteLeadersJSON))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.FeedsConfig{
		ESPNSiteURL:  srv.URL + "/site",
		ESPNWebURL:   srv.URL + "/web/",
		Timeout:      time.Second,
		UserAgent:    "test",
		AthleteLimit: 50,
	}
	return NewClient(cfg, loc, nil, nil)
}

func TestScoreboard(t *testing.T) {
	c := newTestClient(t)
	day := time.Date(2025, 12, 10, 12, 0, 0, 0, c.Location())

	events, err := c.Scoreboard(context.Background(), day)
	if err != nil {
		t.Fatalf("Scoreboard: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2 (malformed one skipped)", len(events))
	}

	ev := events[0]
	if ev.EventID != "401" || ev.HomeTeam != "Boston Celtics" || ev.AwayTeam != "Orlando Magic" {
		t.Errorf("unexpected event %+v", ev)
	}
	if ev.HomeTeamID != "2" || ev.AwayTeamID != "19" || ev.League != "NBA" {
		t.Errorf("unexpected ids/league %+v", ev)
	}
	if ev.MarketLine != "BOS -7.5" {
		t.Errorf("MarketLine = %q", ev.MarketLine)
	}
	if got := ev.ScheduledAt.Format("2006-01-02 15:04"); got != "2025-12-10 21:30" {
		t.Errorf("ScheduledAt local = %s", got)
	}
	if ev.Finished() {
		t.Error("pre game reported finished")
	}
	if !events[1].Finished() || events[1].MarketLine != "" {
		t.Errorf("second event = %+v", events[1])
	}
}

func TestInjuries(t *testing.T) {
	c := newTestClient(t)

	recs, err := c.Injuries(context.Background())
	if err != nil {
		t.Fatalf("Injuries: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].PlayerName != "Jayson Tatum" || recs[0].Status != "Out" || recs[0].Details != "Ankle" {
		t.Errorf("first record %+v", recs[0])
	}
	if !recs[0].UpdatedAt.Equal(time.Date(2025, 12, 10, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("UpdatedAt = %v", recs[0].UpdatedAt)
	}
	if recs[1].PlayerName != "Paolo Banchero" || recs[1].TeamName != "Orlando Magic" {
		t.Errorf("second record %+v", recs[1])
	}
}

func TestTeamLeaders(t *testing.T) {
	c := newTestClient(t)
	day := time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC)

	rows, err := c.TeamLeaders(context.Background(), day, 0, 0)
	if err != nil {
		t.Fatalf("TeamLeaders: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (unknown stat ignored)", len(rows))
	}
	if rows[1].SubjectName != "Boston Celtics" || rows[1].Category != models.CategorySteals || rows[1].RankPosition != 2 || rows[1].StatValue != 9.1 {
		t.Errorf("steals row = %+v", rows[1])
	}
	if rows[2].Category != models.CategoryPoints || rows[2].Side() != models.SideOffensive || rows[2].Kind != models.SubjectTeam {
		t.Errorf("points row = %+v", rows[2])
	}

	rows, err = c.TeamLeaders(context.Background(), day, 1, 5)
	if err != nil {
		t.Fatalf("TeamLeaders limited: %v", err)
	}
	if len(rows) != 2 || rows[0].SubjectName != "Orlando Magic" || rows[1].Category != models.CategoryPoints {
		t.Errorf("limited rows = %+v", rows)
	}
}

func TestAthleteLeaders(t *testing.T) {
	c := newTestClient(t)
	day := time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC)

	rows, err := c.AthleteLeaders(context.Background(), day)
	if err != nil {
		t.Fatalf("AthleteLeaders: %v", err)
	}

	byCategory := map[models.StatCategory][]models.RankingEntry{}
	for _, r := range rows {
		byCategory[r.Category] = append(byCategory[r.Category], r)
	}

	points := byCategory[models.CategoryPoints]
	if len(points) != 3 || points[0].SubjectName != "Jayson Tatum" || points[0].RankPosition != 1 || points[0].TeamName != "Boston Celtics" {
		t.Errorf("points rows = %+v", points)
	}
	if points[2].TeamName != "Magic" {
		t.Errorf("unknown abbreviation should keep feed team name, got %q", points[2].TeamName)
	}

	steals := byCategory[models.CategorySteals]
	if len(steals) != 3 || steals[0].SubjectName != "Jrue Holiday" || steals[0].StatValue != 1.4 {
		t.Errorf("steals rows = %+v", steals)
	}
	blocks := byCategory[models.CategoryBlocks]
	if len(blocks) != 3 || blocks[0].SubjectName != "Wendell Carter Jr." || blocks[0].AvgPoints != 11.0 {
		t.Errorf("blocks rows = %+v", blocks)
	}
}

func TestScheduleHelpers(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	games, err := c.TeamSchedule(ctx, "2")
	if err != nil {
		t.Fatalf("TeamSchedule: %v", err)
	}
	if len(games) != 3 || games[1].Score != 120 || !games[1].Completed || games[2].Completed {
		t.Errorf("games = %+v", games)
	}

	// last completed game tipped off at 21:30 on Dec 9 local time
	played, err := c.PlayedDayBefore(ctx, "2", time.Date(2025, 12, 10, 15, 0, 0, 0, c.Location()))
	if err != nil || !played {
		t.Errorf("PlayedDayBefore(Dec 10) = %v, %v; want true", played, err)
	}
	played, err = c.PlayedDayBefore(ctx, "2", time.Date(2025, 12, 11, 15, 0, 0, 0, c.Location()))
	if err != nil || played {
		t.Errorf("PlayedDayBefore(Dec 11) = %v, %v; want false", played, err)
	}

	avg, ok, err := c.RecentAverage(ctx, "2", 3)
	if err != nil || !ok || avg != 115 {
		t.Errorf("RecentAverage = %v, %v, %v; want 115", avg, ok, err)
	}

	if _, err := c.TeamSchedule(ctx, "99"); err == nil {
		t.Error("expected error for unknown team")
	}
}
