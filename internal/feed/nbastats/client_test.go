package nbastats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
)

const dashJSON = `{
  "resultSets": [{
    "name": "LeagueDashTeamStats",
    "headers": ["TEAM_ID", "TEAM_NAME", "GP", "NET_RATING", "PACE", "EFG_PCT"],
    "rowSet": [
      [1610612738, "Boston Celtics", 24, 9.7, 97.8, 0.571],
      [1610612753, "Orlando Magic", 24, 2.1, 99.2, 0.512],
      [1610612746, "LA Clippers", 24, null, 98.1, 0.53]
    ]
  }]
}`

func newTestServer(t *testing.T, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stats/leaguedashteamstats" || r.Header.Get("Referer") == "" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		q := r.URL.Query()
		if q.Get("MeasureType") != "Advanced" || q.Get("PerMode") != "Per100Possessions" || q.Get("Season") != "2025-26" {
			http.Error(w, "bad query", http.StatusBadRequest)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return NewClient(&config.FeedsConfig{
		NBAStatsURL: srv.URL + "/stats",
		Season:      "2025-26",
		Timeout:     time.Second,
		UserAgent:   "test",
	}, nil, nil)
}

func TestTeamStats(t *testing.T) {
	c := newTestServer(t, dashJSON)

	stats, err := c.TeamStats(context.Background())
	if err != nil {
		t.Fatalf("TeamStats: %v", err)
	}
	if len(stats) != 3 {
		t.Fatalf("got %d teams, want 3", len(stats))
	}
	bos := stats["Boston Celtics"]
	if bos.NetRating != 9.7 || bos.Pace != 97.8 || bos.EffectiveFGPct != 0.571 || bos.TeamID != "1610612738" {
		t.Errorf("Boston = %+v", bos)
	}
	if lac := stats["LA Clippers"]; lac.NetRating != 0 || lac.Pace != 98.1 {
		t.Errorf("null net rating should decode as 0, got %+v", lac)
	}
}

func TestTeamStats_MissingColumns(t *testing.T) {
	c := newTestServer(t, `{"resultSets": [{"headers": ["TEAM_NAME"], "rowSet": []}]}`)
	if _, err := c.TeamStats(context.Background()); err == nil {
		t.Error("expected error for missing NET_RATING column")
	}

	c = newTestServer(t, `{"resultSets": []}`)
	if _, err := c.TeamStats(context.Background()); err == nil {
		t.Error("expected error for empty result set")
	}
}
