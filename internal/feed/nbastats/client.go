// Package nbastats fetches advanced team efficiency metrics from the stats.nba.com API.
package nbastats

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Vodeneev/hoopsedge/internal/feed"
	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
	"github.com/Vodeneev/hoopsedge/internal/pkg/metrics"
	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

const feedName = "nbastats"

type Client struct {
	fetcher *feed.Fetcher
	baseURL string
	season  string
	logger  *slog.Logger
}

func NewClient(cfg *config.FeedsConfig, recorder *metrics.Recorder, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	// stats.nba.com rejects requests without browser-like headers
	headers := http.Header{}
	headers.Set("User-Agent", cfg.UserAgent)
	headers.Set("Referer", "https://www.nba.com/")
	headers.Set("Origin", "https://www.nba.com")
	headers.Set("x-nba-stats-origin", "stats")
	headers.Set("x-nba-stats-token", "true")
	return &Client{
		fetcher: feed.NewFetcher(cfg.Timeout, headers, recorder),
		baseURL: strings.TrimRight(cfg.NBAStatsURL, "/"),
		season:  cfg.Season,
		logger:  logger.With("feed", feedName),
	}
}

type resultSetsResponse struct {
	ResultSets []struct {
		Name    string              `json:"name"`
		Headers []string            `json:"headers"`
		RowSet  [][]json.RawMessage `json:"rowSet"`
	} `json:"resultSets"`
}

// TeamStats returns the season's advanced team metrics keyed by team name.
func (c *Client) TeamStats(ctx context.Context) (map[string]models.TeamStat, error) {
	q := url.Values{}
	q.Set("MeasureType", "Advanced")
	q.Set("PerMode", "Per100Possessions")
	q.Set("Season", c.season)
	q.Set("SeasonType", "Regular Season")
	q.Set("LeagueID", "00")
	q.Set("LastNGames", "0")
	q.Set("Month", "0")
	q.Set("OpponentTeamID", "0")
	q.Set("PaceAdjust", "N")
	q.Set("Period", "0")
	q.Set("PlusMinus", "N")
	q.Set("Rank", "N")

	var resp resultSetsResponse
	if err := c.fetcher.GetJSON(ctx, feedName, c.baseURL+"/leaguedashteamstats?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("nba stats: %w", err)
	}
	if len(resp.ResultSets) == 0 {
		return nil, fmt.Errorf("nba stats: empty result set")
	}
	set := resp.ResultSets[0]

	cols := map[string]int{}
	for i, h := range set.Headers {
		cols[h] = i
	}
	for _, required := range []string{"TEAM_NAME", "NET_RATING", "PACE"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("nba stats: missing column %s", required)
		}
	}

	stats := make(map[string]models.TeamStat, len(set.RowSet))
	for _, row := range set.RowSet {
		stat := models.TeamStat{
			TeamName:       cellString(row, cols["TEAM_NAME"]),
			NetRating:      cellFloat(row, cols, "NET_RATING"),
			Pace:           cellFloat(row, cols, "PACE"),
			EffectiveFGPct: cellFloat(row, cols, "EFG_PCT"),
		}
		if i, ok := cols["TEAM_ID"]; ok {
			stat.TeamID = cellString(row, i)
		}
		if stat.TeamName == "" {
			continue
		}
		stats[stat.TeamName] = stat
	}
	c.logger.Info("team stats loaded", "teams", len(stats), "season", c.season)
	return stats, nil
}

func cellString(row []json.RawMessage, i int) string {
	if i >= len(row) {
		return ""
	}
	var s string
	if err := json.Unmarshal(row[i], &s); err == nil {
		return strings.TrimSpace(s)
	}
	raw := strings.TrimSpace(string(row[i]))
	if raw == "null" {
		return ""
	}
	return raw
}

func cellFloat(row []json.RawMessage, cols map[string]int, name string) float64 {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return 0
	}
	var f float64
	if err := json.Unmarshal(row[i], &f); err == nil {
		return f
	}
	v, _ := strconv.ParseFloat(cellString(row, i), 64)
	return v
}
