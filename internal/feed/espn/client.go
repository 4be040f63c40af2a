// Package espn reads the public ESPN basketball feeds: scoreboard, injuries, leaderboards and team schedules.
package espn

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/feed"
	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
	"github.com/Vodeneev/hoopsedge/internal/pkg/metrics"
)

const feedName = "espn"

// Client talks to the site and web ESPN APIs.
type Client struct {
	fetcher      *feed.Fetcher
	siteURL      string
	webURL       string
	athleteLimit int
	loc          *time.Location
	logger       *slog.Logger
}

// NewClient creates a client. Times are converted to loc.
func NewClient(cfg *config.FeedsConfig, loc *time.Location, recorder *metrics.Recorder, logger *slog.Logger) *Client {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	headers := http.Header{}
	if cfg.UserAgent != "" {
		headers.Set("User-Agent", cfg.UserAgent)
	}
	return &Client{
		fetcher:      feed.NewFetcher(cfg.Timeout, headers, recorder),
		siteURL:      strings.TrimRight(cfg.ESPNSiteURL, "/"),
		webURL:       strings.TrimRight(cfg.ESPNWebURL, "/"),
		athleteLimit: cfg.AthleteLimit,
		loc:          loc,
		logger:       logger.With("feed", feedName),
	}
}

// Location returns the zone event times are converted to.
func (c *Client) Location() *time.Location {
	return c.loc
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	if err := c.fetcher.GetJSON(ctx, feedName, url, v); err != nil {
		return fmt.Errorf("espn %s: %w", url, err)
	}
	return nil
}

// feedTimeLayouts lists the layouts ESPN uses for event dates; minutes-only first.
var feedTimeLayouts = []string{
	"2006-01-02T15:04Z07:00",
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
}

func parseFeedTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range feedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
