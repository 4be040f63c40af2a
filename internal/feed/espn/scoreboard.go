package espn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

type scoreboardResponse struct {
	Leagues []struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"leagues"`
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Status       eventStatus   `json:"status"`
	Competitions []competition `json:"competitions"`
}

type eventStatus struct {
	Type struct {
		State     string `json:"state"`
		Completed bool   `json:"completed"`
	} `json:"type"`
}

type competition struct {
	Status      *eventStatus `json:"status"`
	Competitors []competitor `json:"competitors"`
	Odds        []struct {
		Details string `json:"details"`
	} `json:"odds"`
}

type competitor struct {
	HomeAway string `json:"homeAway"`
	Team     struct {
		ID           string `json:"id"`
		DisplayName  string `json:"displayName"`
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
}

// Scoreboard returns the games of day. A zero day asks for the feed's current slate.
func (c *Client) Scoreboard(ctx context.Context, day time.Time) ([]models.Event, error) {
	url := c.siteURL + "/scoreboard"
	if !day.IsZero() {
		url += "?dates=" + day.In(c.loc).Format("20060102")
	}

	var resp scoreboardResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}

	league := "NBA"
	if len(resp.Leagues) > 0 && resp.Leagues[0].Abbreviation != "" {
		league = resp.Leagues[0].Abbreviation
	}

	events := make([]models.Event, 0, len(resp.Events))
	for _, raw := range resp.Events {
		ev, err := c.toEvent(raw, league)
		if err != nil {
			c.logger.Warn("skipping scoreboard event", "event_id", raw.ID, "error", err)
			continue
		}
		events = append(events, ev)
	}
	c.logger.Info("scoreboard fetched", "events", len(events))
	return events, nil
}

func (c *Client) toEvent(raw scoreboardEvent, league string) (models.Event, error) {
	if len(raw.Competitions) == 0 {
		return models.Event{}, fmt.Errorf("no competition")
	}
	comp := raw.Competitions[0]

	var home, away *competitor
	for i := range comp.Competitors {
		switch comp.Competitors[i].HomeAway {
		case "home":
			home = &comp.Competitors[i]
		case "away":
			away = &comp.Competitors[i]
		}
	}
	if home == nil || away == nil {
		return models.Event{}, fmt.Errorf("missing home or away competitor")
	}

	ev := models.Event{
		EventID:    raw.ID,
		League:     league,
		HomeTeam:   home.Team.DisplayName,
		AwayTeam:   away.Team.DisplayName,
		HomeTeamID: home.Team.ID,
		AwayTeamID: away.Team.ID,
		State:      raw.Status.Type.State,
	}
	if ev.State == "" && comp.Status != nil {
		ev.State = comp.Status.Type.State
	}
	if len(comp.Odds) > 0 {
		ev.MarketLine = strings.TrimSpace(comp.Odds[0].Details)
	}
	if raw.Date != "" {
		t, err := parseFeedTime(raw.Date)
		if err != nil {
			return models.Event{}, err
		}
		ev.ScheduledAt = t.In(c.loc)
	}
	return ev, nil
}
