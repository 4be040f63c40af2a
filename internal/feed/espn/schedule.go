package espn

import (
	"context"
	"fmt"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/feed"
	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

type scheduleResponse struct {
	Events []struct {
		ID           string       `json:"id"`
		Date         string       `json:"date"`
		Status       *eventStatus `json:"status"`
		Competitions []struct {
			Status      *eventStatus `json:"status"`
			Competitors []struct {
				Team struct {
					ID string `json:"id"`
				} `json:"team"`
				Score feed.Number `json:"score"`
			} `json:"competitors"`
		} `json:"competitions"`
	} `json:"events"`
}

// TeamSchedule returns the team's season schedule with the team's own score per game.
func (c *Client) TeamSchedule(ctx context.Context, teamID string) ([]models.ScheduleGame, error) {
	if teamID == "" {
		return nil, fmt.Errorf("empty team id")
	}
	var resp scheduleResponse
	if err := c.get(ctx, fmt.Sprintf("%s/teams/%s/schedule", c.siteURL, teamID), &resp); err != nil {
		return nil, err
	}

	games := make([]models.ScheduleGame, 0, len(resp.Events))
	for _, ev := range resp.Events {
		when, err := parseFeedTime(ev.Date)
		if err != nil {
			continue
		}
		g := models.ScheduleGame{EventID: ev.ID, Date: when}
		if len(ev.Competitions) > 0 {
			comp := ev.Competitions[0]
			switch {
			case comp.Status != nil:
				g.Completed = comp.Status.Type.Completed
			case ev.Status != nil:
				g.Completed = ev.Status.Type.Completed
			}
			for _, cmp := range comp.Competitors {
				if cmp.Team.ID == teamID {
					g.Score = int(cmp.Score.Float())
				}
			}
		}
		games = append(games, g)
	}
	return games, nil
}

// PlayedDayBefore reports whether the team's last completed game was on the day before day.
func (c *Client) PlayedDayBefore(ctx context.Context, teamID string, day time.Time) (bool, error) {
	games, err := c.TeamSchedule(ctx, teamID)
	if err != nil {
		return false, err
	}
	return models.PlayedDayBefore(games, day, c.loc), nil
}

// RecentAverage averages the team's points over its last n completed games.
// ok is false when the team has no completed game.
func (c *Client) RecentAverage(ctx context.Context, teamID string, n int) (avg float64, ok bool, err error) {
	games, err := c.TeamSchedule(ctx, teamID)
	if err != nil {
		return 0, false, err
	}
	avg, ok = models.RecentAverage(games, n)
	return avg, ok, nil
}
