package espn

import (
	"context"
	"strings"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// The injuries feed nests players either under "injuries" or under "athletes".
type injuriesResponse struct {
	Injuries []teamInjuries `json:"injuries"`
}

type teamInjuries struct {
	DisplayName string         `json:"displayName"`
	Injuries    []injuryDetail `json:"injuries"`
	Athletes    []struct {
		DisplayName string `json:"displayName"`
		Status      string `json:"status"`
	} `json:"athletes"`
}

type injuryDetail struct {
	Status       string `json:"status"`
	ShortComment string `json:"shortComment"`
	Date         string `json:"date"`
	Athlete      struct {
		DisplayName string `json:"displayName"`
	} `json:"athlete"`
}

// Injuries returns the current injury report, one record per listed player.
func (c *Client) Injuries(ctx context.Context) ([]models.InjuryRecord, error) {
	var resp injuriesResponse
	if err := c.get(ctx, c.siteURL+"/injuries", &resp); err != nil {
		return nil, err
	}

	now := time.Now()
	var out []models.InjuryRecord
	for _, team := range resp.Injuries {
		for _, inj := range team.Injuries {
			name := strings.TrimSpace(inj.Athlete.DisplayName)
			if name == "" {
				continue
			}
			rec := models.InjuryRecord{
				PlayerName: name,
				TeamName:   team.DisplayName,
				Status:     inj.Status,
				Details:    inj.ShortComment,
				UpdatedAt:  now,
			}
			if t, err := parseFeedTime(inj.Date); err == nil {
				rec.UpdatedAt = t
			}
			out = append(out, rec)
		}
		for _, a := range team.Athletes {
			name := strings.TrimSpace(a.DisplayName)
			if name == "" {
				continue
			}
			out = append(out, models.InjuryRecord{
				PlayerName: name,
				TeamName:   team.DisplayName,
				Status:     a.Status,
				UpdatedAt:  now,
			})
		}
	}
	c.logger.Info("injury report fetched", "players", len(out))
	return out, nil
}
