package espn

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/feed"
	"github.com/Vodeneev/hoopsedge/internal/pkg/line"
	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// teamStatCategories maps leaderboard stat names to ranking categories.
var teamStatCategories = map[string]models.StatCategory{
	"rebounds":                 models.CategoryRebounds,
	"blocks":                   models.CategoryBlocks,
	"steals":                   models.CategorySteals,
	"points":                   models.CategoryPoints,
	"threePointFieldGoalsMade": models.CategoryThreeMade,
}

type teamLeadersResponse struct {
	Results struct {
		Stats []struct {
			Name    string `json:"name"`
			Leaders []struct {
				Value feed.Number `json:"value"`
				Team  struct {
					ID          string `json:"id"`
					DisplayName string `json:"displayName"`
				} `json:"team"`
			} `json:"leaders"`
		} `json:"stats"`
	} `json:"results"`
}

// TeamLeaders returns the team leaderboards, ranked in feed order, stamped with day.
// Defensive boards are cut at topDefensive rows and offensive boards at topOffensive; zero keeps every row.
func (c *Client) TeamLeaders(ctx context.Context, day time.Time, topDefensive, topOffensive int) ([]models.RankingEntry, error) {
	var resp teamLeadersResponse
	if err := c.get(ctx, c.webURL+"/v2/sports/basketball/nba/statistics/teams", &resp); err != nil {
		return nil, err
	}

	var out []models.RankingEntry
	for _, stat := range resp.Results.Stats {
		category, ok := teamStatCategories[stat.Name]
		if !ok {
			continue
		}
		limit := topOffensive
		if category.Side() == models.SideDefensive {
			limit = topDefensive
		}
		for i, l := range stat.Leaders {
			if limit > 0 && i >= limit {
				break
			}
			name := strings.TrimSpace(l.Team.DisplayName)
			if name == "" {
				continue
			}
			out = append(out, models.RankingEntry{
				Kind:          models.SubjectTeam,
				SubjectName:   name,
				TeamName:      name,
				Category:      category,
				RankPosition:  i + 1,
				StatValue:     l.Value.Float(),
				ReferenceDate: day,
			})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("team leaderboard has no known stats")
	}
	return out, nil
}

type athleteLeadersResponse struct {
	Athletes []struct {
		Athlete struct {
			DisplayName   string `json:"displayName"`
			TeamName      string `json:"teamName"`
			TeamShortName string `json:"teamShortName"`
		} `json:"athlete"`
		Categories []struct {
			Name   string        `json:"name"`
			Totals []feed.Number `json:"totals"`
		} `json:"categories"`
	} `json:"athletes"`
}

type athleteLine struct {
	name, team             string
	points, steals, blocks float64
	hasOffense, hasDefense bool
}

// AthleteLeaders returns player rows: points ranked in feed order (scoring leaders first),
// steals and blocks ranked by their own averages.
func (c *Client) AthleteLeaders(ctx context.Context, day time.Time) ([]models.RankingEntry, error) {
	url := fmt.Sprintf("%s/common/v3/sports/basketball/nba/statistics/byathlete?isqualified=true&limit=%d&sort=offensive.avgPoints:desc",
		c.webURL, c.athleteLimit)

	var resp athleteLeadersResponse
	if err := c.get(ctx, url, &resp); err != nil {
		return nil, err
	}

	var lines []athleteLine
	for _, a := range resp.Athletes {
		al := athleteLine{
			name: strings.TrimSpace(a.Athlete.DisplayName),
			team: resolveTeam(a.Athlete.TeamShortName, a.Athlete.TeamName),
		}
		if al.name == "" {
			continue
		}
		for _, cat := range a.Categories {
			switch cat.Name {
			case "offensive":
				if len(cat.Totals) > 0 {
					al.points = cat.Totals[0].Float()
					al.hasOffense = true
				}
			case "defensive":
				if len(cat.Totals) > 1 {
					al.steals = cat.Totals[0].Float()
					al.blocks = cat.Totals[1].Float()
					al.hasDefense = true
				}
			}
		}
		lines = append(lines, al)
	}

	var out []models.RankingEntry
	rank := 0
	for _, al := range lines {
		if !al.hasOffense {
			continue
		}
		rank++
		out = append(out, al.entry(models.CategoryPoints, rank, al.points, day))
	}
	out = append(out, rankBy(lines, models.CategorySteals, func(a athleteLine) float64 { return a.steals }, day)...)
	out = append(out, rankBy(lines, models.CategoryBlocks, func(a athleteLine) float64 { return a.blocks }, day)...)
	return out, nil
}

func rankBy(lines []athleteLine, category models.StatCategory, value func(athleteLine) float64, day time.Time) []models.RankingEntry {
	var pool []athleteLine
	for _, al := range lines {
		if al.hasDefense {
			pool = append(pool, al)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool { return value(pool[i]) > value(pool[j]) })

	out := make([]models.RankingEntry, 0, len(pool))
	for i, al := range pool {
		out = append(out, al.entry(category, i+1, value(al), day))
	}
	return out
}

func (a athleteLine) entry(category models.StatCategory, rank int, value float64, day time.Time) models.RankingEntry {
	return models.RankingEntry{
		Kind:          models.SubjectPlayer,
		SubjectName:   a.name,
		TeamName:      a.team,
		Category:      category,
		RankPosition:  rank,
		StatValue:     value,
		AvgPoints:     a.points,
		AvgSteals:     a.steals,
		AvgBlocks:     a.blocks,
		ReferenceDate: day,
	}
}

// resolveTeam prefers the canonical name behind the abbreviation; the feed's teamName is often the nickname only.
func resolveTeam(abbr, name string) string {
	if team, ok := line.TeamForAbbreviation(abbr); ok {
		return team
	}
	return strings.TrimSpace(name)
}
