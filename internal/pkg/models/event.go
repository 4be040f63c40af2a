package models

import (
	"time"
)

// Event is one scheduled or played game as delivered by the scoreboard feed.
type Event struct {
	EventID     string    `json:"event_id"`
	League      string    `json:"league"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	HomeTeamID  string    `json:"home_team_id,omitempty"` // feed-side team id, used for schedule lookups
	AwayTeamID  string    `json:"away_team_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	// MarketLine is the raw handicap text ("LAL -5.5", "-4.0", "EVEN"). Empty means no line quoted.
	MarketLine string `json:"market_line,omitempty"`
	State      string `json:"state,omitempty"` // pre, in, post
}

// Finished reports whether the feed marked the game as completed.
func (e Event) Finished() bool {
	return e.State == "post"
}

// TeamStat is a snapshot of a team's efficiency metrics for one run.
type TeamStat struct {
	TeamName       string  `json:"team_name"`
	TeamID         string  `json:"team_id,omitempty"`
	NetRating      float64 `json:"net_rating"`
	Pace           float64 `json:"pace"`
	EffectiveFGPct float64 `json:"effective_fg_pct"`
}

// Placeholder values used when a team cannot be resolved.
const (
	PlaceholderNetRating = 0.0
	PlaceholderPace      = 100.0
)

// PlaceholderTeamStat returns the neutral stat used on lookup misses.
func PlaceholderTeamStat() TeamStat {
	return TeamStat{NetRating: PlaceholderNetRating, Pace: PlaceholderPace}
}

// InjuryRecord is the latest known status of a player.
type InjuryRecord struct {
	PlayerName string    `json:"player_name"`
	TeamName   string    `json:"team_name,omitempty"`
	Status     string    `json:"status"`
	Details    string    `json:"details,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ScheduleGame is one entry of a team's schedule.
type ScheduleGame struct {
	EventID   string    `json:"event_id"`
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
	Score     int       `json:"score"`
}
