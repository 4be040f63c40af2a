package models

import (
	"sort"
	"time"
)

// CompletedGames returns the completed games newest first.
func CompletedGames(games []ScheduleGame) []ScheduleGame {
	var out []ScheduleGame
	for _, g := range games {
		if g.Completed {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// PlayedDayBefore reports whether the last completed game falls on the calendar day before day, in loc.
func PlayedDayBefore(games []ScheduleGame, day time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	day = day.In(loc)
	today := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	yesterday := today.AddDate(0, 0, -1)

	for _, g := range CompletedGames(games) {
		d := g.Date.In(loc)
		if !d.Before(today) {
			continue // a game earlier today does not count
		}
		gameDay := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
		return gameDay.Equal(yesterday)
	}
	return false
}

// RecentAverage averages the scores of the last n completed games.
// ok is false when there is no completed game.
func RecentAverage(games []ScheduleGame, n int) (avg float64, ok bool) {
	done := CompletedGames(games)
	if len(done) == 0 || n <= 0 {
		return 0, false
	}
	if len(done) > n {
		done = done[:n]
	}
	total := 0
	for _, g := range done {
		total += g.Score
	}
	return float64(total) / float64(len(done)), true
}
