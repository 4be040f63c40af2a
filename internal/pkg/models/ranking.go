package models

import (
	"time"
)

// RankingSide splits the leaderboards into offense and defense.
type RankingSide string

const (
	SideOffensive RankingSide = "offensive"
	SideDefensive RankingSide = "defensive"
)

// StatCategory is the statistic a ranking is ordered by.
type StatCategory string

const (
	CategoryPoints    StatCategory = "points"
	CategoryThreeMade StatCategory = "three_made"
	CategoryRebounds  StatCategory = "rebounds"
	CategoryBlocks    StatCategory = "blocks"
	CategorySteals    StatCategory = "steals"
)

// Side returns the leaderboard the category belongs to.
func (c StatCategory) Side() RankingSide {
	switch c {
	case CategoryPoints, CategoryThreeMade:
		return SideOffensive
	default:
		return SideDefensive
	}
}

// Valid reports whether c is one of the known categories.
func (c StatCategory) Valid() bool {
	switch c {
	case CategoryPoints, CategoryThreeMade, CategoryRebounds, CategoryBlocks, CategorySteals:
		return true
	}
	return false
}

// SubjectKind tells team rows from player rows.
type SubjectKind string

const (
	SubjectTeam   SubjectKind = "team"
	SubjectPlayer SubjectKind = "player"
)

// RankingEntry is a team's or player's position in one daily leaderboard.
// For team rows TeamName equals SubjectName.
type RankingEntry struct {
	Kind          SubjectKind  `json:"kind"`
	SubjectName   string       `json:"subject_name"`
	TeamName      string       `json:"team_name"`
	Category      StatCategory `json:"category"`
	RankPosition  int          `json:"rank_position"`
	StatValue     float64      `json:"stat_value"`
	AvgPoints     float64      `json:"avg_points,omitempty"`
	AvgSteals     float64      `json:"avg_steals,omitempty"`
	AvgBlocks     float64      `json:"avg_blocks,omitempty"`
	ReferenceDate time.Time    `json:"reference_date"`
}

// Side returns the leaderboard side of the entry.
func (e RankingEntry) Side() RankingSide {
	return e.Category.Side()
}
