package styleclash

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// Thresholds of the defensive leg.
const (
	defensiveStatMin  = 0.7
	defensiveStatHigh = 1.3
)

// Blacklist answers whether a player is currently injured.
type Blacklist interface {
	IsInjured(ctx context.Context, playerName string) (bool, error)
}

// FloorLine is the conservative betting line of an average:
// floor(avg) minus 2 when the floor is even, minus 3 when odd.
func FloorLine(avg float64) int {
	base := int(math.Floor(avg))
	if base%2 == 0 {
		return base - 2
	}
	return base - 3
}

// Composer builds the multi-leg bet of a detected clash.
type Composer struct {
	candidateLimit int
	logger         *slog.Logger
}

func NewComposer(candidateLimit int, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composer{candidateLimit: candidateLimit, logger: logger}
}

// Compose returns the ordered legs for clash. teamPPG is the winner's recent points per game;
// the team total leg is omitted when its line would not be positive. Player legs never repeat a player and
// never include a blacklisted one.
func (c *Composer) Compose(ctx context.Context, table *RankingTable, blacklist Blacklist, clash Clash, teamPPG float64) models.MultiLegBet {
	bet := models.MultiLegBet{Winner: clash.Winner, Rival: clash.Rival}

	bet.Legs = append(bet.Legs, models.Leg{
		Kind:     models.LegMoneyline,
		Label:    clash.Winner + " to win",
		LineText: "to win",
		Subject:  clash.Winner,
	})

	if leg, ok := PointsLeg(models.LegTeamTotal, clash.Winner, teamPPG); ok {
		bet.Legs = append(bet.Legs, leg)
	}

	if table == nil {
		return bet
	}

	selected := ""
	for _, cand := range table.PlayerCandidates(models.SideOffensive, clash.Winner, c.candidateLimit) {
		leg, ok := PointsLeg(models.LegPlayerPoints, cand.SubjectName, AveragePoints(cand))
		if !ok || c.injured(ctx, blacklist, cand.SubjectName) {
			continue
		}
		bet.Legs = append(bet.Legs, leg)
		selected = cand.SubjectName
		break
	}

	for _, cand := range table.PlayerCandidates(models.SideDefensive, clash.Winner, c.candidateLimit) {
		if selected != "" && models.SameName(cand.SubjectName, selected) {
			continue
		}
		if c.injured(ctx, blacklist, cand.SubjectName) {
			continue
		}
		if leg, ok := c.secondaryLeg(table, cand); ok {
			bet.Legs = append(bet.Legs, leg)
		}
		break
	}

	return bet
}

// secondaryLeg prefers a points leg when the player also ranks on offense.
func (c *Composer) secondaryLeg(table *RankingTable, cand models.RankingEntry) (models.Leg, bool) {
	if off, ok := table.OffensivePlayer(cand.SubjectName); ok {
		if leg, ok := PointsLeg(models.LegPlayerPoints, cand.SubjectName, AveragePoints(off)); ok {
			return leg, true
		}
	}

	switch {
	case cand.AvgSteals >= defensiveStatMin:
		return statLeg(models.LegPlayerSteals, cand.SubjectName, cand.AvgSteals, "steal", "steals"), true
	case cand.AvgBlocks >= defensiveStatMin:
		return statLeg(models.LegPlayerBlocks, cand.SubjectName, cand.AvgBlocks, "block", "blocks"), true
	}
	c.logger.Debug("defensive candidate below thresholds, leg omitted",
		"player", cand.SubjectName, "steals", cand.AvgSteals, "blocks", cand.AvgBlocks)
	return models.Leg{}, false
}

// injured treats a failed lookup as injured so an unverified player is never picked.
func (c *Composer) injured(ctx context.Context, blacklist Blacklist, name string) bool {
	if blacklist == nil {
		return false
	}
	hurt, err := blacklist.IsInjured(ctx, name)
	if err != nil {
		c.logger.Warn("injury lookup failed, skipping player", "player", name, "error", err)
		return true
	}
	return hurt
}

// AveragePoints is the player's points per game, from the averages or from a points row's stat.
func AveragePoints(e models.RankingEntry) float64 {
	if e.AvgPoints > 0 {
		return e.AvgPoints
	}
	if e.Category == models.CategoryPoints {
		return e.StatValue
	}
	return 0
}

// PointsLeg is an over leg on avg rounded down by FloorLine.
// It reports false when the rounded line is not positive.
func PointsLeg(kind models.LegKind, subject string, avg float64) (models.Leg, bool) {
	line := FloorLine(avg)
	if line <= 0 {
		return models.Leg{}, false
	}
	return pointsLeg(kind, subject, line), true
}

func pointsLeg(kind models.LegKind, subject string, line int) models.Leg {
	text := fmt.Sprintf("%d+ points", line)
	return models.Leg{
		Kind:      kind,
		Label:     subject + " " + text,
		LineText:  text,
		Subject:   subject,
		Threshold: float64(line),
	}
}

func statLeg(kind models.LegKind, subject string, avg float64, singular, plural string) models.Leg {
	size := 0.5
	unit := singular
	if avg >= defensiveStatHigh {
		size = 1
		unit = plural
	}
	text := strconv.FormatFloat(size, 'f', -1, 64) + "+ " + unit
	return models.Leg{
		Kind:      kind,
		Label:     subject + " " + text,
		LineText:  text,
		Subject:   subject,
		Threshold: size,
	}
}
