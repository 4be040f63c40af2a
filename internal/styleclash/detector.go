// Package styleclash flags one-sided matchups and builds the multi-leg bet for them.
package styleclash

import (
	"github.com/Vodeneev/hoopsedge/internal/pkg/config"
	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// Clash names the dominant team and its rival.
type Clash struct {
	Winner string
	Rival  string
}

// Detector applies the dominance rule over the leaderboards of one day.
type Detector struct {
	topDefensive int
	topOffensive int
}

func NewDetector(cfg config.StyleClashConfig) *Detector {
	return &Detector{topDefensive: cfg.TopDefensive, topOffensive: cfg.TopOffensive}
}

// Detect tests a against b and then b against a. At most one side can win.
func (d *Detector) Detect(table *RankingTable, teamA, teamB string) (Clash, bool) {
	if table == nil {
		return Clash{}, false
	}
	if d.dominant(table, teamA) && d.absent(table, teamB) {
		return Clash{Winner: teamA, Rival: teamB}, true
	}
	if d.dominant(table, teamB) && d.absent(table, teamA) {
		return Clash{Winner: teamB, Rival: teamA}, true
	}
	return Clash{}, false
}

func (d *Detector) dominant(t *RankingTable, team string) bool {
	return t.TeamInTop(models.SideDefensive, team, d.topDefensive) &&
		t.TeamInTop(models.SideOffensive, team, d.topOffensive)
}

func (d *Detector) absent(t *RankingTable, team string) bool {
	return !t.TeamInTop(models.SideDefensive, team, d.topDefensive) &&
		!t.TeamInTop(models.SideOffensive, team, d.topOffensive)
}
