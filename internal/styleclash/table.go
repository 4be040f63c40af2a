package styleclash

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
	"github.com/Vodeneev/hoopsedge/internal/pkg/storage"
)

// RankingTable is the read-only view of one reference date's leaderboards.
type RankingTable struct {
	date      time.Time
	offensive []models.RankingEntry
	defensive []models.RankingEntry
}

// NewRankingTable builds a table from already loaded rows. Rows of the wrong side are ignored.
func NewRankingTable(date time.Time, entries ...[]models.RankingEntry) *RankingTable {
	t := &RankingTable{date: date}
	for _, group := range entries {
		for _, e := range group {
			switch e.Side() {
			case models.SideOffensive:
				t.offensive = append(t.offensive, e)
			case models.SideDefensive:
				t.defensive = append(t.defensive, e)
			}
		}
	}
	byRank := func(rows []models.RankingEntry) {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].RankPosition < rows[j].RankPosition })
	}
	byRank(t.offensive)
	byRank(t.defensive)
	return t
}

// LoadTable reads both sides of date from the store.
func LoadTable(ctx context.Context, store storage.RankingStore, date time.Time) (*RankingTable, error) {
	off, err := store.Rankings(ctx, models.SideOffensive, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load offensive rankings: %w", err)
	}
	def, err := store.Rankings(ctx, models.SideDefensive, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load defensive rankings: %w", err)
	}
	return NewRankingTable(date, off, def), nil
}

func (t *RankingTable) Date() time.Time { return t.date }

// Empty reports whether the table holds no rows at all.
func (t *RankingTable) Empty() bool {
	return len(t.offensive) == 0 && len(t.defensive) == 0
}

// TeamInTop reports whether team owns any row, team or player, ranked within limit on side.
func (t *RankingTable) TeamInTop(side models.RankingSide, team string, limit int) bool {
	for _, e := range t.rows(side) {
		if e.RankPosition <= limit && models.SameName(e.TeamName, team) {
			return true
		}
	}
	return false
}

// PlayerCandidates returns up to limit distinct players of team on side, best rank first.
func (t *RankingTable) PlayerCandidates(side models.RankingSide, team string, limit int) []models.RankingEntry {
	seen := make(map[string]bool)
	var out []models.RankingEntry
	for _, e := range t.rows(side) {
		if e.Kind != models.SubjectPlayer || !models.SameName(e.TeamName, team) {
			continue
		}
		key := models.NormalizeName(e.SubjectName)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// OffensivePlayer finds name anywhere in the offensive table.
func (t *RankingTable) OffensivePlayer(name string) (models.RankingEntry, bool) {
	for _, e := range t.offensive {
		if e.Kind == models.SubjectPlayer && models.SameName(e.SubjectName, name) {
			return e, true
		}
	}
	return models.RankingEntry{}, false
}

// TopPlayer returns the best ranked player of team on side within limit.
func (t *RankingTable) TopPlayer(side models.RankingSide, team string, limit int) (models.RankingEntry, bool) {
	for _, e := range t.rows(side) {
		if e.Kind == models.SubjectPlayer && e.RankPosition <= limit && models.SameName(e.TeamName, team) {
			return e, true
		}
	}
	return models.RankingEntry{}, false
}

func (t *RankingTable) rows(side models.RankingSide) []models.RankingEntry {
	if side == models.SideOffensive {
		return t.offensive
	}
	return t.defensive
}
