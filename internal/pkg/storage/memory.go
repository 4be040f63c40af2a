package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

var (
	_ RecommendationStore = (*MemoryStorage)(nil)
	_ RankingStore        = (*MemoryStorage)(nil)
	_ InjuryStore         = (*MemoryStorage)(nil)
	_ AlertGuard          = (*MemoryAlertGuard)(nil)
)

type rankingScope struct {
	side models.RankingSide
	day  string
}

// MemoryStorage is the in-process store used for dry runs and tests
type MemoryStorage struct {
	mu              sync.RWMutex
	recommendations map[string]models.Recommendation
	order           []string
	rankings        map[rankingScope][]models.RankingEntry
	injuries        map[string]models.InjuryRecord
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		recommendations: make(map[string]models.Recommendation),
		rankings:        make(map[rankingScope][]models.RankingEntry),
		injuries:        make(map[string]models.InjuryRecord),
	}
}

func (m *MemoryStorage) InsertRecommendation(_ context.Context, rec *models.Recommendation) (bool, error) {
	if rec == nil || rec.EventID == "" {
		return false, fmt.Errorf("recommendation without event id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recommendations[rec.EventID]; ok {
		return false, nil
	}
	stored := *rec
	stored.ReportDate = dateOnly(rec.ReportDate)
	m.recommendations[rec.EventID] = stored
	m.order = append(m.order, rec.EventID)
	return true, nil
}

func (m *MemoryStorage) GetRecommendation(_ context.Context, eventID string) (*models.Recommendation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.recommendations[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *MemoryStorage) RecommendationsByDate(_ context.Context, reportDate time.Time) ([]models.Recommendation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	day := reportDate.Format("2006-01-02")
	var out []models.Recommendation
	for _, id := range m.order {
		rec := m.recommendations[id]
		if rec.ReportDate.Format("2006-01-02") == day {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Probability != out[j].Probability {
			return out[i].Probability > out[j].Probability
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})
	return out, nil
}

// Count returns the number of stored recommendations.
func (m *MemoryStorage) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.recommendations)
}

func (m *MemoryStorage) ReplaceRankings(_ context.Context, side models.RankingSide, date time.Time, entries []models.RankingEntry) error {
	if err := checkRankingScope(side, entries); err != nil {
		return err
	}
	day := dateOnly(date)

	seen := make(map[string]bool, len(entries))
	rows := make([]models.RankingEntry, 0, len(entries))
	for _, e := range entries {
		key := string(e.Category) + "|" + e.SubjectName
		if seen[key] {
			continue
		}
		seen[key] = true
		e.ReferenceDate = day
		rows = append(rows, e)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].RankPosition < rows[j].RankPosition
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rankings[rankingScope{side: side, day: day.Format("2006-01-02")}] = rows
	return nil
}

func (m *MemoryStorage) Rankings(_ context.Context, side models.RankingSide, date time.Time) ([]models.RankingEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.rankings[rankingScope{side: side, day: date.Format("2006-01-02")}]
	out := make([]models.RankingEntry, len(rows))
	copy(out, rows)
	return out, nil
}

func (m *MemoryStorage) ReplaceInjuries(_ context.Context, records []models.InjuryRecord) error {
	next := make(map[string]models.InjuryRecord, len(records))
	for _, r := range records {
		key := models.NormalizeName(r.PlayerName)
		if key == "" {
			continue
		}
		if _, dup := next[key]; dup {
			continue
		}
		r.PlayerName = strings.TrimSpace(r.PlayerName)
		next[key] = r
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.injuries = next
	return nil
}

func (m *MemoryStorage) IsInjured(_ context.Context, playerName string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.injuries[models.NormalizeName(playerName)]
	return ok, nil
}

func (m *MemoryStorage) Injuries(_ context.Context) ([]models.InjuryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.InjuryRecord, 0, len(m.injuries))
	for _, r := range m.injuries {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerName < out[j].PlayerName })
	return out, nil
}

// MemoryAlertGuard keeps alert markers in process memory; markers never expire
type MemoryAlertGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryAlertGuard() *MemoryAlertGuard {
	return &MemoryAlertGuard{seen: make(map[string]struct{})}
}

func (g *MemoryAlertGuard) MarkOnce(_ context.Context, date time.Time, kind, key string) (bool, error) {
	k := AlertKey(date, kind, key)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.seen[k]; ok {
		return false, nil
	}
	g.seen[k] = struct{}{}
	return true, nil
}

func (g *MemoryAlertGuard) Forget(_ context.Context, date time.Time, kind, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, AlertKey(date, kind, key))
	return nil
}
