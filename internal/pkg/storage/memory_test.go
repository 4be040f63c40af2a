package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

func TestMemoryStorage_InsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()
	rec := sampleRecommendation()

	first, err := m.InsertRecommendation(ctx, rec)
	if err != nil || !first {
		t.Fatalf("first insert = %v, %v", first, err)
	}
	changed := *rec
	changed.Probability = 12
	second, err := m.InsertRecommendation(ctx, &changed)
	if err != nil || second {
		t.Fatalf("second insert = %v, %v", second, err)
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
	got, err := m.GetRecommendation(ctx, rec.EventID)
	if err != nil {
		t.Fatalf("GetRecommendation: %v", err)
	}
	if got.Probability != rec.Probability {
		t.Errorf("stored row was overwritten: %v", got.Probability)
	}
}

func TestMemoryStorage_RecommendationsByDateOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()
	day := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	for i, p := range []float64{55, 71, 62} {
		rec := sampleRecommendation()
		rec.EventID = string(rune('a' + i))
		rec.ReportDate = day
		rec.Probability = p
		if _, err := m.InsertRecommendation(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	other := sampleRecommendation()
	other.EventID = "other-day"
	other.ReportDate = day.AddDate(0, 0, 1)
	_, _ = m.InsertRecommendation(ctx, other)

	recs, _ := m.RecommendationsByDate(ctx, day)
	if len(recs) != 3 {
		t.Fatalf("len = %d, want 3", len(recs))
	}
	if recs[0].Probability != 71 || recs[1].Probability != 62 || recs[2].Probability != 55 {
		t.Errorf("order = %v, %v, %v", recs[0].Probability, recs[1].Probability, recs[2].Probability)
	}
}

func TestMemoryStorage_ReplaceRankingsScope(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	old := []models.RankingEntry{{SubjectName: "Miami Heat", TeamName: "Miami Heat", Category: models.CategorySteals, RankPosition: 1}}
	fresh := []models.RankingEntry{
		{SubjectName: "Boston Celtics", TeamName: "Boston Celtics", Category: models.CategoryBlocks, RankPosition: 2},
		{SubjectName: "Orlando Magic", TeamName: "Orlando Magic", Category: models.CategoryBlocks, RankPosition: 1},
	}
	if err := m.ReplaceRankings(ctx, models.SideDefensive, day, old); err != nil {
		t.Fatal(err)
	}
	if err := m.ReplaceRankings(ctx, models.SideDefensive, day, fresh); err != nil {
		t.Fatal(err)
	}

	rows, _ := m.Rankings(ctx, models.SideDefensive, day)
	if len(rows) != 2 {
		t.Fatalf("len = %d, want 2", len(rows))
	}
	if rows[0].SubjectName != "Orlando Magic" {
		t.Errorf("rows not ordered by rank: %+v", rows)
	}
	if other, _ := m.Rankings(ctx, models.SideOffensive, day); len(other) != 0 {
		t.Errorf("offensive scope should be empty, got %d", len(other))
	}
}

func TestMemoryStorage_Injuries(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	_ = m.ReplaceInjuries(ctx, []models.InjuryRecord{{PlayerName: "Joel Embiid", Status: "Out"}})
	_ = m.ReplaceInjuries(ctx, []models.InjuryRecord{{PlayerName: "LeBron James", Status: "Day-To-Day"}})

	tests := []struct {
		name string
		want bool
	}{
		{"lebron JAMES", true},
		{"  LeBron   James ", true},
		{"Joel Embiid", false},
		{"", false},
	}
	for _, tt := range tests {
		if got, _ := m.IsInjured(ctx, tt.name); got != tt.want {
			t.Errorf("IsInjured(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMemoryAlertGuard(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryAlertGuard()
	day := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

	if ok, _ := g.MarkOnce(ctx, day, "clash", "Boston Celtics"); !ok {
		t.Error("first mark should succeed")
	}
	if ok, _ := g.MarkOnce(ctx, day, "clash", "boston celtics"); ok {
		t.Error("same key on the same day should be refused")
	}
	if ok, _ := g.MarkOnce(ctx, day.AddDate(0, 0, 1), "clash", "Boston Celtics"); !ok {
		t.Error("next day should be allowed")
	}
	if err := g.Forget(ctx, day, "clash", "BOSTON CELTICS"); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if ok, _ := g.MarkOnce(ctx, day, "clash", "Boston Celtics"); !ok {
		t.Error("a forgotten marker should be taken again")
	}
}

func TestAlertKey(t *testing.T) {
	got := AlertKey(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), "clash", " Boston  Celtics")
	if want := "alert:2026-01-15:clash:boston celtics"; got != want {
		t.Errorf("AlertKey = %q, want %q", got, want)
	}
}
