package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
	"github.com/Vodeneev/hoopsedge/internal/pkg/storage"
)

// NewRecommendationsHandler serves GET /recommendations?date=YYYY-MM-DD; the date defaults to today in loc.
func NewRecommendationsHandler(store storage.RecommendationStore, loc *time.Location) http.HandlerFunc {
	if loc == nil {
		loc = time.UTC
	}
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		day := time.Now().In(loc)
		if raw := r.URL.Query().Get("date"); raw != "" {
			parsed, err := time.ParseInLocation("2006-01-02", raw, loc)
			if err != nil {
				http.Error(w, `invalid "date", want YYYY-MM-DD`, http.StatusBadRequest)
				return
			}
			day = parsed
		}
		day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)

		recs, err := store.RecommendationsByDate(r.Context(), day)
		if err != nil {
			slog.Error("Failed to load recommendations", "date", day.Format("2006-01-02"), "error", err)
			http.Error(w, "failed to load recommendations", http.StatusInternalServerError)
			return
		}
		if recs == nil {
			recs = []models.Recommendation{}
		}

		duration := time.Since(startTime)
		w.Header().Set("X-Query-Duration", duration.String())
		writeJSON(w, http.StatusOK, map[string]any{
			"recommendations": recs,
			"meta": map[string]any{
				"date":     day.Format("2006-01-02"),
				"count":    len(recs),
				"duration": duration.String(),
			},
		})
	}
}
