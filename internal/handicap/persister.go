package handicap

import (
	"context"
	"log/slog"

	"github.com/Vodeneev/hoopsedge/internal/pkg/metrics"
	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
	"github.com/Vodeneev/hoopsedge/internal/pkg/storage"
)

// PersistResult counts the outcome of one batch.
type PersistResult struct {
	Inserted int
	Skipped  int
	Failed   int
}

// Persister writes recommendations at most once per event id.
type Persister struct {
	store   storage.RecommendationStore
	metrics *metrics.Recorder
	logger  *slog.Logger
}

func NewPersister(store storage.RecommendationStore, recorder *metrics.Recorder, logger *slog.Logger) *Persister {
	if logger == nil {
		logger = slog.Default()
	}
	return &Persister{store: store, metrics: recorder, logger: logger}
}

// PersistAll stores recs in order. A failed write is logged and the loop moves on;
// rows written before a failure stay written.
func (p *Persister) PersistAll(ctx context.Context, recs []models.Recommendation) PersistResult {
	var res PersistResult
	for i := range recs {
		rec := &recs[i]
		inserted, err := p.store.InsertRecommendation(ctx, rec)
		switch {
		case err != nil:
			res.Failed++
			p.metrics.Recommendation(metrics.OutcomeFailed)
			p.logger.Error("failed to persist recommendation", "event_id", rec.EventID, "error", err)
		case inserted:
			res.Inserted++
			p.metrics.Recommendation(metrics.OutcomeInserted)
			p.logger.Debug("recommendation stored", "event_id", rec.EventID, "trend", rec.Trend, "probability", rec.Probability)
		default:
			res.Skipped++
			p.metrics.Recommendation(metrics.OutcomeSkipped)
			p.logger.Debug("recommendation already recorded", "event_id", rec.EventID)
		}
	}
	return res
}
