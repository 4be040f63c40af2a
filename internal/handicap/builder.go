package handicap

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// BuildRecommendation assembles the stored record of one scored event.
func BuildRecommendation(ev models.Event, home, away models.TeamStat, f Features, c Classification, reportDate time.Time) models.Recommendation {
	marketLine := strings.TrimSpace(ev.MarketLine)
	if marketLine == "" {
		marketLine = "0.0"
	}
	return models.Recommendation{
		EventID:         ev.EventID,
		ReportDate:      reportDate,
		League:          ev.League,
		HomeTeam:        ev.HomeTeam,
		AwayTeam:        ev.AwayTeam,
		ScheduledAt:     ev.ScheduledAt,
		MarketLine:      marketLine,
		Probability:     round2(c.Probability),
		RiskTier:        c.RiskTier,
		Confidence:      c.Confidence,
		Trend:           c.Trend,
		Justification:   Justification(home, away, f),
		HomeNetRating:   home.NetRating,
		AwayNetRating:   away.NetRating,
		ProjectedMargin: f.ProjectedMargin,
		Edge:            f.Edge,
	}
}

// Justification is the technical note kept with the stored row.
func Justification(home, away models.TeamStat, f Features) string {
	return fmt.Sprintf("NetRtg: %s vs %s. Projection: %.1f. Line: %s. Edge: %.1f.",
		formatNumber(home.NetRating), formatNumber(away.NetRating),
		f.ProjectedMargin, formatNumber(f.MarketLine), math.Abs(f.Edge))
}

// formatNumber prints the shortest exact form, keeping one decimal on whole numbers (5 -> "5.0").
func formatNumber(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") && !math.IsInf(v, 0) && !math.IsNaN(v) {
		s += ".0"
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
