package handicap

import (
	"github.com/Vodeneev/hoopsedge/internal/pkg/line"
	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// MarginParams holds the fixed adjustments of the margin model.
type MarginParams struct {
	HomeCourt         float64
	BackToBackPenalty float64
}

// DefaultMarginParams returns the production constants.
func DefaultMarginParams() MarginParams {
	return MarginParams{HomeCourt: 2.5, BackToBackPenalty: 2.0}
}

// Fatigue flags teams that played on the previous calendar day.
type Fatigue struct {
	HomeBackToBack bool
	AwayBackToBack bool
}

// Features are the numeric inputs of the classifier for one event.
type Features struct {
	ProjectedMargin float64
	MarketLine      float64
	Edge            float64
}

// ProjectMargin returns the expected home margin. Home court and fatigue are applied after pace scaling.
func ProjectMargin(home, away models.TeamStat, fatigue Fatigue, p MarginParams) float64 {
	netRatingDiff := home.NetRating - away.NetRating
	paceFactor := (home.Pace + away.Pace) / 2 / 100
	margin := netRatingDiff*paceFactor + p.HomeCourt

	if fatigue.HomeBackToBack {
		margin -= p.BackToBackPenalty
	}
	if fatigue.AwayBackToBack {
		margin += p.BackToBackPenalty
	}
	return margin
}

// ComputeFeatures projects the margin and combines it with the quoted line.
// A line that cannot be parsed counts as 0; the parse error is returned for logging only.
func ComputeFeatures(home, away models.TeamStat, fatigue Fatigue, rawLine, homeTeam string, p MarginParams) (Features, error) {
	margin := ProjectMargin(home, away, fatigue, p)
	lineValue, err := line.ParseMarketLine(rawLine, homeTeam)
	if err != nil {
		lineValue = 0
	}
	return Features{
		ProjectedMargin: margin,
		MarketLine:      lineValue,
		Edge:            margin + lineValue,
	}, err
}
