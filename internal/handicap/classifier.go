package handicap

import (
	"math"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// Classifier constants.
const (
	baseProbability = 50.0
	pointsPerEdge   = 3.0
	minProbability  = 1.0
	maxProbability  = 99.0

	homeThreshold = 55.0
	awayThreshold = 45.0

	lowRiskFrom    = 60.0
	mediumRiskFrom = 53.0
)

// Classification is the probability, trend and risk derived from an edge.
type Classification struct {
	// Probability is for the predicted side: mirrored when the trend is AWAY.
	Probability float64
	Trend       models.Trend
	RiskTier    models.RiskTier
	Confidence  int
}

// Classify maps an edge to a bounded probability, a trend and a risk tier.
func Classify(edge float64) Classification {
	p := clamp(baseProbability+edge*pointsPerEdge, minProbability, maxProbability)

	trend := models.TrendBalanced
	switch {
	case p >= homeThreshold:
		trend = models.TrendHome
	case p <= awayThreshold:
		trend = models.TrendAway
		p = 100 - p
	}

	return Classification{
		Probability: p,
		Trend:       trend,
		RiskTier:    RiskFor(p),
		Confidence:  int(math.Floor(p)),
	}
}

// RiskFor returns the tier of a predicted-side probability.
func RiskFor(p float64) models.RiskTier {
	switch {
	case p >= lowRiskFrom:
		return models.RiskLow
	case p >= mediumRiskFrom:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
