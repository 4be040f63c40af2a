package models

import (
	"time"
)

// Trend is the side the model leans to.
type Trend string

const (
	TrendHome     Trend = "HOME"
	TrendAway     Trend = "AWAY"
	TrendBalanced Trend = "BALANCED"
)

// RiskTier is the discrete risk label of a recommendation.
type RiskTier string

const (
	RiskLow    RiskTier = "LOW"
	RiskMedium RiskTier = "MEDIUM"
	RiskHigh   RiskTier = "HIGH"
)

// Recommendation is the scored output for one event. EventID is unique in the store.
type Recommendation struct {
	EventID     string    `json:"event_id"`
	ReportDate  time.Time `json:"report_date"`
	League      string    `json:"league"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	ScheduledAt time.Time `json:"scheduled_at"`
	MarketLine  string    `json:"market_line"`
	// Probability is the chance of the predicted side, not always the home side.
	Probability   float64  `json:"probability"`
	RiskTier      RiskTier `json:"risk_tier"`
	Confidence    int      `json:"confidence"`
	Trend         Trend    `json:"trend"`
	Justification string   `json:"justification"`

	// Diagnostics; not shown to end users.
	HomeNetRating   float64 `json:"home_net_rating"`
	AwayNetRating   float64 `json:"away_net_rating"`
	ProjectedMargin float64 `json:"projected_margin"`
	Edge            float64 `json:"edge"`
}

// PickedTeam returns the team the trend points to, or "" when balanced.
func (r Recommendation) PickedTeam() string {
	switch r.Trend {
	case TrendHome:
		return r.HomeTeam
	case TrendAway:
		return r.AwayTeam
	}
	return ""
}
