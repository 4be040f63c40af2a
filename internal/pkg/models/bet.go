package models

// LegKind identifies the market of a wager leg.
type LegKind string

const (
	LegMoneyline    LegKind = "moneyline"
	LegTeamTotal    LegKind = "team_total"
	LegPlayerPoints LegKind = "player_points"
	LegPlayerSteals LegKind = "player_steals"
	LegPlayerBlocks LegKind = "player_blocks"
)

// Leg is one selection of a multi-leg bet.
type Leg struct {
	Kind      LegKind `json:"kind"`
	Label     string  `json:"label"`
	LineText  string  `json:"line_text"`
	Subject   string  `json:"subject"` // team or player the leg is about
	Threshold float64 `json:"threshold,omitempty"`
}

// IsPlayerLeg reports whether the leg references a player.
func (l Leg) IsPlayerLeg() bool {
	switch l.Kind {
	case LegPlayerPoints, LegPlayerSteals, LegPlayerBlocks:
		return true
	}
	return false
}

// MultiLegBet is the composite wager built for one style clash.
// Legs are ordered: moneyline, team total, offensive player, defensive or secondary player.
type MultiLegBet struct {
	Winner string `json:"winner"`
	Rival  string `json:"rival"`
	Legs   []Leg  `json:"legs"`
}

// Players returns the player names referenced by the legs in order.
func (b MultiLegBet) Players() []string {
	var out []string
	for _, l := range b.Legs {
		if l.IsPlayerLeg() {
			out = append(out, l.Subject)
		}
	}
	return out
}
