package line

import (
	"strings"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// nbaTeamAbbreviations maps canonical team names to every abbreviation the feeds use for them.
// The first entry is the league abbreviation, the rest are sportsbook/ESPN variants.
var nbaTeamAbbreviations = map[string][]string{
	"Atlanta Hawks":          {"ATL"},
	"Boston Celtics":         {"BOS"},
	"Brooklyn Nets":          {"BKN", "BRK"},
	"Charlotte Hornets":      {"CHA", "CHO"},
	"Chicago Bulls":          {"CHI"},
	"Cleveland Cavaliers":    {"CLE"},
	"Dallas Mavericks":       {"DAL"},
	"Denver Nuggets":         {"DEN"},
	"Detroit Pistons":        {"DET"},
	"Golden State Warriors":  {"GSW", "GS"},
	"Houston Rockets":        {"HOU"},
	"Indiana Pacers":         {"IND"},
	"LA Clippers":            {"LAC"},
	"Los Angeles Lakers":     {"LAL"},
	"Memphis Grizzlies":      {"MEM"},
	"Miami Heat":             {"MIA"},
	"Milwaukee Bucks":        {"MIL"},
	"Minnesota Timberwolves": {"MIN"},
	"New Orleans Pelicans":   {"NOP", "NO"},
	"New York Knicks":        {"NYK", "NY"},
	"Oklahoma City Thunder":  {"OKC"},
	"Orlando Magic":          {"ORL"},
	"Philadelphia 76ers":     {"PHI"},
	"Phoenix Suns":           {"PHX", "PHO"},
	"Portland Trail Blazers": {"POR"},
	"Sacramento Kings":       {"SAC"},
	"San Antonio Spurs":      {"SAS", "SA"},
	"Toronto Raptors":        {"TOR"},
	"Utah Jazz":              {"UTA", "UTAH"},
	"Washington Wizards":     {"WAS", "WSH"},
}

// alternate spellings of canonical names seen across feeds
var teamNameVariants = map[string]string{
	"los angeles clippers": "LA Clippers",
	"l.a. clippers":        "LA Clippers",
	"l.a. lakers":          "Los Angeles Lakers",
	"la lakers":            "Los Angeles Lakers",
}

var (
	abbreviationsByName = map[string][]string{}
	nameByAbbreviation  = map[string]string{}
)

func init() {
	for name, abbrs := range nbaTeamAbbreviations {
		abbreviationsByName[models.NormalizeName(name)] = abbrs
		for _, a := range abbrs {
			nameByAbbreviation[a] = name
		}
	}
	for variant, name := range teamNameVariants {
		abbreviationsByName[variant] = nbaTeamAbbreviations[name]
	}
}

// Abbreviations returns the known abbreviations of a team, or nil for unknown teams.
func Abbreviations(team string) []string {
	return abbreviationsByName[models.NormalizeName(team)]
}

// TeamForAbbreviation returns the canonical team name for an abbreviation.
func TeamForAbbreviation(abbr string) (string, bool) {
	name, ok := nameByAbbreviation[strings.ToUpper(strings.TrimSpace(abbr))]
	return name, ok
}

// MatchesTeam reports whether a line prefix ("LAL", "GS") names the given team.
func MatchesTeam(prefix, team string) bool {
	p := strings.ToUpper(strings.TrimSpace(prefix))
	if p == "" || strings.TrimSpace(team) == "" {
		return false
	}
	for _, a := range Abbreviations(team) {
		if a == p {
			return true
		}
	}
	if owner, ok := nameByAbbreviation[p]; ok {
		// known abbreviation of some team; only a match when it is this team under another spelling
		return models.SameName(owner, team)
	}

	upperTeam := strings.ToUpper(team)
	if len(p) >= 3 && strings.Contains(upperTeam, p[:3]) {
		return true
	}
	return initials(upperTeam) == p
}

func initials(s string) string {
	var b strings.Builder
	for _, w := range strings.Fields(s) {
		b.WriteByte(w[0])
	}
	return b.String()
}
