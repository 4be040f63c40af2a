package handicap

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// Scoreboard names the stats source spells differently.
var defaultAliases = map[string]string{
	"los angeles clippers": "LA Clippers",
	"l.a. clippers":        "LA Clippers",
}

// Normalizer resolves scoreboard team names to the stat snapshot of the current run.
// Lookup misses never fail; they degrade to the placeholder stat.
type Normalizer struct {
	stats   map[string]models.TeamStat // keyed by normalized canonical name
	keys    []string                   // normalized canonical names, sorted
	aliases map[string]string
	logger  *slog.Logger
}

// NewNormalizer indexes stats by canonical name. aliases map a scoreboard name to a canonical name
// and are merged over the built-in table.
func NewNormalizer(stats map[string]models.TeamStat, aliases map[string]string, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	n := &Normalizer{
		stats:   make(map[string]models.TeamStat, len(stats)),
		aliases: make(map[string]string, len(defaultAliases)+len(aliases)),
		logger:  logger,
	}
	for name, st := range stats {
		key := models.NormalizeName(name)
		if key == "" {
			continue
		}
		if st.TeamName == "" {
			st.TeamName = name
		}
		n.stats[key] = st
		n.keys = append(n.keys, key)
	}
	sort.Strings(n.keys)

	for from, to := range defaultAliases {
		n.aliases[from] = models.NormalizeName(to)
	}
	for from, to := range aliases {
		n.aliases[models.NormalizeName(from)] = models.NormalizeName(to)
	}
	return n
}

// Lookup returns the stat for raw and whether it was found.
// Order: alias table, exact name, then the first canonical name containing raw.
func (n *Normalizer) Lookup(raw string) (models.TeamStat, bool) {
	name := models.NormalizeName(raw)
	if name == "" {
		return placeholderFor(raw), false
	}

	if alias, ok := n.aliases[name]; ok {
		if st, ok := n.stats[alias]; ok {
			return st, true
		}
	}
	if st, ok := n.stats[name]; ok {
		return st, true
	}
	for _, key := range n.keys {
		if strings.Contains(key, name) {
			return n.stats[key], true
		}
	}
	return placeholderFor(raw), false
}

// Pair resolves both sides of an event and warns when neither carries statistics.
func (n *Normalizer) Pair(ev models.Event) (home, away models.TeamStat) {
	home, homeOK := n.Lookup(ev.HomeTeam)
	away, awayOK := n.Lookup(ev.AwayTeam)

	if !homeOK {
		n.logger.Warn("team stats not found, using placeholder", "event_id", ev.EventID, "team", ev.HomeTeam)
	}
	if !awayOK {
		n.logger.Warn("team stats not found, using placeholder", "event_id", ev.EventID, "team", ev.AwayTeam)
	}
	if home.NetRating == models.PlaceholderNetRating && away.NetRating == models.PlaceholderNetRating {
		n.logger.Warn("no statistics resolved for either side; check team aliases",
			"event_id", ev.EventID, "home", ev.HomeTeam, "away", ev.AwayTeam)
	}
	return home, away
}

// Size returns the number of indexed teams.
func (n *Normalizer) Size() int {
	return len(n.stats)
}

func placeholderFor(raw string) models.TeamStat {
	st := models.PlaceholderTeamStat()
	st.TeamName = strings.TrimSpace(raw)
	return st
}
