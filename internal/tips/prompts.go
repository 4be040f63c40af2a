package tips

import (
	"fmt"
	"strings"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
	"github.com/Vodeneev/hoopsedge/internal/styleclash"
)

// statusNewsRank is the deepest leaderboard position worth a status note.
const statusNewsRank = 5

func offensiveLeaderPrompt(p models.RankingEntry, team string) string {
	return fmt.Sprintf("%s of the %s is Top %d in SCORING. Write one short sentence (max 15 words) highlighting that lead.",
		p.SubjectName, team, p.RankPosition)
}

func offensiveAbsencePrompt(p models.RankingEntry, team string) string {
	return fmt.Sprintf("Star %s of the %s (Top %d in the league) is INJURED and out of the game. "+
		"Write one short news-style sentence (max 15 words) about the impact of this absence.",
		p.SubjectName, team, p.RankPosition)
}

func defensiveLeaderPrompt(p models.RankingEntry, team string) string {
	return fmt.Sprintf("%s of the %s is Top %d on DEFENSE. Write one short sentence highlighting that dominance.",
		p.SubjectName, team, p.RankPosition)
}

func defensiveAbsencePrompt(p models.RankingEntry, team string) string {
	return fmt.Sprintf("Elite defender %s of the %s is INJURED. Write one short sentence about the defensive absence.",
		p.SubjectName, team)
}

func clashPrompt(c styleclash.Clash) string {
	return fmt.Sprintf("The %s hold a very strong statistical edge (style clash) over the %s. "+
		"Write a 2-sentence alert, short and serious, stressing that superiority and imbalance. "+
		"Start with 'The %s take the floor...' or similar. Stay professional.",
		c.Winner, c.Rival, c.Winner)
}

func freeTicketPrompt(ev models.Event) string {
	return fmt.Sprintf("Write a short, lively take (max 25 words) on %s x %s. "+
		"Focus on the expected scoring and the rivalry. Use a play-by-play announcer tone.",
		ev.HomeTeam, ev.AwayTeam)
}

// stripTeamPrefix drops a leading "Team:" the model tends to echo back.
func stripTeamPrefix(text, team string) string {
	text = strings.TrimSpace(text)
	if len(text) >= len(team)+1 && strings.EqualFold(text[:len(team)], team) && text[len(team)] == ':' {
		text = strings.TrimSpace(text[len(team)+1:])
	}
	return text
}
