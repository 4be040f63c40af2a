package tips

import (
	"strings"
	"time"

	"github.com/Vodeneev/hoopsedge/internal/notifier"
	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

const (
	noStatusNewsText = "No critical statistical highlight for today's slate."
	technicalNote    = "Rotation changes can cut starters' minutes and move player markets. Keep an eye on the games."
)

// StatusNote is one team line of the status news.
type StatusNote struct {
	Team string
	Text string
}

// Highlight is a healthy top scorer featured on a free ticket.
type Highlight struct {
	Player string
	Team   string
}

// FreeTicket is the per-game ticket; Legs is never empty for a ticket that gets sent.
type FreeTicket struct {
	HomeTeam   string
	AwayTeam   string
	Analysis   string
	Highlights []Highlight
	Legs       []models.Leg
}

// FormatAgenda lists the games with their local tip-off time.
func FormatAgenda(events []models.Event, loc *time.Location) string {
	var b strings.Builder
	b.WriteString("📅 <b>NBA SCHEDULE TODAY</b>\n\n")
	for _, ev := range events {
		b.WriteString("🕒 " + notifier.ClockTime(ev.ScheduledAt, loc) + " - ")
		b.WriteString("<b>" + notifier.Escape(ev.HomeTeam) + "</b> x <b>" + notifier.Escape(ev.AwayTeam) + "</b>\n")
	}
	b.WriteString("\n🤖 Detailed analysis coming up!")
	return b.String()
}

// FormatStatusNews renders the notes, or a placeholder line when there are none.
func FormatStatusNews(notes []StatusNote) string {
	var b strings.Builder
	b.WriteString("📊 <b>Status News:</b>\n\n")
	if len(notes) == 0 {
		b.WriteString(noStatusNewsText + "\n")
		return b.String()
	}
	for _, n := range notes {
		b.WriteString("<b>" + notifier.Escape(n.Team) + "</b>: " + notifier.Escape(n.Text) + "\n\n")
	}
	return b.String()
}

// FormatClashAlert renders the alert text, the legs of bet and the technical note.
func FormatClashAlert(text string, bet models.MultiLegBet) string {
	var b strings.Builder
	b.WriteString("🚨 <b>STYLE CLASH ALERT</b> 🚨\n")
	b.WriteString("(Defensive and offensive gap)\n\n")
	b.WriteString(notifier.Escape(text) + "\n\n")
	b.WriteString("🏀💰 <b>MULTI-LEG:</b>\n\n")
	for _, leg := range bet.Legs {
		b.WriteString("✔️ " + notifier.Escape(leg.Label) + "\n")
	}
	b.WriteString("\nℹ️ <b>Technical note:</b>\n" + technicalNote)
	return b.String()
}

func FormatFreeTicket(t FreeTicket) string {
	var b strings.Builder
	b.WriteString("🏀 <b>Free Ticket</b>\n\n")
	b.WriteString("🏀 <b>" + notifier.Escape(t.HomeTeam) + "</b> x <b>" + notifier.Escape(t.AwayTeam) + "</b>\n\n")
	b.WriteString("📊 <b>MATCHUP</b>\n\n")
	b.WriteString("🏀🔥 " + notifier.Escape(t.Analysis) + "\n\n")

	if len(t.Highlights) > 0 {
		b.WriteString("⭐️ <b>HIGHLIGHTS</b>\n\n")
		for _, h := range t.Highlights {
			b.WriteString("🔥 " + notifier.Escape(h.Player) + " (<b>" + notifier.Escape(h.Team) + "</b>)\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("🔥 <b>POSSIBLE ENTRIES</b>\n\n")
	for _, leg := range t.Legs {
		if leg.Kind == models.LegTeamTotal {
			b.WriteString("🏀 <b>" + notifier.Escape(leg.Subject) + "</b> " + leg.LineText + "\n")
			continue
		}
		b.WriteString("👤 " + notifier.Escape(leg.Label) + "\n")
	}
	return b.String()
}
