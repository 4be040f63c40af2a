package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	emptyBatchText = "No games analysed today."
	noStatsText    = "⚠️ Games were found on the scoreboard, but none matched team statistics."
	separator      = "---------------------------"
	strongPickFrom = 60.0
)

// FormatReport renders the daily handicap report in Telegram HTML.
func FormatReport(sel Selection, loc *time.Location) string {
	if sel.Total == 0 {
		return emptyBatchText
	}
	if len(sel.Items) == 0 {
		return noStatsText
	}

	var b strings.Builder
	b.WriteString("🏀 <b>NBA - PICKS OF THE DAY</b> 🏀\n\n")

	for _, it := range sel.Items {
		rec := it.Rec
		b.WriteString(fmt.Sprintf("⚔️ <b>%s @ %s</b> (%s)\n", Escape(rec.AwayTeam), Escape(rec.HomeTeam), ClockTime(rec.ScheduledAt, loc)))
		if it.Pick {
			marker := "⚠️"
			if rec.Probability >= strongPickFrom {
				marker = "🔥"
			}
			b.WriteString(fmt.Sprintf("✅ <b>PICK:</b> %s\n", Escape(rec.PickedTeam())))
			b.WriteString(fmt.Sprintf("📊 <b>Confidence:</b> %d%% %s\n", rec.Confidence, marker))
			b.WriteString(fmt.Sprintf("📉 <b>Line:</b> %s\n", Escape(rec.MarketLine)))
		} else {
			b.WriteString("👀 <b>Balanced / no edge</b>\n")
			b.WriteString(fmt.Sprintf("📉 Line: %s\n", Escape(rec.MarketLine)))
		}
		b.WriteString(separator + "\n")
	}

	b.WriteString("\n<i>Odds and lines may change.</i>")
	return b.String()
}

// ClockTime prints t as HH:MM in loc, or ??:?? when unknown.
func ClockTime(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "??:??"
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("15:04")
}

// Escape makes s safe for Telegram HTML.
func Escape(s string) string {
	return html.EscapeString(s)
}

// SplitMessage cuts Telegram HTML into chunks of at most limit bytes, breaking between lines.
// A longer line is cut between tokens; tags open at a cut are closed and reopened in the next chunk.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}
	var (
		chunks  []string
		current strings.Builder
	)
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
			current.Reset()
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		if len(line) > limit {
			flush()
			chunks = append(chunks, splitLine(strings.TrimRight(line, "\n"), limit)...)
			continue
		}
		if current.Len()+len(line) > limit {
			flush()
		}
		current.WriteString(line)
	}
	flush()
	return chunks
}

type openTag struct {
	name, raw string
}

func splitLine(line string, limit int) []string {
	var (
		pieces  []string
		current strings.Builder
		open    []openTag
		fresh   = true // current holds nothing but reopened tags
	)
	for i := 0; i < len(line); {
		tok := nextToken(line, i)
		i += len(tok)

		next := open
		if name, closing, ok := tagName(tok); ok {
			if closing {
				next = popTag(open, name)
			} else {
				next = append(append([]openTag(nil), open...), openTag{name: name, raw: tok})
			}
		}

		if !fresh && current.Len()+len(tok)+closersLen(next) > limit {
			current.WriteString(closers(open))
			pieces = append(pieces, current.String())
			current.Reset()
			for _, t := range open {
				current.WriteString(t.raw)
			}
			fresh = true
		}
		current.WriteString(tok)
		open = next
		if _, _, ok := tagName(tok); !ok {
			fresh = false
		}
	}
	if !fresh {
		pieces = append(pieces, current.String())
	}
	return pieces
}

// nextToken returns the tag, entity or rune starting at i.
func nextToken(s string, i int) string {
	switch s[i] {
	case '<':
		if end := strings.IndexByte(s[i:], '>'); end > 0 {
			return s[i : i+end+1]
		}
	case '&':
		if end := strings.IndexByte(s[i:], ';'); end > 0 && end <= 10 && !strings.ContainsAny(s[i+1:i+end], " <&\n") {
			return s[i : i+end+1]
		}
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[i : i+size]
}

func tagName(tok string) (name string, closing, ok bool) {
	if len(tok) < 3 || tok[0] != '<' || tok[len(tok)-1] != '>' {
		return "", false, false
	}
	body := tok[1 : len(tok)-1]
	if strings.HasPrefix(body, "/") {
		closing = true
		body = body[1:]
	}
	if end := strings.IndexAny(body, " \t"); end >= 0 {
		body = body[:end]
	}
	return strings.ToLower(body), closing, body != ""
}

func popTag(open []openTag, name string) []openTag {
	for i := len(open) - 1; i >= 0; i-- {
		if open[i].name == name {
			return append(append([]openTag(nil), open[:i]...), open[i+1:]...)
		}
	}
	return open
}

func closers(open []openTag) string {
	var b strings.Builder
	for i := len(open) - 1; i >= 0; i-- {
		b.WriteString("</" + open[i].name + ">")
	}
	return b.String()
}

func closersLen(open []openTag) int {
	n := 0
	for _, t := range open {
		n += len(t.name) + 3
	}
	return n
}
