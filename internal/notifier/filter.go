// Package notifier decides which recommendations are surfaced, renders them and delivers chat messages.
package notifier

import (
	"sort"

	"github.com/Vodeneev/hoopsedge/internal/pkg/models"
)

// Item is one surfaced recommendation. Pick marks the ones shown with an explicit pick annotation.
type Item struct {
	Rec  models.Recommendation
	Pick bool
}

// Selection is the filtered, ordered batch handed to the formatter.
type Selection struct {
	Items      []Item
	Total      int // recommendations before filtering
	Suppressed int
}

// Suppressed reports whether rec carries no statistics: both diagnostic net ratings are exactly 0.0.
func Suppressed(rec models.Recommendation) bool {
	return rec.HomeNetRating == models.PlaceholderNetRating && rec.AwayNetRating == models.PlaceholderNetRating
}

// Select orders recs by descending probability, drops suppressed ones and annotates at most pickCap
// directional recommendations as picks. recs is not modified.
func Select(recs []models.Recommendation, pickCap int) Selection {
	ordered := make([]models.Recommendation, len(recs))
	copy(ordered, recs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Probability > ordered[j].Probability
	})

	sel := Selection{Total: len(recs)}
	picks := 0
	for _, rec := range ordered {
		if Suppressed(rec) {
			sel.Suppressed++
			continue
		}
		pick := rec.Trend != models.TrendBalanced && picks < pickCap
		if pick {
			picks++
		}
		sel.Items = append(sel.Items, Item{Rec: rec, Pick: pick})
	}
	return sel
}

// Picks returns the annotated items.
func (s Selection) Picks() []Item {
	var out []Item
	for _, it := range s.Items {
		if it.Pick {
			out = append(out, it)
		}
	}
	return out
}
