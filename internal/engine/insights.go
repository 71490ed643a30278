package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kumar241977/ai-coaching-assistant/internal/catalog"
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
)

// ExtractInsights scans the accumulated user turns for recurring theme
// keywords and surfaces a theme once it appears in at least minTurns
// distinct turns. At most max insights are returned so the user is never
// flooded; an empty result is normal, never an error. Idempotent for
// identical history.
func ExtractInsights(history []domain.Turn, topicKey string, minTurns, max int) []string {
	if minTurns <= 0 {
		minTurns = 2
	}
	if max <= 0 {
		max = 3
	}

	keywords := catalog.ThemeKeywords(topicKey)
	counts := make(map[string]int, len(keywords))

	for _, turn := range history {
		if turn.Role != domain.RoleUser {
			continue
		}
		text := strings.ToLower(turn.Content)
		for theme, kws := range keywords {
			for _, kw := range kws {
				if strings.Contains(text, kw) {
					counts[theme]++ // once per turn per theme
					break
				}
			}
		}
	}

	type themeCount struct {
		theme string
		count int
	}
	var recurring []themeCount
	for theme, n := range counts {
		if n >= minTurns {
			recurring = append(recurring, themeCount{theme, n})
		}
	}

	// Strongest theme first; name order breaks ties deterministically.
	sort.Slice(recurring, func(i, j int) bool {
		if recurring[i].count != recurring[j].count {
			return recurring[i].count > recurring[j].count
		}
		return recurring[i].theme < recurring[j].theme
	})

	insights := make([]string, 0, max)
	for _, tc := range recurring {
		insights = append(insights, fmt.Sprintf(
			"I notice %s has come up in %d separate messages — it may be central to what you're working through.",
			tc.theme, tc.count,
		))
		if len(insights) == max {
			break
		}
	}
	return insights
}
