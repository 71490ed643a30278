package catalog

import (
	"sort"
	"strings"

	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
)

// minQuestionLength is the specificity threshold for follow-up questions.
// Shorter filler ("Anything else?") is excluded from response payloads.
const minQuestionLength = 20

// maxFollowUps bounds how many follow-up questions a single response carries.
const maxFollowUps = 3

// Response is the selected content for one coaching turn.
type Response struct {
	Message    string
	Questions  []string
	Competency Competency
	Style      domain.StyleTag
}

// SelectResponse picks the response template for (stage, style) through the
// fallback chain: exact (competency, stage, style), then the same pair with
// a neutral style, then the stage generic. recentTexts feed keyword slot
// substitution only; they never influence which template is chosen.
func SelectResponse(stage domain.Stage, topic domain.Topic, style domain.StyleTag, recentTexts []string) Response {
	competency := CompetencyFor(stage)

	// Ordered lookup keys, first hit wins.
	chain := []templateKey{
		{competency, stage, style},
		{competency, stage, domain.StyleNeutral},
	}

	tpl, ok := Template{}, false
	for _, key := range chain {
		if t, hit := bank[key]; hit {
			tpl, ok = t, true
			break
		}
	}
	if !ok {
		tpl = stageGeneric[stage]
	}

	questions := tpl.FollowUps
	if len(questions) == 0 {
		questions = followUpPools[competency]
	}

	return Response{
		Message:    interpolate(tpl.Text, topic, recentTexts),
		Questions:  FilterQuestions(questions),
		Competency: competency,
		Style:      style,
	}
}

// interpolate fills the {topic} and {focus} slots. {focus} resolves to the
// most recently mentioned theme in the user's own words, or a generic
// placeholder when nothing matched.
func interpolate(text string, topic domain.Topic, recentTexts []string) string {
	topicName := topic.Name
	if topicName == "" {
		topicName = "what matters to you"
	}
	out := strings.ReplaceAll(text, "{topic}", topicName)

	if strings.Contains(out, "{focus}") {
		out = strings.ReplaceAll(out, "{focus}", detectFocus(topic.Key, recentTexts))
	}
	return out
}

// detectFocus scans recent user utterances, newest first, for a theme
// keyword from the topic's keyword sets. Themes are visited in sorted order
// so the substitution is deterministic.
func detectFocus(topicKey string, recentTexts []string) string {
	keywords := ThemeKeywords(topicKey)
	themes := make([]string, 0, len(keywords))
	for theme := range keywords {
		themes = append(themes, theme)
	}
	sort.Strings(themes)

	for i := len(recentTexts) - 1; i >= 0; i-- {
		text := strings.ToLower(recentTexts[i])
		for _, theme := range themes {
			for _, kw := range keywords[theme] {
				if strings.Contains(text, kw) {
					return kw
				}
			}
		}
	}
	return "this situation"
}

// FilterQuestions drops questions below the specificity threshold and caps
// the result. Content-quality invariant: generic filler never reaches the
// user.
func FilterQuestions(questions []string) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		q = strings.TrimSpace(q)
		if len(q) < minQuestionLength || !strings.HasSuffix(q, "?") {
			continue
		}
		out = append(out, q)
		if len(out) == maxFollowUps {
			break
		}
	}
	return out
}
