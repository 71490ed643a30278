// Package catalog holds the static coaching registries: the topic catalog
// and the ICF competency template bank. Both are process-wide immutable
// lookup tables initialized at package load and treated as read-only.
package catalog

import (
	"sort"

	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
)

// topics is the fixed coaching topic registry.
var topics = map[string]domain.Topic{
	"performance_improvement": {
		Key:         "performance_improvement",
		Name:        "Performance Improvement",
		Description: "Enhancing work performance and productivity",
		InitialQuestions: []string{
			"What specific aspect of your performance would you like to improve?",
			"What's currently working well in your performance?",
			"What challenges are you facing that impact your performance?",
		},
		ExplorationAreas: []string{"skills", "motivation", "resources", "feedback", "goals"},
	},
	"career_development": {
		Key:         "career_development",
		Name:        "Career Development",
		Description: "Planning and advancing career growth",
		InitialQuestions: []string{
			"Where do you see yourself in your career journey?",
			"What career aspirations are most important to you?",
			"What's holding you back from your next career step?",
		},
		ExplorationAreas: []string{"aspirations", "skills_gap", "networking", "opportunities", "barriers"},
	},
	"work_life_balance": {
		Key:         "work_life_balance",
		Name:        "Work-Life Balance",
		Description: "Achieving harmony between professional and personal life",
		InitialQuestions: []string{
			"How would you describe your current work-life balance?",
			"What areas of your life feel out of balance?",
			"What would ideal balance look like for you?",
		},
		ExplorationAreas: []string{"boundaries", "priorities", "time_management", "energy", "values"},
	},
	"leadership_growth": {
		Key:         "leadership_growth",
		Name:        "Leadership Growth",
		Description: "Developing leadership skills and effectiveness",
		InitialQuestions: []string{
			"What kind of leader do you want to be?",
			"What leadership challenges are you currently facing?",
			"How do you currently influence and inspire others?",
		},
		ExplorationAreas: []string{"leadership_style", "influence", "team_dynamics", "decision_making", "vision"},
	},
}

// themeKeywords maps recurring-theme labels to the keywords that signal
// them, per topic. The insight extractor scans user turns against the set
// for the session's topic.
var themeKeywords = map[string]map[string][]string{
	"performance_improvement": {
		"procrastination": {"procrastination", "procrastinate", "putting off", "delay", "avoid", "postpone"},
		"overwhelm":       {"overwhelmed", "too much", "overload", "swamped", "pressure", "can't keep up"},
		"deadlines":       {"deadline", "on time", "late", "last minute", "due"},
		"fear of failure": {"fear", "afraid", "scared", "failure", "fail", "mistake"},
	},
	"career_development": {
		"growth":      {"promotion", "advance", "grow", "next step", "career move"},
		"uncertainty": {"unsure", "uncertain", "don't know", "unclear", "direction"},
		"skills":      {"skill", "learn", "training", "experience", "qualification"},
		"recognition": {"recognition", "visibility", "noticed", "valued", "appreciated"},
	},
	"work_life_balance": {
		"boundaries":  {"boundaries", "boundary", "switch off", "always on", "available"},
		"overwork":    {"meeting", "meetings", "overtime", "late", "weekend", "email"},
		"family time": {"family", "partner", "kids", "home", "dinner", "personal"},
		"energy":      {"tired", "exhausted", "drained", "burnout", "energy"},
	},
	"leadership_growth": {
		"authenticity":  {"authentic", "myself", "who i am", "pretend", "imposter"},
		"team dynamics": {"team", "conflict", "delegate", "trust", "colleagues"},
		"influence":     {"influence", "inspire", "motivate", "buy-in", "persuade"},
		"control":       {"control", "micromanage", "let go", "hands-on"},
	},
}

// Topic resolves a topic-selection token against the catalog.
func Topic(key string) (domain.Topic, error) {
	t, ok := topics[key]
	if !ok {
		return domain.Topic{}, &domain.UnknownTopicError{Token: key}
	}
	return t, nil
}

// TopicKeys returns the catalog keys in stable order.
func TopicKeys() []string {
	keys := make([]string, 0, len(topics))
	for k := range topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Topics returns all topic descriptors in key order.
func Topics() []domain.Topic {
	keys := TopicKeys()
	out := make([]domain.Topic, 0, len(keys))
	for _, k := range keys {
		out = append(out, topics[k])
	}
	return out
}

// ThemeKeywords returns the theme keyword sets for a topic, falling back to
// the performance set for sessions without a recognized topic.
func ThemeKeywords(topicKey string) map[string][]string {
	if kws, ok := themeKeywords[topicKey]; ok {
		return kws
	}
	return themeKeywords["performance_improvement"]
}
