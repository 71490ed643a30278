package engine

import "strings"

// Signal classifies the readiness language detected in a user message.
// Ordering is the deterministic tie-break priority: when a message carries
// both commitment and insight language, commitment wins.
type Signal int

const (
	SignalNone Signal = iota
	SignalInsight
	SignalCommitment
)

// commitmentMarkers flag forward-looking, commitment-oriented language.
var commitmentMarkers = []string{
	"i will",
	"i'll",
	"i am going to",
	"i'm going to",
	"going to start",
	"ready to",
	"i commit",
	"commit to",
	"plan to",
	"i want to change",
	"from now on",
	"next step",
}

// insightMarkers flag pattern/insight language.
var insightMarkers = []string{
	"i realize",
	"i realized",
	"i notice",
	"i noticed",
	"i see now",
	"now i see",
	"pattern",
	"makes sense",
	"looking back",
	"i learned",
	"i discovered",
	"i understand why",
}

// DetectSignal returns the strongest readiness signal present in the text.
func DetectSignal(text string) Signal {
	t := strings.ToLower(text)
	for _, m := range commitmentMarkers {
		if strings.Contains(t, m) {
			return SignalCommitment
		}
	}
	for _, m := range insightMarkers {
		if strings.Contains(t, m) {
			return SignalInsight
		}
	}
	return SignalNone
}
