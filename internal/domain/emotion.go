package domain

// Emotion is a named emotion label detected in user text.
type Emotion string

const (
	EmotionAnxiety     Emotion = "anxiety"
	EmotionFrustration Emotion = "frustration"
	EmotionExcitement  Emotion = "excitement"
	EmotionConfusion   Emotion = "confusion"
	EmotionConfidence  Emotion = "confidence"
	EmotionSadness     Emotion = "sadness"
	EmotionHope        Emotion = "hope"
	EmotionAnger       Emotion = "anger"
	EmotionNeutral     Emotion = "neutral"
)

// SentimentLabel is the coarse polarity category of a reading.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// EmotionReading is a single message's sentiment polarity plus per-emotion
// intensity map. Produced fresh per user turn and never mutated afterwards.
type EmotionReading struct {
	Sentiment  SentimentLabel      `json:"sentiment"`
	Polarity   float64             `json:"polarity"` // roughly -1..+1
	Emotions   map[Emotion]float64 `json:"emotions"` // intensity in [0,1]
	Confidence float64             `json:"confidence"`
}

// NeutralReading is the fallback reading substituted when analysis is
// unavailable, e.g. for empty input.
func NeutralReading() EmotionReading {
	return EmotionReading{
		Sentiment: SentimentNeutral,
		Polarity:  0,
		Emotions:  map[Emotion]float64{EmotionNeutral: 1},
	}
}

// StyleTag is the coarse tone classifier derived from recent readings. It
// affects template selection only, never stage progression.
type StyleTag string

const (
	StyleSupportive  StyleTag = "supportive"
	StyleDirect      StyleTag = "direct"
	StyleChallenging StyleTag = "challenging"
	StyleNeutral     StyleTag = "neutral"
)

// EmotionalProfile is a bounded window over the most recent emotion
// readings. The window smooths noisy single-message signals and keeps
// personalization responsive to recent tone rather than the whole history.
type EmotionalProfile struct {
	Window []EmotionReading `json:"window"`
	Size   int              `json:"size"`
}

// Add appends a reading, evicting the oldest once the window is full.
func (p *EmotionalProfile) Add(r EmotionReading) {
	if p.Size <= 0 {
		p.Size = 5
	}
	p.Window = append(p.Window, r)
	if len(p.Window) > p.Size {
		p.Window = p.Window[len(p.Window)-p.Size:]
	}
}

// MeanIntensities averages per-emotion intensity across the window.
func (p *EmotionalProfile) MeanIntensities() map[Emotion]float64 {
	if len(p.Window) == 0 {
		return nil
	}
	sums := make(map[Emotion]float64)
	for _, r := range p.Window {
		for e, v := range r.Emotions {
			sums[e] += v
		}
	}
	for e := range sums {
		sums[e] /= float64(len(p.Window))
	}
	return sums
}
