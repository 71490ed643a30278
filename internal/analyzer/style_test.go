package analyzer

import (
	"testing"

	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
)

func profileWith(readings ...domain.EmotionReading) domain.EmotionalProfile {
	p := domain.EmotionalProfile{Size: 5}
	for _, r := range readings {
		p.Add(r)
	}
	return p
}

func reading(emotions map[domain.Emotion]float64) domain.EmotionReading {
	return domain.EmotionReading{Sentiment: domain.SentimentNeutral, Emotions: emotions}
}

func TestStyleFor(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.EmotionalProfile
		want    domain.StyleTag
	}{
		{
			name:    "anxiety maps to supportive",
			profile: profileWith(reading(map[domain.Emotion]float64{domain.EmotionAnxiety: 0.4})),
			want:    domain.StyleSupportive,
		},
		{
			name:    "frustration maps to direct",
			profile: profileWith(reading(map[domain.Emotion]float64{domain.EmotionFrustration: 0.6})),
			want:    domain.StyleDirect,
		},
		{
			name:    "confidence maps to challenging",
			profile: profileWith(reading(map[domain.Emotion]float64{domain.EmotionConfidence: 0.5})),
			want:    domain.StyleChallenging,
		},
		{
			name:    "below threshold stays neutral",
			profile: profileWith(reading(map[domain.Emotion]float64{domain.EmotionSadness: 0.2})),
			want:    domain.StyleNeutral,
		},
		{
			name:    "empty profile stays neutral",
			profile: domain.EmotionalProfile{},
			want:    domain.StyleNeutral,
		},
		{
			name:    "hope has no mapping, falls back to supportive",
			profile: profileWith(reading(map[domain.Emotion]float64{domain.EmotionHope: 0.7})),
			want:    domain.StyleSupportive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StyleFor(tt.profile, 0.3))
		})
	}
}

func TestDominantEmotion_TieBreaksOnLabelOrder(t *testing.T) {
	// anger and confidence at identical intensity; "anger" sorts first
	profile := profileWith(reading(map[domain.Emotion]float64{
		domain.EmotionAnger:      0.5,
		domain.EmotionConfidence: 0.5,
	}))

	assert.Equal(t, domain.EmotionAnger, DominantEmotion(profile, 0.3))
}

func TestDominantEmotion_WindowSmoothing(t *testing.T) {
	// A single anxious message averaged over three readings drops below the
	// threshold.
	profile := profileWith(
		reading(map[domain.Emotion]float64{domain.EmotionNeutral: 1}),
		reading(map[domain.Emotion]float64{domain.EmotionNeutral: 1}),
		reading(map[domain.Emotion]float64{domain.EmotionAnxiety: 0.4}),
	)

	assert.Equal(t, domain.EmotionNeutral, DominantEmotion(profile, 0.3))
}
