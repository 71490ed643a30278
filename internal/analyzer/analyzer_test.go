package analyzer

import (
	"testing"

	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_AnxietySignal(t *testing.T) {
	reading, err := Analyze("I feel like I can't keep up with everything")
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentNegative, reading.Sentiment)
	assert.Less(t, reading.Polarity, 0.0)
	assert.GreaterOrEqual(t, reading.Emotions[domain.EmotionAnxiety], 0.4)
}

func TestAnalyze_PositiveSignal(t *testing.T) {
	reading, err := Analyze("I feel confident and ready, I'm making great progress")
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentPositive, reading.Sentiment)
	assert.Greater(t, reading.Polarity, 0.0)
	assert.GreaterOrEqual(t, reading.Emotions[domain.EmotionConfidence], 0.4)
}

func TestAnalyze_MultipleHitsRaiseIntensity(t *testing.T) {
	reading, err := Analyze("I'm worried, anxious and stressed about this")
	require.NoError(t, err)

	assert.InDelta(t, 0.8, reading.Emotions[domain.EmotionAnxiety], 1e-9)
}

func TestAnalyze_NoSignalIsNeutral(t *testing.T) {
	reading, err := Analyze("The quarterly report is due on Thursday")
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentNeutral, reading.Sentiment)
	assert.Equal(t, map[domain.Emotion]float64{domain.EmotionNeutral: 1}, reading.Emotions)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	_, err := Analyze("   ")
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestAnalyze_Deterministic(t *testing.T) {
	const text = "I'm frustrated and stuck, this feels impossible"

	first, err := Analyze(text)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Analyze(text)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestNormalize_SpellingFixes(t *testing.T) {
	assert.Contains(t, Normalize("My PROCASTINATION is hurting my perfomance"), "procrastination")
	assert.Contains(t, Normalize("My PROCASTINATION is hurting my perfomance"), "performance")
}
