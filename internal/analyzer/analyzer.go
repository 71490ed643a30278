// Package analyzer extracts sentiment polarity and per-emotion intensities
// from user text. The analysis is a deterministic lexicon heuristic, not a
// diagnostic instrument: identical input always yields an identical reading,
// and no external state is consulted.
package analyzer

import (
	"strings"

	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
)

// emotionLexicon maps each emotion label to the keywords that signal it.
// Kept as data so new emotions are additive changes.
var emotionLexicon = map[domain.Emotion][]string{
	domain.EmotionAnxiety:     {"worried", "nervous", "anxious", "stressed", "overwhelmed", "panic", "fear", "scared", "afraid", "can't keep up"},
	domain.EmotionFrustration: {"frustrated", "annoyed", "irritated", "stuck", "blocked", "impossible"},
	domain.EmotionExcitement:  {"excited", "thrilled", "enthusiastic", "motivated", "energized", "pumped"},
	domain.EmotionConfusion:   {"confused", "unclear", "lost", "don't understand", "mixed up", "puzzled"},
	domain.EmotionConfidence:  {"confident", "sure", "certain", "capable", "strong", "ready"},
	domain.EmotionSadness:     {"sad", "disappointed", "down", "discouraged", "hopeless", "defeated"},
	domain.EmotionHope:        {"hopeful", "optimistic", "positive", "better", "improving", "progress"},
	domain.EmotionAnger:       {"angry", "mad", "furious", "upset", "outraged", "livid"},
}

var positiveWords = []string{
	"good", "great", "excellent", "confident", "capable", "ready",
	"excited", "motivated", "strong", "successful", "hopeful", "progress",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "scared", "worried", "anxious",
	"frustrated", "stuck", "failed", "overwhelmed", "can't", "hopeless",
}

// spellingFixes covers misspellings that would otherwise hide emotion and
// theme keywords from the lexicon scan.
var spellingFixes = map[string]string{
	"procastination": "procrastination",
	"procastinate":   "procrastinate",
	"chalenge":       "challenge",
	"chalenges":      "challenges",
	"confidance":     "confidence",
	"overwheled":     "overwhelmed",
	"perfomance":     "performance",
	"strenght":       "strength",
	"strenghts":      "strengths",
}

// Normalize lowercases the text and applies common spelling corrections.
func Normalize(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	for wrong, right := range spellingFixes {
		t = strings.ReplaceAll(t, wrong, right)
	}
	return t
}

// Analyze produces an emotion reading for one user message. Empty or
// whitespace-only input returns domain.ErrEmptyInput; callers substitute a
// neutral reading rather than surfacing the failure.
func Analyze(text string) (domain.EmotionReading, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return domain.EmotionReading{}, domain.ErrEmptyInput
	}

	polarity := scorePolarity(normalized)
	emotions := scoreEmotions(normalized)

	sentiment := domain.SentimentNeutral
	switch {
	case polarity >= 0.1:
		sentiment = domain.SentimentPositive
	case polarity <= -0.1:
		sentiment = domain.SentimentNegative
	}

	confidence := polarity
	if confidence < 0 {
		confidence = -confidence
	}

	return domain.EmotionReading{
		Sentiment:  sentiment,
		Polarity:   polarity,
		Emotions:   emotions,
		Confidence: confidence,
	}, nil
}

// scorePolarity counts positive and negative lexicon hits, normalized by
// message length and clamped to [-1, 1].
func scorePolarity(text string) float64 {
	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(text, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(text, w) {
			neg++
		}
	}

	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	score := float64(pos-neg) / float64(words) * 2
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}

// scoreEmotions computes an intensity per emotion label. A single keyword
// hit clears the 0.3 dominance threshold so one clearly-worded message can
// steer the response style.
func scoreEmotions(text string) map[domain.Emotion]float64 {
	emotions := make(map[domain.Emotion]float64, len(emotionLexicon))
	any := false
	for emotion, keywords := range emotionLexicon {
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		any = true
		intensity := 0.4 + 0.2*float64(hits-1)
		if intensity > 1 {
			intensity = 1
		}
		emotions[emotion] = intensity
	}
	if !any {
		emotions[domain.EmotionNeutral] = 1
	}
	return emotions
}
