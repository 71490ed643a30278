package analyzer

import (
	"sort"

	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
)

// styleByEmotion maps a dominant emotion to the communication style used for
// template selection. Emotions not listed fall back to supportive, the safe
// default.
var styleByEmotion = map[domain.Emotion]domain.StyleTag{
	domain.EmotionAnxiety:     domain.StyleSupportive,
	domain.EmotionSadness:     domain.StyleSupportive,
	domain.EmotionConfusion:   domain.StyleSupportive,
	domain.EmotionFrustration: domain.StyleDirect,
	domain.EmotionAnger:       domain.StyleDirect,
	domain.EmotionConfidence:  domain.StyleChallenging,
	domain.EmotionExcitement:  domain.StyleChallenging,
}

// DominantEmotion returns the emotion with the highest mean intensity across
// the profile window, provided it clears the threshold. Ties break on label
// order so the result is deterministic. Returns neutral when nothing
// qualifies.
func DominantEmotion(profile domain.EmotionalProfile, threshold float64) domain.Emotion {
	means := profile.MeanIntensities()
	if len(means) == 0 {
		return domain.EmotionNeutral
	}

	labels := make([]domain.Emotion, 0, len(means))
	for e := range means {
		if e == domain.EmotionNeutral {
			continue
		}
		labels = append(labels, e)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	best := domain.EmotionNeutral
	bestScore := threshold
	for _, e := range labels {
		if means[e] > bestScore {
			best = e
			bestScore = means[e]
		}
	}
	return best
}

// StyleFor derives the communication style from the windowed emotional
// profile. Style influences tone only; it never alters stage progression.
func StyleFor(profile domain.EmotionalProfile, threshold float64) domain.StyleTag {
	dominant := DominantEmotion(profile, threshold)
	if dominant == domain.EmotionNeutral {
		return domain.StyleNeutral
	}
	if style, ok := styleByEmotion[dominant]; ok {
		return style
	}
	return domain.StyleSupportive
}
