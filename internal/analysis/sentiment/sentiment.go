package sentiment

import (
	"log"
	"math"
	"strings"
)

// Neutral defaults substituted whenever the classifier fails or produces
// something unusable. Requests must keep going with these values.
const (
	DefaultLabel = "3 stars"
	DefaultScore = 0.5
)

// Tier collapses the 5-point star scale into the coarse buckets the feedback
// generators branch on.
type Tier string

const (
	Negative Tier = "negative"
	Neutral  Tier = "neutral"
	Positive Tier = "positive"
)

// Normalize replaces an empty label or an unusable score with the neutral
// defaults, logging a warning. It never rejects input.
func Normalize(label string, score float64) (string, float64) {
	if strings.TrimSpace(label) == "" {
		log.Printf("[sentiment] invalid label %q, defaulting to %q", label, DefaultLabel)
		label = DefaultLabel
	}
	if score <= 0 || math.IsNaN(score) || math.IsInf(score, 0) {
		log.Printf("[sentiment] invalid score %v, defaulting to %v", score, DefaultScore)
		score = DefaultScore
	}
	return label, score
}

// TierOf maps a star-rating label to its tier: ratings 1-2 are negative,
// 3 is neutral, 4-5 are positive. Loose prefixes like "2" are accepted.
func TierOf(label string) Tier {
	first := label
	if fields := strings.Fields(strings.ToLower(label)); len(fields) > 0 {
		first = fields[0]
	}
	switch first {
	case "1", "2":
		return Negative
	case "3":
		return Neutral
	default:
		return Positive
	}
}
