package feedback

import (
	"fmt"
	"strings"

	analysis "github.com/ssbprep/interview-coach/backend/internal/analysis/sentiment"
)

// Vocabulary scanned for in candidate answers. Mentions steer the canned
// feedback toward what the candidate actually said.
var militaryKeywords = []string{
	"leadership", "duty", "honor", "country", "service", "discipline",
	"team", "mission", "strategy", "command", "fitness", "integrity",
}

// Catch-all when no branch produces text. RuleBased must never return empty.
const defaultRuleFeedback = "Focus on being more specific and incorporating military leadership examples in your answers. Maintain confidence in your delivery."

// RuleBased produces deterministic coaching feedback without any network
// call. It branches on the sentiment tier, detected keywords and answer
// length, and always returns non-empty text.
func RuleBased(responseText, sentimentLabel string, sentimentScore float64) string {
	sentimentLabel, _ = analysis.Normalize(sentimentLabel, sentimentScore)

	words := strings.Fields(strings.ToLower(responseText))
	wordCount := len(words)

	present := make(map[string]bool, len(words))
	for _, w := range words {
		present[w] = true
	}
	var found []string
	for _, kw := range militaryKeywords {
		if present[kw] {
			found = append(found, kw)
		}
	}

	mentions := found
	if len(mentions) > 2 {
		mentions = mentions[:2]
	}

	var feedback string
	switch analysis.TierOf(sentimentLabel) {
	case analysis.Negative:
		switch {
		case len(found) > 0:
			feedback = fmt.Sprintf("Your mention of %s shows potential, but your response needs more confidence and structure. Try using specific examples to demonstrate your understanding of military values.", strings.Join(mentions, ", "))
		case wordCount < 20:
			feedback = "Your answer is too brief and lacks conviction. Expand on your thoughts and incorporate military leadership concepts to strengthen your response."
		default:
			feedback = "Your response could be more positive and focused. Highlight your strengths and demonstrate how your qualities align with military leadership values."
		}
	case analysis.Neutral:
		switch {
		case len(found) > 0:
			feedback = fmt.Sprintf("Good mention of %s, but elaborate more on how these concepts apply to you personally. Be more specific and show greater enthusiasm in your delivery.", strings.Join(mentions, ", "))
		case wordCount < 30:
			feedback = "Your answer is adequately structured but needs more depth. Include specific examples that highlight your leadership abilities and commitment to service."
		default:
			feedback = "Your response is balanced but could be more impactful. Focus on conveying your points with greater confidence and clarity to stand out."
		}
	default:
		switch {
		case len(found) > 0:
			feedback = fmt.Sprintf("Excellent use of %s in your response. Your answer demonstrates good understanding of military values. Consider adding one specific personal example for even greater impact.", strings.Join(mentions, ", "))
		case wordCount > 50:
			feedback = "Strong, well-articulated response. To improve further, be slightly more concise while maintaining your positive energy and confidence."
		default:
			feedback = "Your positive attitude comes through clearly. Build on this by incorporating more specific military terminology and structured examples in future responses."
		}
	}

	if feedback == "" {
		return defaultRuleFeedback
	}
	return feedback
}
