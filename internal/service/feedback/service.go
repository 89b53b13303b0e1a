// Package feedback turns classified interview answers into short coaching
// messages. The generative path is an eino chain over a hosted model; every
// failure along it routes to the deterministic rule-based generator, so
// Generate never fails its caller.
package feedback

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	analysis "github.com/ssbprep/interview-coach/backend/internal/analysis/sentiment"
	"github.com/ssbprep/interview-coach/backend/internal/model/interview"
)

const (
	minResponseChars       = 10
	minFeedbackChars       = 20
	maxFeedbackChars       = 250
	maxPromptResponseChars = 800
)

// Fixed messages for the paths that skip or survive the generative call.
const (
	invalidResponseMessage = "Please provide a valid response for feedback."
	tooShortMessage        = "Your response is too short. Please provide a more detailed answer."

	// DegradedMessage replaces feedback that came back suspiciously short.
	DegradedMessage = "We're experiencing technical difficulties generating feedback. Please try again with a more detailed response."

	comprehensiveEmptyMessage = "We couldn't generate comprehensive feedback at this time."
	comprehensiveErrorMessage = "We encountered an error while generating comprehensive feedback."
)

// Service runs the immediate and comprehensive feedback chains. Either chain
// may be nil when no generative model is configured; the service then serves
// rule-based feedback only.
type Service struct {
	immediate     compose.Runnable[map[string]any, *schema.Message]
	comprehensive compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the feedback chains for the supplied models. Nil models
// are allowed and disable the corresponding generative path.
func NewService(ctx context.Context, immediateModel, comprehensiveModel model.ChatModel) (*Service, error) {
	svc := &Service{}

	if immediateModel != nil {
		runnable, err := compileChain(ctx, immediateModel, immediateSystemPrompt, immediateUserPrompt)
		if err != nil {
			return nil, fmt.Errorf("failed to compile immediate feedback chain: %w", err)
		}
		svc.immediate = runnable
	}

	if comprehensiveModel != nil {
		runnable, err := compileChain(ctx, comprehensiveModel, comprehensiveSystemPrompt, comprehensiveUserPrompt)
		if err != nil {
			return nil, fmt.Errorf("failed to compile comprehensive feedback chain: %w", err)
		}
		svc.comprehensive = runnable
	}

	return svc, nil
}

func compileChain(ctx context.Context, chatModel model.ChatModel, system, user string) (compose.Runnable[map[string]any, *schema.Message], error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	return chain.Compile(ctx)
}

// Generate produces a short coaching message for one answer. It validates the
// input, attempts the generative chain, and falls back to the rule-based
// generator on any failure. It never returns an error or empty text.
func (s *Service) Generate(ctx context.Context, responseText, sentimentLabel string, sentimentScore float64) string {
	if responseText == "" {
		return invalidResponseMessage
	}
	if len(strings.TrimSpace(responseText)) < minResponseChars {
		return tooShortMessage
	}

	sentimentLabel, sentimentScore = analysis.Normalize(sentimentLabel, sentimentScore)

	if s.immediate == nil {
		return RuleBased(responseText, sentimentLabel, sentimentScore)
	}

	generated, err := s.generateImmediate(ctx, responseText, sentimentLabel, sentimentScore)
	if err != nil {
		log.Printf("[feedback] generative path failed, using rule-based fallback: %v", err)
		return RuleBased(responseText, sentimentLabel, sentimentScore)
	}
	return generated
}

func (s *Service) generateImmediate(ctx context.Context, responseText, sentimentLabel string, sentimentScore float64) (string, error) {
	input := map[string]any{
		"response":  truncateRunes(responseText, maxPromptResponseChars),
		"sentiment": string(analysis.TierOf(sentimentLabel)),
		"score":     fmt.Sprintf("%.2f", sentimentScore),
	}

	msg, err := s.immediate.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("chain invoke failed: %w", err)
	}
	if msg == nil {
		return "", fmt.Errorf("chain returned nil message")
	}

	generated := strings.TrimSpace(msg.Content)
	if len(generated) < minFeedbackChars {
		return "", fmt.Errorf("generated feedback too short (%d chars)", len(generated))
	}

	if len([]rune(generated)) > maxFeedbackChars {
		generated = truncateAtSentence(generated, maxFeedbackChars)
	}

	return stripMarkdown(generated), nil
}

// truncateRunes caps text at max characters, appending an ellipsis when cut.
func truncateRunes(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}

// truncateAtSentence cuts text to max characters, backing up to the last
// sentence boundary inside the window when one exists.
func truncateAtSentence(text string, max int) string {
	cut := string([]rune(text)[:max])
	if idx := strings.LastIndex(cut, ". "); idx >= 0 {
		cut = cut[:idx]
	}
	return cut + "."
}

// stripMarkdown removes emphasis characters the model tends to emit.
func stripMarkdown(text string) string {
	text = strings.ReplaceAll(text, "#", "")
	return strings.ReplaceAll(text, "*", "")
}

// Comprehensive summarizes a whole session in one longer completion. On any
// failure it returns a fixed apology string instead of an error.
func (s *Service) Comprehensive(ctx context.Context, session *interview.Session) string {
	if s.comprehensive == nil || session == nil {
		return comprehensiveErrorMessage
	}

	msg, err := s.comprehensive.Invoke(ctx, map[string]any{
		"transcript": formatTranscript(session.Responses),
	})
	if err != nil {
		log.Printf("[feedback] comprehensive generation failed: %v", err)
		return comprehensiveErrorMessage
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return comprehensiveEmptyMessage
	}

	return stripMarkdown(strings.TrimSpace(msg.Content))
}

func formatTranscript(responses []interview.Response) string {
	var builder strings.Builder
	for i, resp := range responses {
		questionText := resp.QuestionText
		if strings.TrimSpace(questionText) == "" {
			questionText = "Unknown question"
		}
		label := resp.Sentiment.Label
		if strings.TrimSpace(label) == "" {
			label = "neutral"
		}
		fmt.Fprintf(&builder, "Question %d: %s\n", i+1, questionText)
		fmt.Fprintf(&builder, "Response: %q\n", resp.ResponseText)
		fmt.Fprintf(&builder, "Sentiment: %s\n\n", label)
	}
	return builder.String()
}

const immediateSystemPrompt = "You are an SSB (Services Selection Board) interview coach. Give very brief feedback (3-4 lines maximum) on the candidate response you are shown."

const immediateUserPrompt = `RESPONSE: "{response}"

SENTIMENT: {sentiment} (score: {score})

Make your feedback:
1. Specific to what the candidate actually said
2. Focused on 1-2 key points only
3. Actionable but concise
4. Relevant to military officer selection
5. MAXIMUM 3-4 LINES TOTAL

Example format: "Your mention of [specific concept from response] shows [strength]. Work on [one specific improvement] by [brief suggestion]."`

const comprehensiveSystemPrompt = "You are an SSB (Services Selection Board) interview coach providing comprehensive feedback on a full practice session."

const comprehensiveUserPrompt = `Candidate responses:

{transcript}Please provide comprehensive feedback that:
1. Identifies overall strengths across all responses
2. Points out areas for improvement
3. Offers specific advice for better interview performance
4. Is encouraging and supportive

Structure your feedback in clear sections and be specific in your recommendations.`
