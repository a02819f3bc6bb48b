// Package writing grades writing submissions and credits learners for them.
package writing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/at-ishikawa/langtutor/internal/inference"
)

// Feedback is the assessment returned for a submission.
type Feedback struct {
	Score                 int      `json:"score"`
	Strengths             []string `json:"strengths"`
	Improvements          []string `json:"improvements"`
	GrammarIssues         []string `json:"grammarIssues"`
	VocabularySuggestions []string `json:"vocabularySuggestions"`
	OverallComment        string   `json:"overallComment"`
}

// MockFeedback is served when AI feedback is disabled.
func MockFeedback() Feedback {
	return Feedback{
		Score:         88,
		Strengths:     []string{"Excellent sentence structure", "Clear and concise tone", "Good use of vocabulary"},
		Improvements:  []string{"Consider adding more complex compound sentences", "Expand on the conclusion"},
		GrammarIssues: []string{},
		VocabularySuggestions: []string{
			`try using "utilize" instead of "use"`,
			`consider "demonstrate" instead of "show"`,
		},
		OverallComment: "Great job! This is a very well-written piece.",
	}
}

const (
	fallbackComment      = "Could not generate detailed AI analysis. However, your writing has been recorded. Keep practicing!"
	fallbackLongScore    = 60
	fallbackShortScore   = 40
	fallbackLongMinChars = 50
)

// fallbackFeedback keeps the mock lists but scores the text by its length.
func fallbackFeedback(text string) Feedback {
	feedback := MockFeedback()
	feedback.Score = fallbackShortScore
	if len([]rune(text)) > fallbackLongMinChars {
		feedback.Score = fallbackLongScore
	}
	feedback.OverallComment = fallbackComment
	return feedback
}

// Reviewer produces feedback for a text.
type Reviewer interface {
	Review(ctx context.Context, text, environment, tone string) (Feedback, error)
}

// MockReviewer always answers with MockFeedback.
type MockReviewer struct{}

func (MockReviewer) Review(context.Context, string, string, string) (Feedback, error) {
	return MockFeedback(), nil
}

const (
	reviewerSystemPrompt = "You are an expert English writing instructor. Return only valid JSON."
	reviewerTemperature  = 0.7
)

var errNoFeedbackObject = errors.New("no JSON object found in generated feedback")

// AIReviewer asks the text generation service for feedback.
type AIReviewer struct {
	ai inference.Client
}

func NewAIReviewer(ai inference.Client) *AIReviewer {
	return &AIReviewer{ai: ai}
}

// Review overlays the generated fields on MockFeedback. Generation or parse failures are
// returned together with length-based fallback feedback.
func (r *AIReviewer) Review(ctx context.Context, text, environment, tone string) (Feedback, error) {
	if environment == "" {
		environment = "General"
	}
	if tone == "" {
		tone = "neutral"
	}

	prompt := fmt.Sprintf(`You are an expert English writing tutor. Analyze this student's writing and provide detailed feedback.

Context: %s writing with %s tone
Student's text: %q

Provide feedback in the following JSON format:
{
  "score": <number 0-100>,
  "strengths": ["strength1", "strength2", "strength3"],
  "improvements": ["improvement1", "improvement2", "improvement3"],
  "grammarIssues": ["issue1", "issue2"],
  "vocabularySuggestions": ["suggestion1", "suggestion2"],
  "overallComment": "brief encouraging comment"
}

Be specific, constructive, and encouraging. Focus on both what they did well and how they can improve.`, environment, tone, text)

	content, err := r.ai.Generate(ctx, inference.GenerateRequest{
		Messages: []inference.Message{
			inference.SystemMessage(reviewerSystemPrompt),
			inference.UserMessage(prompt),
		},
		Temperature: reviewerTemperature,
	})
	if err != nil {
		return fallbackFeedback(text), fmt.Errorf("ai.Generate > %w", err)
	}

	feedback, err := parseFeedback(content)
	if err != nil {
		return fallbackFeedback(text), fmt.Errorf("parseFeedback > %w", err)
	}
	return feedback, nil
}

func parseFeedback(content string) (Feedback, error) {
	cleaned := strings.TrimSpace(strings.NewReplacer("```json", "", "```", "").Replace(content))
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end < start {
		return Feedback{}, errNoFeedbackObject
	}

	generated := generatedFeedback{Feedback: MockFeedback()}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &generated); err != nil {
		return Feedback{}, fmt.Errorf("json.Unmarshal > %w", err)
	}
	feedback := generated.Feedback
	if generated.Score != nil {
		feedback.Score = int(math.Round(min(max(*generated.Score, 0), 100)))
	}
	return feedback, nil
}

// generatedFeedback accepts any JSON number as the score.
type generatedFeedback struct {
	Feedback
	Score *float64 `json:"score"`
}
