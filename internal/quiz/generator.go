package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/at-ishikawa/langtutor/internal/inference"
	"github.com/at-ishikawa/langtutor/schemas"
)

const (
	assessmentSystemPrompt = "You are an expert English language assessment creator. Return only valid JSON, no other text."
	adminSystemPrompt      = "You are an expert English teacher. Return only valid JSON."
)

var ErrNoQuestions = errors.New("no JSON array found in generated content")

// Generator asks the text generation service for quiz questions.
type Generator struct {
	ai            inference.Client
	temperature   float64 // personalized quizzes only
	questionCount int
}

func NewGenerator(ai inference.Client, temperature float64, questionCount int) *Generator {
	return &Generator{
		ai:            ai,
		temperature:   temperature,
		questionCount: questionCount,
	}
}

// Personalized generates questions for a level bucket. recentMessages take precedence over weakTopics as context.
func (g *Generator) Personalized(ctx context.Context, level string, weakTopics, recentMessages []string) ([]Question, error) {
	var focus string
	if len(recentMessages) > 0 {
		focus = fmt.Sprintf("Context based on recent student questions: %q. Focus on these topics.", strings.Join(recentMessages, "; "))
	} else {
		focus = fmt.Sprintf("Focus on these topics: %s.", strings.Join(weakTopics, ", "))
	}

	prompt := fmt.Sprintf(`Generate %d English language quiz questions for %s level students.
%s

Return ONLY a valid JSON array with this exact structure:
[
  {
    "id": 1,
    "text": "question text here",
    "options": ["option1", "option2", "option3", "option4"],
    "answer": "correct option text",
    "topic": "grammar or vocabulary"
  }
]
Make questions challenging but appropriate for %s level. Include variety in question types.`,
		g.questionCount, level, focus, level)

	return g.generate(ctx, assessmentSystemPrompt, prompt, g.temperature)
}

// ForTopic generates questions about a free-text topic for an administrator, at the client's default temperature.
func (g *Generator) ForTopic(ctx context.Context, level, topic string) ([]Question, error) {
	prompt := fmt.Sprintf(`Generate %d multiple-choice English questions for %s level students about %q.
Return ONLY a valid JSON array with this structure:
[
  {
    "id": 1,
    "text": "Question text",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "answer": "Correct Option Text"
  }
]`, g.questionCount, level, topic)

	return g.generate(ctx, adminSystemPrompt, prompt, 0)
}

func (g *Generator) generate(ctx context.Context, systemPrompt, prompt string, temperature float64) ([]Question, error) {
	content, err := g.ai.Generate(ctx, inference.GenerateRequest{
		Messages: []inference.Message{
			inference.SystemMessage(systemPrompt),
			inference.UserMessage(prompt),
		},
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("ai.Generate > %w", err)
	}

	questions, err := parseQuestions(content)
	if err != nil {
		return nil, fmt.Errorf("parseQuestions > %w", err)
	}
	return questions, nil
}

// parseQuestions takes the span from the first '[' to the last ']' of content, ignoring
// markdown fences, and validates it against the embedded questions schema.
func parseQuestions(content string) ([]Question, error) {
	cleaned := strings.NewReplacer("```json", "", "```", "").Replace(content)
	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end < start {
		return nil, ErrNoQuestions
	}
	raw := cleaned[start : end+1]

	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := compiledQuestionsSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var questions []Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("json.Unmarshal > %w", err)
	}
	return questions, nil
}

var compiledQuestionsSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemas.Questions))
	if err != nil {
		return nil, fmt.Errorf("parse questions schema: %w", err)
	}

	const schemaURL = "schema://questions.json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	return compiled, nil
})
