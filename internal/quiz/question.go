// Package quiz resolves, generates, assigns and grades multiple-choice quizzes.
package quiz

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Question is a multiple-choice question. Answer holds the text of the correct option.
type Question struct {
	ID      int      `json:"id" yaml:"id"`
	Text    string   `json:"text" yaml:"text"`
	Options []string `json:"options" yaml:"options"`
	Answer  string   `json:"answer" yaml:"answer"`
	Topic   string   `json:"topic,omitempty" yaml:"topic,omitempty"`
}

type questionSet struct {
	Questions []Question `yaml:"questions"`
}

//go:embed fallback/*.yml
var fallbackFS embed.FS

const (
	personalizedFallbackFile = "fallback/personalized.yml"
	topicFallbackFile        = "fallback/topic.yml"
)

// LoadFallbackQuestions reads the set served when personalized generation fails.
// An empty path selects the built-in set.
func LoadFallbackQuestions(path string) ([]Question, error) {
	if path != "" {
		return LoadQuestionFile(path)
	}

	data, err := fallbackFS.ReadFile(personalizedFallbackFile)
	if err != nil {
		return nil, fmt.Errorf("fallbackFS.ReadFile(%s) > %w", personalizedFallbackFile, err)
	}
	questions, err := decodeQuestionSet(data)
	if err != nil {
		return nil, fmt.Errorf("decodeQuestionSet(%s) > %w", personalizedFallbackFile, err)
	}
	return questions, nil
}

// LoadQuestionFile reads a YAML file holding a non-empty "questions" list.
func LoadQuestionFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	questions, err := decodeQuestionSet(data)
	if err != nil {
		return nil, fmt.Errorf("decodeQuestionSet(%s) > %w", path, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("question set %q is empty", path)
	}
	return questions, nil
}

// topicFallbackQuestions returns the mock set for an admin request, labeled with level and topic.
func topicFallbackQuestions(level, topic string) []Question {
	data, err := fallbackFS.ReadFile(topicFallbackFile)
	if err != nil {
		panic(fmt.Sprintf("embedded %s: %v", topicFallbackFile, err))
	}
	questions, err := decodeQuestionSet(data)
	if err != nil {
		panic(fmt.Sprintf("embedded %s: %v", topicFallbackFile, err))
	}

	if topic == "" {
		topic = "General"
	}
	replacer := strings.NewReplacer("{topic}", topic, "{level}", level)
	for i := range questions {
		questions[i].Text = replacer.Replace(questions[i].Text)
	}
	return questions
}

func decodeQuestionSet(data []byte) ([]Question, error) {
	var set questionSet
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&set); err != nil {
		return nil, fmt.Errorf("yaml.Decode > %w", err)
	}
	return set.Questions, nil
}

func cloneQuestions(questions []Question) []Question {
	cloned := make([]Question, len(questions))
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		cloned[i] = q
	}
	return cloned
}
