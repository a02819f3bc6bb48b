package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/at-ishikawa/langtutor/internal/progression"
	"github.com/at-ishikawa/langtutor/internal/store"
)

// Answer is one graded question of a full quiz submission.
type Answer struct {
	QuestionID     int    `json:"questionId"`
	Question       string `json:"question"`
	SelectedAnswer string `json:"selectedAnswer"`
	CorrectAnswer  string `json:"correctAnswer"`
	Correct        bool   `json:"correct"`
	Topic          string `json:"topic"`
}

// FullResult records a whole quiz.
type FullResult struct {
	Username       string    `json:"username"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Answers        []Answer  `json:"answers"`
	WeakTopics     []string  `json:"weakTopics"`
	Date           time.Time `json:"date"`
}

// SingleAnswerResult records one answered question.
type SingleAnswerResult struct {
	Username    string    `json:"username"`
	QuestionID  int       `json:"questionId"`
	AnswerIndex int       `json:"answerIndex"`
	Date        time.Time `json:"date"`
}

// Result is stored as either shape in the same collection; exactly one field is set.
// Records carrying totalQuestions decode as FullResult.
type Result struct {
	Full   *FullResult
	Single *SingleAnswerResult
}

var errEmptyResult = errors.New("quiz result has no variant set")

func (r Result) MarshalJSON() ([]byte, error) {
	switch {
	case r.Full != nil:
		return json.Marshal(r.Full)
	case r.Single != nil:
		return json.Marshal(r.Single)
	default:
		return nil, errEmptyResult
	}
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var probe struct {
		TotalQuestions *int `json:"totalQuestions"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if probe.TotalQuestions != nil {
		var full FullResult
		if err := json.Unmarshal(data, &full); err != nil {
			return err
		}
		*r = Result{Full: &full}
		return nil
	}

	var single SingleAnswerResult
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*r = Result{Single: &single}
	return nil
}

func (r Result) Username() string {
	if r.Full != nil {
		return r.Full.Username
	}
	if r.Single != nil {
		return r.Single.Username
	}
	return ""
}

func (r Result) Date() time.Time {
	if r.Full != nil {
		return r.Full.Date
	}
	if r.Single != nil {
		return r.Single.Date
	}
	return time.Time{}
}

// Results reads and appends quiz results.
type Results struct {
	results *store.Collection[Result]
}

func NewResults(s *store.Store) *Results {
	return &Results{
		results: store.NewCollection[Result](s, store.QuizResults),
	}
}

func (r *Results) Append(ctx context.Context, result Result) error {
	if err := r.results.Append(ctx, result); err != nil {
		return fmt.Errorf("results.Append > %w", err)
	}
	return nil
}

// ForUser returns the user's results in stored order.
func (r *Results) ForUser(ctx context.Context, username string) ([]Result, error) {
	all, err := r.results.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("results.All > %w", err)
	}

	var results []Result
	for _, result := range all {
		if result.Username() == username {
			results = append(results, result)
		}
	}
	return results, nil
}

// Attempts keeps the full quizzes of results for accuracy computation.
func Attempts(results []Result) []progression.Attempt {
	var attempts []progression.Attempt
	for _, result := range results {
		if result.Full == nil {
			continue
		}
		attempts = append(attempts, progression.Attempt{
			Score: result.Full.Score,
			Total: result.Full.TotalQuestions,
		})
	}
	return attempts
}
