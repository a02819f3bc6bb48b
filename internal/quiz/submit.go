package quiz

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/at-ishikawa/langtutor/internal/progression"
)

// Submission is either a full quiz (Answers non-nil) or a single answered question.
type Submission struct {
	Username    string
	Answers     []Answer
	QuestionID  int
	AnswerIndex int
}

type Score struct {
	Score          int
	TotalQuestions int
	// Accuracy of this submission in percent
	Accuracy int
}

// Grader records submissions and credits learners.
type Grader struct {
	results *Results
	engine  *progression.Engine
	now     func() time.Time
}

func NewGrader(results *Results, engine *progression.Engine) *Grader {
	return &Grader{
		results: results,
		engine:  engine,
		now:     time.Now,
	}
}

// Submit stores the result even for unknown users; only known profiles are credited.
// A single answer is always credited as 1 of 1 since its correctness is not reported.
func (g *Grader) Submit(ctx context.Context, submission Submission) (*Score, error) {
	var (
		result  Result
		outcome progression.QuizOutcome
	)
	if submission.Answers != nil {
		full := gradeAnswers(submission.Username, submission.Answers, g.now())
		result = Result{Full: full}
		outcome = progression.QuizOutcome{
			Score:           full.Score,
			Total:           full.TotalQuestions,
			IncorrectTopics: full.WeakTopics,
		}
	} else {
		result = Result{Single: &SingleAnswerResult{
			Username:    submission.Username,
			QuestionID:  submission.QuestionID,
			AnswerIndex: submission.AnswerIndex,
			Date:        g.now(),
		}}
		outcome = progression.QuizOutcome{Score: 1, Total: 1, SingleAnswer: true}
	}

	if err := g.results.Append(ctx, result); err != nil {
		return nil, fmt.Errorf("results.Append(%s) > %w", submission.Username, err)
	}

	history, err := g.results.ForUser(ctx, submission.Username)
	if err != nil {
		return nil, fmt.Errorf("results.ForUser(%s) > %w", submission.Username, err)
	}
	credited, err := g.engine.RecordQuiz(ctx, submission.Username, outcome, Attempts(history))
	if err != nil {
		return nil, fmt.Errorf("engine.RecordQuiz(%s) > %w", submission.Username, err)
	}
	slog.Default().Info("quiz submitted",
		"username", submission.Username,
		"score", outcome.Score,
		"total", outcome.Total,
		"credited", credited)

	return &Score{
		Score:          outcome.Score,
		TotalQuestions: outcome.Total,
		Accuracy:       percentage(outcome.Score, outcome.Total),
	}, nil
}

func gradeAnswers(username string, answers []Answer, now time.Time) *FullResult {
	var score int
	weakTopics := []string{}
	seen := make(map[string]bool)
	for _, a := range answers {
		if a.Correct {
			score++
			continue
		}
		if a.Topic != "" && !seen[a.Topic] {
			seen[a.Topic] = true
			weakTopics = append(weakTopics, a.Topic)
		}
	}

	return &FullResult{
		Username:       username,
		Score:          score,
		TotalQuestions: len(answers),
		Answers:        answers,
		WeakTopics:     weakTopics,
		Date:           now,
	}
}

func percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}
