package writing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/at-ishikawa/langtutor/internal/progression"
	"github.com/at-ishikawa/langtutor/internal/store"
)

var ErrEmptyText = errors.New("text is required")

// Submission is a stored piece of writing. Type is the writing environment, e.g. email or essay.
type Submission struct {
	Username string    `json:"username"`
	Text     string    `json:"text"`
	Type     string    `json:"type"`
	Feedback Feedback  `json:"feedback"`
	Date     time.Time `json:"date"`
}

type Request struct {
	Username    string
	Text        string
	Environment string
	Tone        string
}

type Service struct {
	reviewer    Reviewer
	submissions *store.Collection[Submission]
	engine      *progression.Engine
	now         func() time.Time
}

func NewService(reviewer Reviewer, s *store.Store, engine *progression.Engine) *Service {
	return &Service{
		reviewer:    reviewer,
		submissions: store.NewCollection[Submission](s, store.WritingSubmissions),
		engine:      engine,
		now:         time.Now,
	}
}

// Submit reviews and stores the text, then credits the learner with the score.
func (s *Service) Submit(ctx context.Context, req Request) (*Feedback, error) {
	if req.Text == "" {
		return nil, ErrEmptyText
	}

	feedback, err := s.reviewer.Review(ctx, req.Text, req.Environment, req.Tone)
	if err != nil {
		slog.Default().Warn("writing review failed, using fallback feedback",
			"username", req.Username,
			"error", err)
	}

	if err := s.submissions.Append(ctx, Submission{
		Username: req.Username,
		Text:     req.Text,
		Type:     req.Environment,
		Feedback: feedback,
		Date:     s.now(),
	}); err != nil {
		return nil, fmt.Errorf("submissions.Append(%s) > %w", req.Username, err)
	}

	if _, err := s.engine.RecordWriting(ctx, req.Username, feedback.Score); err != nil {
		return nil, fmt.Errorf("engine.RecordWriting(%s) > %w", req.Username, err)
	}
	return &feedback, nil
}

// ForUser returns the user's submissions in stored order.
func (s *Service) ForUser(ctx context.Context, username string) ([]Submission, error) {
	all, err := s.submissions.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("submissions.All > %w", err)
	}

	var submissions []Submission
	for _, submission := range all {
		if submission.Username == username {
			submissions = append(submissions, submission)
		}
	}
	return submissions, nil
}
