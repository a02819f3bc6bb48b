package progression

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/langtutor/internal/learner"
)

// Engine applies activity to stored profiles. Activity of unknown users is not credited.
type Engine struct {
	profiles *learner.Repository
}

func NewEngine(profiles *learner.Repository) *Engine {
	return &Engine{profiles: profiles}
}

// RecordChat credits one chat message. It reports false when the user has no profile.
func (e *Engine) RecordChat(ctx context.Context, username, mode string) (bool, error) {
	return e.apply(ctx, "chat", username, func(p *learner.Profile) {
		ApplyChat(p, mode)
	})
}

func (e *Engine) RecordQuiz(ctx context.Context, username string, outcome QuizOutcome, history []Attempt) (bool, error) {
	return e.apply(ctx, "quiz", username, func(p *learner.Profile) {
		ApplyQuiz(p, outcome, history)
	})
}

func (e *Engine) RecordWriting(ctx context.Context, username string, score int) (bool, error) {
	return e.apply(ctx, "writing", username, func(p *learner.Profile) {
		ApplyWriting(p, score)
	})
}

func (e *Engine) apply(ctx context.Context, activity, username string, fn func(*learner.Profile)) (bool, error) {
	profile, err := e.profiles.Update(ctx, username, func(p *learner.Profile) error {
		fn(p)
		return nil
	})
	if errors.Is(err, learner.ErrUserNotFound) {
		slog.Default().Debug("skipping progression for unknown user",
			"activity", activity,
			"username", username)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("profiles.Update(%s) > %w", username, err)
	}

	slog.Default().Debug("applied progression",
		"activity", activity,
		"username", username,
		"xp", profile.XP,
		"level", profile.Level)
	return true, nil
}
