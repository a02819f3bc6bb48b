package activity

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/at-ishikawa/langtutor/internal/chat"
	"github.com/at-ishikawa/langtutor/internal/learner"
	"github.com/at-ishikawa/langtutor/internal/quiz"
	"github.com/at-ishikawa/langtutor/internal/writing"
)

// Dashboard summarizes a learner. TotalHours is formatted with one decimal.
type Dashboard struct {
	XP             int            `json:"xp"`
	Streak         int            `json:"streak"`
	TotalHours     string         `json:"totalHours"`
	QuizAccuracy   int            `json:"quizAccuracy"`
	Level          string         `json:"level"`
	Skills         learner.Skills `json:"skills"`
	WeakAreas      []string       `json:"weakAreas"`
	RecentActivity []Item         `json:"recentActivity"`
}

// DefaultDashboard is returned for unknown learners.
func DefaultDashboard() Dashboard {
	return Dashboard{
		TotalHours:     formatHours(0),
		Level:          learner.LevelForXP(0),
		Skills:         learner.DefaultSkills(),
		WeakAreas:      []string{},
		RecentActivity: []Item{},
	}
}

type Builder struct {
	profiles *learner.Repository
	chats    *chat.Repository
	results  *quiz.Results
	writings *writing.Service
}

func NewBuilder(profiles *learner.Repository, chats *chat.Repository, results *quiz.Results, writings *writing.Service) *Builder {
	return &Builder{
		profiles: profiles,
		chats:    chats,
		results:  results,
		writings: writings,
	}
}

func (b *Builder) Dashboard(ctx context.Context, username string) (*Dashboard, error) {
	profile, err := b.profiles.Find(ctx, username)
	if errors.Is(err, learner.ErrUserNotFound) {
		dashboard := DefaultDashboard()
		return &dashboard, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profiles.Find(%s) > %w", username, err)
	}

	chats, err := b.chats.Recent(ctx, username, perTypeLimit)
	if err != nil {
		return nil, fmt.Errorf("chats.Recent(%s) > %w", username, err)
	}
	results, err := b.results.ForUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("results.ForUser(%s) > %w", username, err)
	}
	submissions, err := b.writings.ForUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("writings.ForUser(%s) > %w", username, err)
	}

	weakAreas := profile.WeakAreas
	if weakAreas == nil {
		weakAreas = []string{}
	}
	level := profile.Level
	if level == "" {
		level = learner.LevelForXP(0)
	}
	return &Dashboard{
		XP:             profile.XP,
		Streak:         profile.Streak,
		TotalHours:     formatHours(profile.TotalHours),
		QuizAccuracy:   profile.QuizAccuracy,
		Level:          level,
		Skills:         profile.Skills,
		WeakAreas:      weakAreas,
		RecentActivity: BuildFeed(chats, results, submissions),
	}, nil
}

func formatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', 1, 64)
}
