package quiz

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/at-ishikawa/langtutor/internal/chat"
	"github.com/at-ishikawa/langtutor/internal/learner"
)

// Where the questions of a Selection came from.
const (
	SourceAssignment = "assignment"
	SourceGenerated  = "generated"
	SourceFallback   = "fallback"
)

const weakTopicCount = 2

var defaultWeakTopics = []string{learner.SkillGrammar, learner.SkillVocabulary}

// Selection is the quiz handed to a learner. Topic is the assignment title for assigned quizzes.
type Selection struct {
	Questions []Question
	Topic     string
	Source    string
}

// Resolver picks the quiz a learner receives.
type Resolver struct {
	profiles    *learner.Repository
	chats       *chat.Repository
	assignments *Assignments
	generator   *Generator
	fallback    []Question
	historySize int
}

func NewResolver(
	profiles *learner.Repository,
	chats *chat.Repository,
	assignments *Assignments,
	generator *Generator,
	fallback []Question,
	historySize int,
) *Resolver {
	return &Resolver{
		profiles:    profiles,
		chats:       chats,
		assignments: assignments,
		generator:   generator,
		fallback:    fallback,
		historySize: historySize,
	}
}

// Resolve returns the newest active assignment for username unless daily is set,
// and otherwise a personalized quiz, falling back to the static set when generation fails.
func (r *Resolver) Resolve(ctx context.Context, username string, daily bool) (*Selection, error) {
	if !daily {
		assignment, ok, err := r.assignments.ActiveFor(ctx, username)
		if err != nil {
			return nil, fmt.Errorf("assignments.ActiveFor(%s) > %w", username, err)
		}
		if ok {
			slog.Default().Info("serving assigned quiz",
				"username", username,
				"assignmentID", assignment.ID,
				"title", assignment.Title)
			return &Selection{
				Questions: assignment.Questions,
				Topic:     assignment.Title,
				Source:    SourceAssignment,
			}, nil
		}
	}

	level := learner.BucketBeginner
	weakTopics := defaultWeakTopics
	profile, err := r.profiles.Find(ctx, username)
	switch {
	case err == nil:
		level = learner.LevelBucket(profile.Level)
		weakTopics = WeakTopics(profile.Skills)
	case !errors.Is(err, learner.ErrUserNotFound):
		return nil, fmt.Errorf("profiles.Find(%s) > %w", username, err)
	}

	history, err := r.chats.Recent(ctx, username, r.historySize)
	if err != nil {
		return nil, fmt.Errorf("chats.Recent(%s) > %w", username, err)
	}
	recentMessages := make([]string, 0, len(history))
	for _, entry := range history {
		recentMessages = append(recentMessages, entry.Message)
	}

	questions, err := r.generator.Personalized(ctx, level, weakTopics, recentMessages)
	if err != nil {
		slog.Default().Warn("quiz generation failed, serving fallback questions",
			"username", username,
			"level", level,
			"error", err)
		return &Selection{
			Questions: cloneQuestions(r.fallback),
			Source:    SourceFallback,
		}, nil
	}
	return &Selection{
		Questions: questions,
		Source:    SourceGenerated,
	}, nil
}

// WeakTopics returns the two lowest scoring skills, ties kept in stored order.
func WeakTopics(skills learner.Skills) []string {
	scores := skills.Scores()
	slices.SortStableFunc(scores, func(a, b learner.SkillScore) int {
		return cmp.Compare(a.Score, b.Score)
	})

	topics := make([]string, 0, weakTopicCount)
	for _, s := range scores[:weakTopicCount] {
		topics = append(topics, s.Name)
	}
	return topics
}

// GenerateForTopic serves an administrator request, substituting a labeled mock set on failure.
func (r *Resolver) GenerateForTopic(ctx context.Context, level, topic string) []Question {
	questions, err := r.generator.ForTopic(ctx, level, topic)
	if err != nil {
		slog.Default().Warn("admin quiz generation failed, serving mock questions",
			"level", level,
			"topic", topic,
			"error", err)
		return topicFallbackQuestions(level, topic)
	}
	return questions
}
