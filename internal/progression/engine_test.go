package progression_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/langtutor/internal/learner"
	"github.com/at-ishikawa/langtutor/internal/progression"
	"github.com/at-ishikawa/langtutor/internal/store"
	"github.com/at-ishikawa/langtutor/internal/testutil"
)

func TestEngine(t *testing.T) {
	ctx := context.Background()
	s, dir := testutil.NewFileStore(t)
	testutil.SeedCollection(t, dir, store.Users, []learner.Profile{
		{Username: "alice", Level: "Beginner A1", XP: 480, Skills: learner.DefaultSkills(), WeakAreas: []string{}},
	})
	repository := learner.NewRepository(s)
	engine := progression.NewEngine(repository)

	credited, err := engine.RecordChat(ctx, "alice", progression.ModePractice)
	require.NoError(t, err)
	assert.True(t, credited)

	credited, err = engine.RecordWriting(ctx, "alice", 88)
	require.NoError(t, err)
	assert.True(t, credited)

	credited, err = engine.RecordQuiz(ctx, "alice",
		progression.QuizOutcome{Score: 2, Total: 5, IncorrectTopics: []string{"idioms"}},
		[]progression.Attempt{{Score: 2, Total: 5}},
	)
	require.NoError(t, err)
	assert.True(t, credited)

	got, err := repository.Find(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 480+5+18+20, got.XP)
	assert.Equal(t, "Beginner A2", got.Level)
	assert.Equal(t, 40, got.QuizAccuracy)
	assert.Equal(t, []string{"idioms"}, got.WeakAreas)
	assert.InDelta(t, 0.02+0.25+0.1, got.TotalHours, 1e-9)
	assert.InDelta(t, 30.5+0.5, got.Skills.Grammar, 1e-9)
	assert.InDelta(t, 21.76, got.Skills.Writing, 1e-9)
}

func TestEngine_UnknownUser(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewFileStore(t)
	repository := learner.NewRepository(s)
	engine := progression.NewEngine(repository)

	credited, err := engine.RecordChat(ctx, "ghost", progression.ModeGeneral)
	require.NoError(t, err)
	assert.False(t, credited)

	all, err := repository.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
