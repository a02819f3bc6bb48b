package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/langtutor/internal/chat"
	"github.com/at-ishikawa/langtutor/internal/inference"
	"github.com/at-ishikawa/langtutor/internal/learner"
	mock_inference "github.com/at-ishikawa/langtutor/internal/mocks/inference"
	"github.com/at-ishikawa/langtutor/internal/store"
	"github.com/at-ishikawa/langtutor/internal/testutil"
)

var assignedQuestions = []Question{
	{ID: 1, Text: "Assigned question", Options: []string{"a", "b", "c", "d"}, Answer: "b", Topic: "grammar"},
}

func TestResolver_Resolve(t *testing.T) {
	fallback, err := LoadFallbackQuestions("")
	require.NoError(t, err)

	tests := []struct {
		name        string
		username    string
		daily       bool
		assignments []AssignedQuiz
		profiles    []learner.Profile
		chatLogs    []chat.LogEntry
		setupMock   func(m *mock_inference.MockClient)
		wantSource  string
		wantTopic   string
		wantFirst   string
	}{
		{
			name:     "broadcast assignment is served verbatim",
			username: "alice",
			assignments: []AssignedQuiz{
				{ID: 1, Title: "Week 1", Questions: assignedQuestions, AssignedTo: AllStudents, Active: true},
			},
			wantSource: SourceAssignment,
			wantTopic:  "Week 1",
			wantFirst:  "Assigned question",
		},
		{
			name:     "daily bypasses assignments",
			username: "alice",
			daily:    true,
			assignments: []AssignedQuiz{
				{ID: 1, Title: "Week 1", Questions: assignedQuestions, AssignedTo: AllStudents, Active: true},
			},
			setupMock: func(m *mock_inference.MockClient) {
				m.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(validQuestionsJSON, nil)
			},
			wantSource: SourceGenerated,
			wantFirst:  "Past of eat?",
		},
		{
			name:     "assignment for another learner is ignored",
			username: "alice",
			assignments: []AssignedQuiz{
				{ID: 1, Title: "Bob only", Questions: assignedQuestions, AssignedTo: "bob", Active: true},
			},
			setupMock: func(m *mock_inference.MockClient) {
				m.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("not json", nil)
			},
			wantSource: SourceFallback,
			wantFirst:  "Which sentence uses the present perfect correctly?",
		},
		{
			name:     "generation failure serves the fallback set",
			username: "alice",
			setupMock: func(m *mock_inference.MockClient) {
				m.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", errors.New("connection refused"))
			},
			wantSource: SourceFallback,
			wantFirst:  "Which sentence uses the present perfect correctly?",
		},
		{
			name:     "profile level and skills shape the prompt",
			username: "alice",
			profiles: []learner.Profile{{
				Username: "alice",
				Level:    "Advanced C1",
				Skills:   learner.Skills{Grammar: 80, Vocabulary: 40, Writing: 60, Listening: 40},
			}},
			setupMock: func(m *mock_inference.MockClient) {
				m.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, req inference.GenerateRequest) (string, error) {
						assert.Contains(t, req.Messages[1].Content, "for advanced level students")
						assert.Contains(t, req.Messages[1].Content, "Focus on these topics: vocabulary, listening.")
						return validQuestionsJSON, nil
					})
			},
			wantSource: SourceGenerated,
			wantFirst:  "Past of eat?",
		},
		{
			name:     "recent chats become the context",
			username: "alice",
			chatLogs: []chat.LogEntry{
				{Username: "alice", Message: "how do I use since"},
				{Username: "bob", Message: "unrelated"},
			},
			setupMock: func(m *mock_inference.MockClient) {
				m.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, req inference.GenerateRequest) (string, error) {
						assert.Contains(t, req.Messages[1].Content, "for beginner level students")
						assert.Contains(t, req.Messages[1].Content, `"how do I use since"`)
						assert.NotContains(t, req.Messages[1].Content, "unrelated")
						return validQuestionsJSON, nil
					})
			},
			wantSource: SourceGenerated,
			wantFirst:  "Past of eat?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(client)
			}

			s, dir := testutil.NewFileStore(t)
			if tt.assignments != nil {
				testutil.SeedCollection(t, dir, store.AssignedQuizzes, tt.assignments)
			}
			if tt.profiles != nil {
				testutil.SeedCollection(t, dir, store.Users, tt.profiles)
			}
			if tt.chatLogs != nil {
				testutil.SeedCollection(t, dir, store.ChatLogs, tt.chatLogs)
			}

			resolver := NewResolver(
				learner.NewRepository(s),
				chat.NewRepository(s),
				NewAssignments(s),
				NewGenerator(client, 0.8, 5),
				fallback,
				10,
			)

			got, err := resolver.Resolve(context.Background(), tt.username, tt.daily)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.Equal(t, tt.wantTopic, got.Topic)
			require.NotEmpty(t, got.Questions)
			assert.Equal(t, tt.wantFirst, got.Questions[0].Text)
			if tt.wantSource == SourceAssignment {
				assert.Equal(t, assignedQuestions, got.Questions)
			}
		})
	}
}

func TestWeakTopics(t *testing.T) {
	tests := []struct {
		name   string
		skills learner.Skills
		want   []string
	}{
		{
			name:   "defaults",
			skills: learner.DefaultSkills(),
			want:   []string{"listening", "writing"},
		},
		{
			name:   "ties keep stored order",
			skills: learner.Skills{Grammar: 10, Vocabulary: 50, Writing: 10, Listening: 10},
			want:   []string{"grammar", "writing"},
		},
		{
			name:   "all equal",
			skills: learner.Skills{Grammar: 50, Vocabulary: 50, Writing: 50, Listening: 50},
			want:   []string{"grammar", "vocabulary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeakTopics(tt.skills))
		})
	}
}

func TestResolver_GenerateForTopic(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m *mock_inference.MockClient)
		wantFirst string
	}{
		{
			name: "generated questions",
			setupMock: func(m *mock_inference.MockClient) {
				m.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(validQuestionsJSON, nil)
			},
			wantFirst: "Past of eat?",
		},
		{
			name: "mock set on failure",
			setupMock: func(m *mock_inference.MockClient) {
				m.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("", errors.New("i/o timeout"))
			},
			wantFirst: "(Mock) What is the correct form for Idioms?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_inference.NewMockClient(ctrl)
			tt.setupMock(client)

			s, _ := testutil.NewFileStore(t)
			resolver := NewResolver(learner.NewRepository(s), chat.NewRepository(s), NewAssignments(s), NewGenerator(client, 0.8, 5), nil, 10)

			got := resolver.GenerateForTopic(context.Background(), "B1", "Idioms")
			require.NotEmpty(t, got)
			assert.Equal(t, tt.wantFirst, got[0].Text)
		})
	}
}
