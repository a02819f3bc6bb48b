package learner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewProfile(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	got := NewProfile("alice", now)

	assert.Equal(t, Profile{
		Username:  "alice",
		Level:     "Beginner A1",
		Skills:    Skills{Grammar: 30, Vocabulary: 25, Writing: 20, Listening: 15},
		WeakAreas: []string{},
		LastLogin: now,
		CreatedAt: now,
	}, got)
}

func TestSkills_Raise(t *testing.T) {
	tests := []struct {
		name  string
		start Skills
		skill string
		delta float64
		want  Skills
	}{
		{
			name:  "adds to the named skill",
			start: DefaultSkills(),
			skill: SkillGrammar,
			delta: 0.5,
			want:  Skills{Grammar: 30.5, Vocabulary: 25, Writing: 20, Listening: 15},
		},
		{
			name:  "caps at 100",
			start: Skills{Writing: 99.5},
			skill: SkillWriting,
			delta: 1.76,
			want:  Skills{Writing: 100},
		},
		{
			name:  "never lowers a score",
			start: Skills{Vocabulary: 40},
			skill: SkillVocabulary,
			delta: -5,
			want:  Skills{Vocabulary: 40},
		},
		{
			name:  "unknown skill is ignored",
			start: DefaultSkills(),
			skill: "pronunciation",
			delta: 3,
			want:  DefaultSkills(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start
			got.Raise(tt.skill, tt.delta)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSkills_Scores(t *testing.T) {
	got := DefaultSkills().Scores()
	assert.Equal(t, []SkillScore{
		{Name: SkillGrammar, Score: 30},
		{Name: SkillVocabulary, Score: 25},
		{Name: SkillWriting, Score: 20},
		{Name: SkillListening, Score: 15},
	}, got)
}
