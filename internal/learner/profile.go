// Package learner owns user profiles: registration, login bookkeeping and proficiency tiers.
package learner

import (
	"time"
)

// Skill names tracked on every profile, in their stored order.
const (
	SkillGrammar    = "grammar"
	SkillVocabulary = "vocabulary"
	SkillWriting    = "writing"
	SkillListening  = "listening"
)

const maxSkillScore = 100

// Profile is the persisted record of a learner.
type Profile struct {
	Username     string    `json:"username"`
	Level        string    `json:"level"`
	XP           int       `json:"xp"`
	Streak       int       `json:"streak"`
	TotalHours   float64   `json:"totalHours"`
	QuizAccuracy int       `json:"quizAccuracy"`
	Skills       Skills    `json:"skills"`
	WeakAreas    []string  `json:"weakAreas"`
	LastLogin    time.Time `json:"lastLogin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Skills holds a score in [0, 100] per skill.
type Skills struct {
	Grammar    float64 `json:"grammar"`
	Vocabulary float64 `json:"vocabulary"`
	Writing    float64 `json:"writing"`
	Listening  float64 `json:"listening"`
}

// SkillScore is a single named entry of Skills.
type SkillScore struct {
	Name  string
	Score float64
}

func DefaultSkills() Skills {
	return Skills{
		Grammar:    30,
		Vocabulary: 25,
		Writing:    20,
		Listening:  15,
	}
}

// NewProfile returns a profile with the starting tier, no XP and default skills.
func NewProfile(username string, now time.Time) Profile {
	return Profile{
		Username:  username,
		Level:     LevelForXP(0),
		Skills:    DefaultSkills(),
		WeakAreas: []string{},
		LastLogin: now,
		CreatedAt: now,
	}
}

// Scores lists the skills in stored order.
func (s Skills) Scores() []SkillScore {
	return []SkillScore{
		{Name: SkillGrammar, Score: s.Grammar},
		{Name: SkillVocabulary, Score: s.Vocabulary},
		{Name: SkillWriting, Score: s.Writing},
		{Name: SkillListening, Score: s.Listening},
	}
}

// Raise adds delta to the named skill, capped at 100. Negative deltas and unknown skills are ignored.
func (s *Skills) Raise(skill string, delta float64) {
	if delta <= 0 {
		return
	}

	var score *float64
	switch skill {
	case SkillGrammar:
		score = &s.Grammar
	case SkillVocabulary:
		score = &s.Vocabulary
	case SkillWriting:
		score = &s.Writing
	case SkillListening:
		score = &s.Listening
	default:
		return
	}

	if *score >= maxSkillScore {
		return
	}
	*score = min(*score+delta, maxSkillScore)
}
