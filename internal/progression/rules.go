// Package progression turns learner activity into XP, skill, weak-area and level changes.
//
// The Apply functions mutate a profile in place and always finish with a level recompute.
// Engine wraps them with persistence.
package progression

import (
	"math"
	"regexp"

	"github.com/at-ishikawa/langtutor/internal/learner"
)

// Chat modes
const (
	ModeExplanation = "explanation"
	ModePractice    = "practice"
	ModeGeneral     = "general"
)

const (
	chatXP          = 5
	chatHours       = 0.02
	practiceGrammar = 0.5
	chatVocabulary  = 0.3

	xpPerCorrectAnswer = 10
	quizHours          = 0.1
	vocabularyWeight   = 0.8

	writingHours = 0.25

	MaxWeakAreas = 3
)

// QuizOutcome describes one quiz submission.
type QuizOutcome struct {
	Score int
	Total int
	// IncorrectTopics are the topics of wrongly answered questions.
	IncorrectTopics []string
	// SingleAnswer marks a one-question submission which is credited as 1 of 1.
	SingleAnswer bool
}

// Attempt is the score of one full quiz in a learner's history.
type Attempt struct {
	Score int
	Total int
}

func ApplyChat(p *learner.Profile, mode string) {
	p.XP += chatXP
	p.TotalHours += chatHours
	if mode == ModePractice {
		p.Skills.Raise(learner.SkillGrammar, practiceGrammar)
	} else {
		p.Skills.Raise(learner.SkillVocabulary, chatVocabulary)
	}
	recomputeLevel(p)
}

// ApplyQuiz credits a submission. history must hold every full quiz of the learner,
// including this one, and is used to recompute the accuracy.
func ApplyQuiz(p *learner.Profile, outcome QuizOutcome, history []Attempt) {
	p.QuizAccuracy = Accuracy(history)
	p.TotalHours += quizHours

	if outcome.SingleAnswer {
		p.XP += xpPerCorrectAnswer
		recomputeLevel(p)
		return
	}

	p.XP += xpPerCorrectAnswer * outcome.Score
	if len(outcome.IncorrectTopics) > 0 {
		p.WeakAreas = MergeWeakAreas(p.WeakAreas, outcome.IncorrectTopics)
	}
	if outcome.Total > 0 {
		imp := improvement(float64(outcome.Score) / float64(outcome.Total))
		p.Skills.Raise(learner.SkillGrammar, imp)
		p.Skills.Raise(learner.SkillVocabulary, imp*vocabularyWeight)
	}
	recomputeLevel(p)
}

func ApplyWriting(p *learner.Profile, score int) {
	p.XP += int(math.Round(float64(score) / 5))
	p.TotalHours += writingHours
	p.Skills.Raise(learner.SkillWriting, float64(score)/50)
	recomputeLevel(p)
}

func improvement(accuracy float64) float64 {
	switch {
	case accuracy > 0.7:
		return 2
	case accuracy > 0.5:
		return 1
	default:
		return 0.5
	}
}

// Accuracy is round(100 * correct / asked) over all attempts, or 0 without any question asked.
func Accuracy(history []Attempt) int {
	var score, total int
	for _, a := range history {
		score += a.Score
		total += a.Total
	}
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(score) / float64(total)))
}

// MergeWeakAreas unions topics into existing, keeping insertion order, and keeps the first MaxWeakAreas.
func MergeWeakAreas(existing, topics []string) []string {
	seen := make(map[string]bool, len(existing)+len(topics))
	merged := make([]string, 0, len(existing)+len(topics))
	for _, list := range [][]string{existing, topics} {
		for _, topic := range list {
			if topic == "" || seen[topic] {
				continue
			}
			seen[topic] = true
			merged = append(merged, topic)
		}
	}
	if len(merged) > MaxWeakAreas {
		merged = merged[:MaxWeakAreas]
	}
	return merged
}

func recomputeLevel(p *learner.Profile) {
	p.Level = learner.LevelForXP(p.XP)
}

var grammarHints = []struct {
	pattern *regexp.Regexp
	hint    string
}{
	{pattern: regexp.MustCompile(`(?i)\bi is\b`), hint: "Check subject-verb agreement"},
	{pattern: regexp.MustCompile(`(?i)\bhe go\b`), hint: `Remember to use "goes" with he/she/it`},
}

const (
	minPracticeLength = 10
	brevityHint       = "Try to write longer sentences for better practice"
)

// GrammarHints returns the hints for a practice-mode message, in check order.
func GrammarHints(message string) []string {
	hints := []string{}
	for _, h := range grammarHints {
		if h.pattern.MatchString(message) {
			hints = append(hints, h.hint)
		}
	}
	if len([]rune(message)) < minPracticeLength {
		hints = append(hints, brevityHint)
	}
	return hints
}
