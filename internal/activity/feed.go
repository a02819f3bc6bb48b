// Package activity assembles the dashboard: profile figures plus a merged recent-activity feed.
package activity

import (
	"fmt"
	"slices"
	"time"

	"github.com/at-ishikawa/langtutor/internal/chat"
	"github.com/at-ishikawa/langtutor/internal/quiz"
	"github.com/at-ishikawa/langtutor/internal/writing"
)

// Item types
const (
	TypeChat    = "chat"
	TypeQuiz    = "quiz"
	TypeWriting = "writing"
)

const (
	perTypeLimit = 5
	feedLimit    = 10
)

type Item struct {
	Type  string    `json:"type"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// BuildFeed merges the last five records of each kind, newest first, keeping at most ten.
// Inputs are expected in stored (chronological) order.
func BuildFeed(chats []chat.LogEntry, results []quiz.Result, submissions []writing.Submission) []Item {
	items := make([]Item, 0, 3*perTypeLimit)
	for _, entry := range lastN(chats, perTypeLimit) {
		items = append(items, Item{Type: TypeChat, Title: "AI Tutor Session", Date: entry.Date})
	}
	for _, result := range lastN(results, perTypeLimit) {
		items = append(items, Item{Type: TypeQuiz, Title: quizTitle(result), Date: result.Date()})
	}
	for _, submission := range lastN(submissions, perTypeLimit) {
		items = append(items, Item{Type: TypeWriting, Title: "Writing Submitted", Date: submission.Date})
	}

	slices.SortStableFunc(items, func(a, b Item) int {
		return b.Date.Compare(a.Date)
	})
	if len(items) > feedLimit {
		items = items[:feedLimit]
	}
	return items
}

// quizTitle shows the credited score. A single answer is credited as 1 of 1.
func quizTitle(result quiz.Result) string {
	if result.Full != nil {
		return fmt.Sprintf("Quiz Completed (%d/%d)", result.Full.Score, result.Full.TotalQuestions)
	}
	return fmt.Sprintf("Quiz Completed (%d/%d)", singleAnswerScore, singleAnswerScore)
}

const singleAnswerScore = 1

func lastN[T any](records []T, n int) []T {
	if len(records) > n {
		return records[len(records)-n:]
	}
	return records
}
