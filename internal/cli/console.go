// Package cli renders tutor data for the operator command line and runs terminal quizzes.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/langtutor/internal/activity"
	"github.com/at-ishikawa/langtutor/internal/quiz"
)

const dateLayout = "2006-01-02 15:04"

// Console writes human readable reports to out.
type Console struct {
	out    io.Writer
	bold   *color.Color
	italic *color.Color
	green  *color.Color
	red    *color.Color
}

func NewConsole(out io.Writer) *Console {
	return &Console{
		out:    out,
		bold:   color.New(color.Bold),
		italic: color.New(color.Italic),
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
	}
}

func (c *Console) printf(format string, args ...any) error {
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}
	return nil
}

// PrintDashboard shows the progress summary of username.
func (c *Console) PrintDashboard(username string, dashboard *activity.Dashboard) error {
	skills := dashboard.Skills
	lines := []string{
		fmt.Sprintf("%s (%s)\n", c.bold.Sprint(username), dashboard.Level),
		fmt.Sprintf("  XP: %d  Streak: %d  Hours: %s  Quiz accuracy: %d%%\n",
			dashboard.XP, dashboard.Streak, dashboard.TotalHours, dashboard.QuizAccuracy),
		fmt.Sprintf("  Skills: grammar %.1f, vocabulary %.1f, writing %.1f, listening %.1f\n",
			skills.Grammar, skills.Vocabulary, skills.Writing, skills.Listening),
	}
	if len(dashboard.WeakAreas) > 0 {
		lines = append(lines, fmt.Sprintf("  Weak areas: %s\n", c.red.Sprint(strings.Join(dashboard.WeakAreas, ", "))))
	}
	for _, line := range lines {
		if err := c.printf("%s", line); err != nil {
			return err
		}
	}

	if len(dashboard.RecentActivity) == 0 {
		return c.printf("  No recent activity\n")
	}
	if err := c.printf("  Recent activity:\n"); err != nil {
		return err
	}
	for _, item := range dashboard.RecentActivity {
		if err := c.printf("    %s  %-8s %s\n", item.Date.Format(dateLayout), item.Type, item.Title); err != nil {
			return err
		}
	}
	return nil
}

// PrintAssignments lists assigned quizzes in the given order.
func (c *Console) PrintAssignments(quizzes []quiz.AssignedQuiz) error {
	if len(quizzes) == 0 {
		return c.printf("No assigned quizzes\n")
	}
	for _, q := range quizzes {
		status := c.green.Sprint("active")
		if !q.Active {
			status = c.red.Sprint("inactive")
		}
		if err := c.printf("%d  %s  %s  to %s  (%d questions, %s)\n",
			q.ID,
			c.bold.Sprint(q.Title),
			status,
			c.italic.Sprint(q.AssignedTo),
			len(q.Questions),
			q.CreatedAt.Format(dateLayout),
		); err != nil {
			return err
		}
	}
	return nil
}

// PrintScore reports a graded quiz.
func (c *Console) PrintScore(score *quiz.Score) error {
	paint := c.green
	if score.Accuracy < 50 {
		paint = c.red
	}
	return c.printf("Score: %s (%d%%)\n",
		paint.Sprintf("%d/%d", score.Score, score.TotalQuestions),
		score.Accuracy)
}
