package quiz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/at-ishikawa/langtutor/internal/store"
)

// AllStudents assigns a quiz to every learner.
const AllStudents = "All Students"

var ErrAssignmentNotFound = errors.New("assigned quiz not found")

// AssignedQuiz is a quiz an administrator handed to one learner or to everyone.
type AssignedQuiz struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Questions  []Question `json:"questions"`
	AssignedTo string     `json:"assignedTo"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Assignments stores assigned quizzes in creation order.
type Assignments struct {
	quizzes *store.Collection[AssignedQuiz]
	now     func() time.Time
}

func NewAssignments(s *store.Store) *Assignments {
	return &Assignments{
		quizzes: store.NewCollection[AssignedQuiz](s, store.AssignedQuizzes),
		now:     time.Now,
	}
}

// Assign stores a new active quiz. Its ID is the creation time in unix milliseconds,
// moved forward until it does not clash with an existing ID.
func (a *Assignments) Assign(ctx context.Context, title string, questions []Question, assignedTo string) (*AssignedQuiz, error) {
	now := a.now()
	var created AssignedQuiz
	if err := a.quizzes.Update(ctx, func(quizzes []AssignedQuiz) ([]AssignedQuiz, error) {
		id := now.UnixMilli()
		for slices.ContainsFunc(quizzes, func(q AssignedQuiz) bool { return q.ID == id }) {
			id++
		}
		if questions == nil {
			questions = []Question{}
		}

		created = AssignedQuiz{
			ID:         id,
			Title:      title,
			Questions:  questions,
			AssignedTo: assignedTo,
			Active:     true,
			CreatedAt:  now,
		}
		return append(quizzes, created), nil
	}); err != nil {
		return nil, fmt.Errorf("quizzes.Update > %w", err)
	}
	return &created, nil
}

// List returns every assigned quiz, newest first.
func (a *Assignments) List(ctx context.Context) ([]AssignedQuiz, error) {
	quizzes, err := a.quizzes.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("quizzes.All > %w", err)
	}
	slices.Reverse(quizzes)
	return quizzes, nil
}

// ActiveFor returns the most recently created active quiz assigned to username or to everyone.
func (a *Assignments) ActiveFor(ctx context.Context, username string) (*AssignedQuiz, bool, error) {
	quizzes, err := a.List(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, q := range quizzes {
		if q.Active && (q.AssignedTo == AllStudents || q.AssignedTo == username) {
			return &q, true, nil
		}
	}
	return nil, false, nil
}

// Delete removes the quiz with id. It returns ErrAssignmentNotFound and leaves the collection untouched otherwise.
func (a *Assignments) Delete(ctx context.Context, id int64) error {
	return a.quizzes.Update(ctx, func(quizzes []AssignedQuiz) ([]AssignedQuiz, error) {
		remaining := slices.DeleteFunc(quizzes, func(q AssignedQuiz) bool { return q.ID == id })
		if len(remaining) == len(quizzes) {
			return nil, fmt.Errorf("%w: %d", ErrAssignmentNotFound, id)
		}
		return remaining, nil
	})
}
