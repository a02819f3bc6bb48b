package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/at-ishikawa/langtutor/internal/quiz"
)

var errEnd = errors.New("quiz ended")

// QuizSession asks the questions of a quiz on a terminal and submits the answers.
type QuizSession struct {
	console  *Console
	reader   *bufio.Reader
	resolver *quiz.Resolver
	grader   *quiz.Grader
}

func NewQuizSession(in io.Reader, out io.Writer, resolver *quiz.Resolver, grader *quiz.Grader) *QuizSession {
	return &QuizSession{
		console:  NewConsole(out),
		reader:   bufio.NewReader(in),
		resolver: resolver,
		grader:   grader,
	}
}

// Run resolves the quiz username would receive from the API, asks every question
// and submits the answers as a full quiz. Input ending early submits what was answered,
// and nothing is submitted without answers.
func (s *QuizSession) Run(ctx context.Context, username string, daily bool) (*quiz.Score, error) {
	selection, err := s.resolver.Resolve(ctx, username, daily)
	if err != nil {
		return nil, fmt.Errorf("resolver.Resolve(%s) > %w", username, err)
	}
	if selection.Topic != "" {
		if err := s.console.printf("%s\n", s.console.bold.Sprint(selection.Topic)); err != nil {
			return nil, err
		}
	}

	answers := make([]quiz.Answer, 0, len(selection.Questions))
	for i, question := range selection.Questions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		answer, err := s.ask(i+1, question)
		if errors.Is(err, errEnd) {
			break
		}
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}

	if len(answers) == 0 {
		return nil, s.console.printf("No answers submitted\n")
	}

	score, err := s.grader.Submit(ctx, quiz.Submission{
		Username: username,
		Answers:  answers,
	})
	if err != nil {
		return nil, fmt.Errorf("grader.Submit(%s) > %w", username, err)
	}
	if err := s.console.PrintScore(score); err != nil {
		return nil, err
	}
	return score, nil
}

func (s *QuizSession) ask(number int, question quiz.Question) (quiz.Answer, error) {
	if err := s.console.printf("\n%d. %s\n", number, s.console.bold.Sprint(question.Text)); err != nil {
		return quiz.Answer{}, err
	}
	for i, option := range question.Options {
		if err := s.console.printf("   %d) %s\n", i+1, option); err != nil {
			return quiz.Answer{}, err
		}
	}

	for {
		if err := s.console.printf("> "); err != nil {
			return quiz.Answer{}, err
		}
		line, err := s.reader.ReadString('\n')
		input := strings.TrimSpace(line)
		if err != nil && input == "" {
			if errors.Is(err, io.EOF) {
				return quiz.Answer{}, errEnd
			}
			return quiz.Answer{}, fmt.Errorf("reader.ReadString() > %w", err)
		}

		choice, convErr := strconv.Atoi(input)
		if convErr != nil || choice < 1 || choice > len(question.Options) {
			if err := s.console.printf("Enter a number between 1 and %d\n", len(question.Options)); err != nil {
				return quiz.Answer{}, err
			}
			if errors.Is(err, io.EOF) {
				return quiz.Answer{}, errEnd
			}
			continue
		}

		selected := question.Options[choice-1]
		correct := selected == question.Answer
		if correct {
			err = s.console.printf("%s\n", s.console.green.Sprint("Correct"))
		} else {
			err = s.console.printf("%s The answer is %s\n", s.console.red.Sprint("Wrong."), s.console.italic.Sprint(question.Answer))
		}
		if err != nil {
			return quiz.Answer{}, err
		}

		return quiz.Answer{
			QuestionID:     question.ID,
			Question:       question.Text,
			SelectedAnswer: selected,
			CorrectAnswer:  question.Answer,
			Correct:        correct,
			Topic:          question.Topic,
		}, nil
	}
}
