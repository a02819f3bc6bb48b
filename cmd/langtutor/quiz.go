package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/langtutor/internal/chat"
	"github.com/at-ishikawa/langtutor/internal/cli"
	"github.com/at-ishikawa/langtutor/internal/inference/openai"
	"github.com/at-ishikawa/langtutor/internal/learner"
	"github.com/at-ishikawa/langtutor/internal/progression"
	"github.com/at-ishikawa/langtutor/internal/quiz"
)

func newQuizCommand() *cobra.Command {
	quizCommand := &cobra.Command{
		Use:   "quiz",
		Short: "Manage assigned quizzes and take quizzes from the terminal",
	}

	quizCommand.AddCommand(
		newQuizListCommand(),
		newQuizAssignCommand(),
		newQuizDeleteCommand(),
		newQuizTakeCommand(),
	)
	return quizCommand
}

func newQuizListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List assigned quizzes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, s, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			quizzes, err := quiz.NewAssignments(s).List(ctx)
			if err != nil {
				return fmt.Errorf("assignments.List() > %w", err)
			}
			return cli.NewConsole(cmd.OutOrStdout()).PrintAssignments(quizzes)
		},
	}
}

func newQuizAssignCommand() *cobra.Command {
	var (
		title      string
		assignedTo string
		file       string
	)
	command := &cobra.Command{
		Use:   "assign",
		Short: "Assign the questions of a YAML file to a learner or to all students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := quiz.LoadQuestionFile(file)
			if err != nil {
				return fmt.Errorf("quiz.LoadQuestionFile() > %w", err)
			}

			ctx := cmd.Context()
			_, s, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			assigned, err := quiz.NewAssignments(s).Assign(ctx, title, questions, assignedTo)
			if err != nil {
				return fmt.Errorf("assignments.Assign() > %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Assigned quiz %d (%q) to %s\n", assigned.ID, assigned.Title, assigned.AssignedTo)
			return err
		},
	}
	flags := command.Flags()
	flags.StringVar(&title, "title", "", "Quiz title shown to learners")
	flags.StringVar(&assignedTo, "to", quiz.AllStudents, "Username, or All Students")
	flags.StringVar(&file, "file", "", "YAML file with a questions list")
	_ = command.MarkFlagRequired("title")
	_ = command.MarkFlagRequired("file")
	return command
}

func newQuizDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <quiz id>",
		Short: "Delete an assigned quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid quiz id %q: %w", args[0], err)
			}

			ctx := cmd.Context()
			_, s, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			err = quiz.NewAssignments(s).Delete(ctx, id)
			if errors.Is(err, quiz.ErrAssignmentNotFound) {
				return fmt.Errorf("quiz %d does not exist", id)
			}
			if err != nil {
				return fmt.Errorf("assignments.Delete(%d) > %w", id, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted quiz %d\n", id)
			return err
		},
	}
}

func newQuizTakeCommand() *cobra.Command {
	var daily bool
	command := &cobra.Command{
		Use:   "take <username>",
		Short: "Take the quiz a learner would receive, answering on the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, s, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			fallback, err := quiz.LoadFallbackQuestions(cfg.Quiz.FallbackFile)
			if err != nil {
				return fmt.Errorf("quiz.LoadFallbackQuestions() > %w", err)
			}
			ai := openai.NewClient(cfg.AI)
			defer func() {
				_ = ai.Close()
			}()

			profiles := learner.NewRepository(s)
			resolver := quiz.NewResolver(
				profiles,
				chat.NewRepository(s),
				quiz.NewAssignments(s),
				quiz.NewGenerator(ai, cfg.AI.QuizTemperature, cfg.Quiz.QuestionCount),
				fallback,
				cfg.Quiz.HistoryContextSize,
			)
			grader := quiz.NewGrader(quiz.NewResults(s), progression.NewEngine(profiles))

			session := cli.NewQuizSession(cmd.InOrStdin(), cmd.OutOrStdout(), resolver, grader)
			_, err = session.Run(ctx, args[0], daily)
			return err
		},
	}
	command.Flags().BoolVar(&daily, "daily", false, "Skip assigned quizzes and take a personalized quiz")
	return command
}
