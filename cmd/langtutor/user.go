package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/langtutor/internal/activity"
	"github.com/at-ishikawa/langtutor/internal/chat"
	"github.com/at-ishikawa/langtutor/internal/cli"
	"github.com/at-ishikawa/langtutor/internal/learner"
	"github.com/at-ishikawa/langtutor/internal/progression"
	"github.com/at-ishikawa/langtutor/internal/quiz"
	"github.com/at-ishikawa/langtutor/internal/writing"
)

func newUserCommand() *cobra.Command {
	userCommand := &cobra.Command{
		Use:   "user",
		Short: "Learner commands",
	}
	userCommand.AddCommand(newUserShowCommand())
	return userCommand
}

func newUserShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Show the dashboard of a learner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, s, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = closeStore()
			}()

			profiles := learner.NewRepository(s)
			chats := chat.NewRepository(s)
			results := quiz.NewResults(s)
			writings := writing.NewService(writing.MockReviewer{}, s, progression.NewEngine(profiles))

			dashboard, err := activity.NewBuilder(profiles, chats, results, writings).Dashboard(ctx, args[0])
			if err != nil {
				return fmt.Errorf("builder.Dashboard(%s) > %w", args[0], err)
			}
			return cli.NewConsole(cmd.OutOrStdout()).PrintDashboard(args[0], dashboard)
		},
	}
}
