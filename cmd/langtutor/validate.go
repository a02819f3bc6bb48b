package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/langtutor/internal/quiz"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and the fallback question set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			fallback, err := quiz.LoadFallbackQuestions(cfg.Quiz.FallbackFile)
			if err != nil {
				return fmt.Errorf("quiz.LoadFallbackQuestions() > %w", err)
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "Storage: %s\n", cfg.Storage.Driver); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(out, "AI endpoint: %s (model %s)\n", cfg.AI.BaseURL, cfg.AI.Model); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(out, "Fallback questions: %d\n", len(fallback)); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, "All validations passed!")
			return err
		},
	}
}
