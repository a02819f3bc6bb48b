package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/langtutor/internal/activity"
	"github.com/at-ishikawa/langtutor/internal/bootstrap"
	"github.com/at-ishikawa/langtutor/internal/chat"
	"github.com/at-ishikawa/langtutor/internal/config"
	"github.com/at-ishikawa/langtutor/internal/inference"
	"github.com/at-ishikawa/langtutor/internal/inference/openai"
	"github.com/at-ishikawa/langtutor/internal/learner"
	"github.com/at-ishikawa/langtutor/internal/progression"
	"github.com/at-ishikawa/langtutor/internal/quiz"
	"github.com/at-ishikawa/langtutor/internal/server"
	"github.com/at-ishikawa/langtutor/internal/store"
	"github.com/at-ishikawa/langtutor/internal/writing"
)

var (
	configFile    string
	storageDriver config.StorageDriverFlag
)

func main() {
	var debugMode bool
	rootCmd := &cobra.Command{
		Use:           "langtutor-server",
		Short:         "Language tutor HTTP API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}
	flags := rootCmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file path")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug mode")
	flags.Var(&storageDriver, "storage", "Storage driver. Options: file, mysql")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

func run(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	s, closeStore, err := store.Open(ctx, cfg.Storage, cfg.Database)
	if err != nil {
		return fmt.Errorf("store.Open() > %w", err)
	}
	app.AddShutdownHook("storage", func(context.Context) error {
		return closeStore()
	})

	ai := openai.NewClient(cfg.AI)
	app.AddShutdownHook("inference client", func(context.Context) error {
		return ai.Close()
	})

	handler, err := newHandler(cfg, s, ai)
	if err != nil {
		return fmt.Errorf("newHandler() > %w", err)
	}

	srv := server.New(cfg.Server, handler)
	app.AddShutdownHook("http server", srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server",
			"addr", srv.Addr,
			"storage", cfg.Storage.Driver,
			"model", ai.GetModel())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe() > %w", err)
		}
		return nil
	})
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.NewConfigLoader() > %w", err)
	}
	storageDriver.Apply(loader)
	return loader.Load()
}

func newHandler(cfg *config.Config, s *store.Store, ai inference.Client) (*server.Handler, error) {
	fallback, err := quiz.LoadFallbackQuestions(cfg.Quiz.FallbackFile)
	if err != nil {
		return nil, fmt.Errorf("quiz.LoadFallbackQuestions() > %w", err)
	}

	var reviewer writing.Reviewer = writing.MockReviewer{}
	if cfg.Writing.AIFeedback {
		reviewer = writing.NewAIReviewer(ai)
	}

	profiles := learner.NewRepository(s)
	engine := progression.NewEngine(profiles)
	chats := chat.NewRepository(s)
	assignments := quiz.NewAssignments(s)
	results := quiz.NewResults(s)
	writings := writing.NewService(reviewer, s, engine)
	generator := quiz.NewGenerator(ai, cfg.AI.QuizTemperature, cfg.Quiz.QuestionCount)

	return server.NewHandler(
		learner.NewService(profiles, learner.NewTokenIssuer(cfg.Auth)),
		chat.NewService(ai, chats, engine, cfg.Quiz.HistoryContextSize),
		quiz.NewResolver(profiles, chats, assignments, generator, fallback, cfg.Quiz.HistoryContextSize),
		quiz.NewGrader(results, engine),
		assignments,
		writings,
		activity.NewBuilder(profiles, chats, results, writings),
	), nil
}
