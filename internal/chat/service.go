package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/at-ishikawa/langtutor/internal/inference"
	"github.com/at-ishikawa/langtutor/internal/progression"
)

var ErrInvalidRequest = errors.New("username and message are required")

type Request struct {
	Username string
	Message  string
	Mode     string
}

type Reply struct {
	Text        string
	Corrections []string
}

type Service struct {
	ai          inference.Client
	logs        *Repository
	engine      *progression.Engine
	historySize int
	now         func() time.Time
}

func NewService(ai inference.Client, logs *Repository, engine *progression.Engine, historySize int) *Service {
	return &Service{
		ai:          ai,
		logs:        logs,
		engine:      engine,
		historySize: historySize,
		now:         time.Now,
	}
}

// Send answers a message, records the exchange and credits the learner.
// A failed generation is answered with an apology instead of an error.
func (s *Service) Send(ctx context.Context, req Request) (*Reply, error) {
	if strings.TrimSpace(req.Username) == "" || req.Message == "" {
		return nil, ErrInvalidRequest
	}
	mode := normalizeMode(req.Mode)

	history, err := s.logs.Recent(ctx, req.Username, s.historySize)
	if err != nil {
		return nil, fmt.Errorf("logs.Recent(%s) > %w", req.Username, err)
	}

	text, err := s.ai.Generate(ctx, inference.GenerateRequest{
		Messages: buildConversation(mode, history, req.Message),
	})
	if err != nil {
		slog.Default().Warn("chat generation failed",
			"username", req.Username,
			"mode", mode,
			"error", err)
		text = fmt.Sprintf("I apologize, but I encountered an error: %s. Please try again later.", err)
	}

	corrections := []string{}
	if mode == progression.ModePractice {
		corrections = progression.GrammarHints(req.Message)
	}

	if err := s.logs.Append(ctx, LogEntry{
		Username:    req.Username,
		Message:     req.Message,
		Response:    &text,
		Mode:        mode,
		Corrections: corrections,
		Date:        s.now(),
	}); err != nil {
		return nil, fmt.Errorf("logs.Append(%s) > %w", req.Username, err)
	}

	if _, err := s.engine.RecordChat(ctx, req.Username, mode); err != nil {
		return nil, fmt.Errorf("engine.RecordChat(%s) > %w", req.Username, err)
	}

	return &Reply{
		Text:        text,
		Corrections: corrections,
	}, nil
}

func normalizeMode(mode string) string {
	switch mode {
	case progression.ModeExplanation, progression.ModePractice:
		return mode
	default:
		return progression.ModeGeneral
	}
}
