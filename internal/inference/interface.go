// Package inference defines the text generation service used for tutoring replies,
// quiz generation and writing feedback.
package inference

import (
	"context"
	"errors"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client generates the next assistant message for a conversation.
type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged turn of a conversation
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type GenerateRequest struct {
	Messages []Message
	// Temperature of 0 uses the client's configured temperature
	Temperature float64
}

// ErrEmptyResponse is returned when the service answers without any content.
var ErrEmptyResponse = errors.New("no response choices from AI")

const (
	// DefaultMaxRetryAttempts keeps generation to a single request.
	DefaultMaxRetryAttempts = 0
)

// SystemMessage and UserMessage are shorthands for building conversations.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
