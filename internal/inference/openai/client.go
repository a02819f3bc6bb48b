package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/langtutor/internal/config"
	"github.com/at-ishikawa/langtutor/internal/inference"
)

// Client talks to an OpenAI compatible /chat/completions endpoint.
type Client struct {
	httpClient       *resty.Client
	model            string
	temperature      float64
	maxTokens        int
	maxRetryAttempts uint
}

func NewClient(cfg config.AIConfig) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		httpClient:       client,
		model:            cfg.Model,
		temperature:      cfg.Temperature,
		maxTokens:        cfg.MaxTokens,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	for _, marker := range []string{
		"connection refused",
		"i/o timeout",
		"response error 5",
		"response error 429",
	} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}

// Generate implements the inference.Client interface
func (client *Client) Generate(ctx context.Context, req inference.GenerateRequest) (string, error) {
	var content string
	if err := retry.Do(
		func() error {
			result, err := client.generate(ctx, req)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			content = result
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying chat completion",
				"attempt", n+1,
				"error", err)
		}),
	); err != nil {
		return "", err
	}
	return content, nil
}

func (client *Client) requestBody(req inference.GenerateRequest) ChatCompletionRequest {
	messages := make([]Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, Message{
			Role:    Role(m.Role),
			Content: m.Content,
		})
	}

	temperature := req.Temperature
	if temperature == 0 {
		temperature = client.temperature
	}
	return ChatCompletionRequest{
		Model:       client.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   client.maxTokens,
	}
}

func (client *Client) generate(ctx context.Context, req inference.GenerateRequest) (string, error) {
	requestBody := client.requestBody(req)

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody, _ := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("%w: %s", inference.ErrEmptyResponse, response.String())
	}

	content := responseBody.Choices[0].Message.Content
	slog.Default().Debug("chat completion received",
		"model", responseBody.Model,
		"contentLength", len(content),
		"totalTokens", responseBody.Usage.TotalTokens,
	)
	return content, nil
}
