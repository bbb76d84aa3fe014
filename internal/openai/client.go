// Package openai wraps the chat-completions API behind a small Client
// interface so the message pipeline can be tested without network access.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	gopenai "github.com/sashabaranov/go-openai"

	"github.com/ariabot/aria/internal/config"
)

// Message roles on the completion wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultReply is sent when the model returns no usable text. An empty
// completion is not treated as a failure.
const DefaultReply = "I'm here."

// ChatMessage is one turn of the prompt sent to the completion endpoint.
type ChatMessage struct {
	Role    string
	Content string
}

// RequestError carries the HTTP status and response body of a failed
// completion call. The pipeline boundary uses errors.As to recognize it.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("completion request failed with status %d: %s", e.StatusCode, e.Body)
}

// Client generates an assistant reply for an assembled prompt.
type Client interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

type client struct {
	api         *gopenai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *slog.Logger
}

// NewClient creates a completion client from the OpenAI section of the
// configuration.
func NewClient(cfg *config.OpenAIConfig, logger *slog.Logger) (Client, error) {
	if cfg == nil {
		return nil, errors.New("openai config cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	apiConfig := gopenai.DefaultConfig(cfg.Token)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	return &client{
		api:         gopenai.NewClientWithConfig(apiConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		logger:      logger.With("component", "openai_client"),
	}, nil
}

// Complete sends the prompt and returns the first choice's text. Failed calls
// return a *RequestError with the upstream status and body; an empty or
// whitespace-only completion yields DefaultReply.
func (c *client) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("cannot complete an empty prompt")
	}

	wire := make([]gopenai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, gopenai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(timeoutCtx, gopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    wire,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", c.wrapError(ctx, err)
	}

	c.logger.DebugContext(ctx, "Completion received",
		"duration_ms", time.Since(start).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens)

	if len(resp.Choices) == 0 {
		c.logger.WarnContext(ctx, "Completion returned no choices, using default reply")
		return DefaultReply, nil
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		c.logger.WarnContext(ctx, "Completion returned empty content, using default reply")
		return DefaultReply, nil
	}

	return reply, nil
}

// wrapError converts library errors into *RequestError so the caller can
// branch on the failure class without importing the vendor package.
func (c *client) wrapError(ctx context.Context, err error) error {
	var apiErr *gopenai.APIError
	if errors.As(err, &apiErr) {
		c.logger.ErrorContext(ctx, "Completion endpoint returned an error",
			"status", apiErr.HTTPStatusCode, "message", apiErr.Message)
		return &RequestError{StatusCode: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}

	var reqErr *gopenai.RequestError
	if errors.As(err, &reqErr) {
		c.logger.ErrorContext(ctx, "Completion request failed",
			"status", reqErr.HTTPStatusCode, "error", reqErr.Err)
		return &RequestError{StatusCode: reqErr.HTTPStatusCode, Body: reqErr.Error()}
	}

	c.logger.ErrorContext(ctx, "Completion call failed", "error", err)
	return fmt.Errorf("chat completion failed: %w", err)
}
