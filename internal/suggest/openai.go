// Package suggest talks to the generative-language API behind the suggestion
// endpoints. Any endpoint speaking the OpenAI chat completions wire format
// works; the default is Gemini's OpenAI-compatible endpoint.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is Gemini's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

var (
	ErrNoAPIKey      = errors.New("suggestion provider API key not configured")
	ErrEmptyResponse = errors.New("suggestion provider returned no content")
)

// Config holds the provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client sends single-prompt chat completions.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient builds a Client. A Client without an API key is valid; every
// call on it fails with ErrNoAPIKey so callers fall back to defaults.
func NewClient(cfg Config) *Client {
	if cfg.APIKey == "" {
		return &Client{model: cfg.Model}
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if oc.BaseURL == "" {
		oc.BaseURL = strings.TrimSuffix(DefaultBaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Client{api: openai.NewClientWithConfig(oc), model: cfg.Model}
}

// Complete sends prompt as a single user message and returns the text of the
// first choice.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.api == nil {
		return "", ErrNoAPIKey
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("suggest.Client.Complete: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("suggest.Client.Complete: %w", ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
