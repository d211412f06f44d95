// Package compat talks to OpenAI-compatible chat endpoints (DeepSeek, Gemini,
// self-hosted gateways) through an eino chat model.
package compat

import (
	"context"
	"fmt"
	"strings"
	"time"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"portfolio-pulse/internal/llm"
)

// Default endpoints for providers that speak the OpenAI wire format.
var defaultBaseURLs = map[string]string{
	"deepseek": "https://api.deepseek.com/v1",
	"google":   "https://generativelanguage.googleapis.com/v1beta/openai/",
}

// DefaultBaseURL returns the known endpoint for provider, or "".
func DefaultBaseURL(provider string) string {
	return defaultBaseURLs[strings.ToLower(strings.TrimSpace(provider))]
}

// Client implements llm.Client over an eino chat model.
type Client struct {
	provider string
	model    string
	cm       model.BaseChatModel
}

// Config selects the provider endpoint and credentials.
type Config struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// New builds an eino OpenAI-compatible chat model for cfg.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required for %s", cfg.Provider)
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("model is required for %s", cfg.Provider)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL(cfg.Provider)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required for provider %q", cfg.Provider)
	}
	cm, err := einoopenai.NewChatModel(ctx, &einoopenai.ChatModelConfig{
		BaseURL: baseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", cfg.Provider, err)
	}
	return NewWithModel(cfg.Provider, cfg.Model, cm), nil
}

// NewWithModel wraps an existing chat model.
func NewWithModel(provider, modelName string, cm model.BaseChatModel) *Client {
	return &Client{provider: strings.ToLower(strings.TrimSpace(provider)), model: modelName, cm: cm}
}

func (c *Client) Name() string { return c.provider + ":" + c.model }

// Complete sends the system and user messages and returns the reply content.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	messages := make([]*schema.Message, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, &schema.Message{Role: schema.System, Content: req.System})
	}
	messages = append(messages, &schema.Message{Role: schema.User, Content: req.User})

	opts := []model.Option{model.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}

	resp, err := c.cm.Generate(ctx, messages, opts...)
	if err != nil {
		return "", fmt.Errorf("%s generate: %w", c.provider, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("%s response empty content", c.provider)
	}
	return strings.TrimSpace(resp.Content), nil
}

var _ llm.Client = (*Client)(nil)
