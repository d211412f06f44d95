// Package openai talks to the OpenAI Chat Completions endpoint directly.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"portfolio-pulse/internal/llm"
	"portfolio-pulse/internal/shared/telemetry"
)

const (
	defaultAPIURL  = "https://api.openai.com/v1/chat/completions"
	defaultTimeout = 30 * time.Second
	// maxBody caps how much of a reply is read; a 1500-token answer is far below it.
	maxBody = 4 << 20
)

type Client struct {
	apiKey string
	model  string
	apiURL string
	http   *http.Client
}

func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	switch {
	case strings.TrimSpace(apiKey) == "":
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is empty", llm.ErrNotConfigured)
	case strings.TrimSpace(model) == "":
		return nil, fmt.Errorf("%w: LLM_MODEL is empty", llm.ErrNotConfigured)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		apiURL: defaultAPIURL,
		http:   &http.Client{Timeout: timeout},
	}, nil
}

// WithURL points the client at another Chat Completions endpoint.
func (c *Client) WithURL(url string) *Client {
	c.apiURL = url
	return c
}

func (c *Client) Name() string { return "openai:" + c.model }

// APIError is a non-success reply from the provider.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("openai: status %d", e.Status)
	}
	return fmt.Sprintf("openai: status %d: %s (%s)", e.Status, e.Message, e.Type)
}

// Temporary reports whether retrying later could succeed.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= 500
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string    `json:"model"`
	Messages       []message `json:"messages"`
	Temperature    *float32  `json:"temperature,omitempty"`
	MaxTokens      int       `json:"max_tokens,omitempty"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func newChatRequest(model string, in llm.Request) chatRequest {
	req := chatRequest{Model: model, MaxTokens: in.MaxTokens}
	if strings.TrimSpace(in.System) != "" {
		req.Messages = append(req.Messages, message{Role: "system", Content: in.System})
	}
	req.Messages = append(req.Messages, message{Role: "user", Content: in.User})
	temp := in.Temperature
	req.Temperature = &temp
	if in.JSON {
		req.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}
	return req
}

// Complete sends one chat turn and returns the first choice's trimmed content.
func (c *Client) Complete(ctx context.Context, in llm.Request) (string, error) {
	payload, err := json.Marshal(newChatRequest(c.model, in))
	if err != nil {
		return "", fmt.Errorf("openai: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("openai: read reply: %w", err)
	}

	var parsed chatResponse
	decodeErr := json.Unmarshal(body, &parsed)
	if resp.StatusCode >= 300 || parsed.Error != nil {
		apiErr := &APIError{Status: resp.StatusCode}
		if decodeErr == nil && parsed.Error != nil {
			apiErr.Message, apiErr.Type = parsed.Error.Message, parsed.Error.Type
		}
		return "", apiErr
	}
	if decodeErr != nil {
		return "", fmt.Errorf("openai: decode reply: %w", decodeErr)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai: reply has no choices")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai: reply is empty")
	}

	fields := map[string]any{"model": c.model, "duration_ms": time.Since(start).Milliseconds()}
	if parsed.Usage != nil {
		fields["prompt_tokens"] = parsed.Usage.PromptTokens
		fields["completion_tokens"] = parsed.Usage.CompletionTokens
	}
	telemetry.Debug("llm.completed", fields)
	return content, nil
}

var _ llm.Client = (*Client)(nil)
