package llm

import (
	"context"
	"errors"
	"regexp"
)

// Client abstracts text-generation providers.
type Client interface {
	// Complete sends one system+user turn and returns the raw reply text.
	Complete(ctx context.Context, req Request) (string, error)
	// Name identifies provider and model, e.g. "openai:gpt-4".
	Name() string
}

// Request is one chat turn.
type Request struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	// JSON asks the provider for a JSON object reply where supported.
	JSON bool
}

// ErrNotConfigured means no usable provider settings exist. Callers fall
// back to deterministic output.
var ErrNotConfigured = errors.New("llm provider not configured")

// Temporary reports whether err, or anything it wraps, says a later retry
// could succeed (rate limits, provider outages).
func Temporary(err error) bool {
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractJSONObject returns the text from the first '{' to the last '}'.
// Models often wrap their JSON in prose or code fences.
func ExtractJSONObject(raw string) (string, bool) {
	m := jsonObject.FindString(raw)
	return m, m != ""
}
