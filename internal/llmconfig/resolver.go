package llmconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"portfolio-pulse/internal/llm"
	"portfolio-pulse/internal/llm/compat"
	"portfolio-pulse/internal/llm/openai"
	"portfolio-pulse/internal/shared/util"
)

// Settings are the inputs needed to build a client.
type Settings struct {
	ConfigID string
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration
}

// BuildFunc constructs a client for settings.
type BuildFunc func(ctx context.Context, s Settings) (llm.Client, error)

// Resolver picks the active stored configuration, or the environment
// defaults when none is stored, and hands out a client for it.
type Resolver struct {
	Svc      *Service
	Defaults Settings
	Build    BuildFunc

	mu     sync.Mutex
	key    string
	client llm.Client
}

func NewResolver(svc *Service, defaults Settings) *Resolver {
	return &Resolver{Svc: svc, Defaults: defaults, Build: Build}
}

// Client implements insights.ClientProvider.
func (r *Resolver) Client(ctx context.Context) (llm.Client, error) {
	c, _, err := r.Resolve(ctx)
	return c, err
}

// Resolve returns the client plus the ID of the stored configuration it came
// from ("" for environment defaults).
func (r *Resolver) Resolve(ctx context.Context) (llm.Client, string, error) {
	s, err := r.settings(ctx)
	if err != nil {
		return nil, "", err
	}
	key := util.HashKey(s.ConfigID, s.Provider, s.Model, s.APIKey, s.BaseURL)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil && r.key == key {
		return r.client, s.ConfigID, nil
	}
	build := r.Build
	if build == nil {
		build = Build
	}
	c, err := build(ctx, s)
	if err != nil {
		return nil, s.ConfigID, err
	}
	r.key = key
	r.client = c
	return c, s.ConfigID, nil
}

func (r *Resolver) settings(ctx context.Context) (Settings, error) {
	s := r.Defaults
	cfg, err := r.Svc.Active(ctx)
	switch {
	case err == nil:
		s.ConfigID = cfg.ID
		s.Provider = cfg.ProviderName
		s.Model = cfg.ModelName
		s.APIKey = cfg.APIKey
		s.BaseURL = cfg.BaseURL
	case errors.Is(err, ErrNotFound):
	default:
		return Settings{}, fmt.Errorf("load active llm config: %w", err)
	}
	return s, nil
}

// Build constructs an OpenAI client for the stock OpenAI endpoint and an
// OpenAI-compatible client for everything else.
func Build(ctx context.Context, s Settings) (llm.Client, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, fmt.Errorf("%w: no api key for %s", llm.ErrNotConfigured, s.Provider)
	}
	provider, ok := CanonicalProvider(s.Provider)
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %q", llm.ErrNotConfigured, s.Provider)
	}
	if provider == ProviderOpenAI && s.BaseURL == "" {
		return openai.NewClient(s.APIKey, s.Model, s.Timeout)
	}
	return compat.New(ctx, compat.Config{
		Provider: strings.ToLower(provider),
		Model:    s.Model,
		APIKey:   s.APIKey,
		BaseURL:  s.BaseURL,
		Timeout:  s.Timeout,
	})
}
