package llmconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-pulse/internal/shared/telemetry"
)

// SaveInput is the body accepted by POST /llm-config.
type SaveInput struct {
	ProviderName string `json:"providerName"`
	ModelName    string `json:"modelName"`
	APIKey       string `json:"apiKey"`
	BaseURL      string `json:"baseUrl"`
}

type Service struct {
	Repo Repo
	Now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// Save validates in and makes it the only active configuration.
func (s *Service) Save(ctx context.Context, in SaveInput, userID string) (Config, error) {
	if s == nil || s.Repo == nil {
		return Config{}, errors.New("llmconfig service not configured")
	}
	provider, ok := CanonicalProvider(in.ProviderName)
	if !ok {
		return Config{}, fmt.Errorf("%w: unknown provider %q", ErrInvalidInput, in.ProviderName)
	}
	model := strings.TrimSpace(in.ModelName)
	key := strings.TrimSpace(in.APIKey)
	baseURL := strings.TrimSpace(in.BaseURL)
	switch {
	case model == "":
		return Config{}, fmt.Errorf("%w: modelName is required", ErrInvalidInput)
	case key == "":
		return Config{}, fmt.Errorf("%w: apiKey is required", ErrInvalidInput)
	case provider == ProviderCustom && baseURL == "":
		return Config{}, fmt.Errorf("%w: baseUrl is required for custom providers", ErrInvalidInput)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	cfg := Config{
		ID:            uuid.NewString(),
		ProviderName:  provider,
		ModelName:     model,
		APIKey:        key,
		BaseURL:       baseURL,
		IsActive:      true,
		LastUpdatedBy: userID,
		LastUpdatedAt: now().UTC(),
	}
	if err := s.Repo.Activate(ctx, cfg); err != nil {
		return Config{}, err
	}
	telemetry.Info("llmconfig.activated", map[string]any{
		"config_id": cfg.ID,
		"provider":  cfg.ProviderName,
		"model":     cfg.ModelName,
		"user_id":   userID,
	})
	return cfg, nil
}

// Active returns the active configuration or ErrNotFound.
func (s *Service) Active(ctx context.Context) (Config, error) {
	if s == nil || s.Repo == nil {
		return Config{}, ErrNotFound
	}
	return s.Repo.Active(ctx)
}
