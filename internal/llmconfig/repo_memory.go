package llmconfig

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	configs []Config
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Activate(ctx context.Context, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.configs {
		r.configs[i].IsActive = false
	}
	cfg.IsActive = true
	r.configs = append(r.configs, cfg)
	return nil
}

func (r *MemoryRepo) Active(ctx context.Context) (Config, error) {
	if err := ctx.Err(); err != nil {
		return Config{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.configs) - 1; i >= 0; i-- {
		if r.configs[i].IsActive {
			return r.configs[i], nil
		}
	}
	return Config{}, ErrNotFound
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Config, error) {
	if err := ctx.Err(); err != nil {
		return Config{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.configs {
		if c.ID == id {
			return c, nil
		}
	}
	return Config{}, ErrNotFound
}

func (r *MemoryRepo) List(ctx context.Context) ([]Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Config(nil), r.configs...), nil
}
