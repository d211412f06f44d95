package llmconfig

import "context"

type Repo interface {
	// Activate deactivates every stored configuration and stores cfg as active.
	Activate(ctx context.Context, cfg Config) error
	Active(ctx context.Context) (Config, error)
	GetByID(ctx context.Context, id string) (Config, error)
	List(ctx context.Context) ([]Config, error)
}
