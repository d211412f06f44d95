package projects

import "context"

// Repo persists projects.
type Repo interface {
	Create(ctx context.Context, p Project) error
	GetByID(ctx context.Context, id string) (Project, error)
	// FindByName matches names case-insensitively after trimming.
	FindByName(ctx context.Context, name string) (Project, error)
	List(ctx context.Context) ([]Project, error)
	ListByManager(ctx context.Context, managerID string) ([]Project, error)
	Update(ctx context.Context, p Project) error
}
