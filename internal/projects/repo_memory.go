package projects

import (
	"context"
	"sort"
	"strings"
	"sync"
)

type MemoryRepo struct {
	mu       sync.RWMutex
	projects map[string]Project
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{projects: make(map[string]Project)}
}

func (r *MemoryRepo) Create(ctx context.Context, p Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Project, error) {
	if err := ctx.Err(); err != nil {
		return Project{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return cloneProject(p), nil
}

func (r *MemoryRepo) FindByName(ctx context.Context, name string) (Project, error) {
	if err := ctx.Err(); err != nil {
		return Project{}, err
	}
	want := normalizeName(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *Project
	for _, p := range r.projects {
		if normalizeName(p.Name) != want {
			continue
		}
		if found == nil || p.CreatedAt.Before(found.CreatedAt) {
			cp := p
			found = &cp
		}
	}
	if found == nil {
		return Project{}, ErrNotFound
	}
	return cloneProject(*found), nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Project, error) {
	return r.filter(ctx, func(Project) bool { return true })
}

func (r *MemoryRepo) ListByManager(ctx context.Context, managerID string) ([]Project, error) {
	return r.filter(ctx, func(p Project) bool { return p.ProjectManagerID == managerID })
}

func (r *MemoryRepo) Update(ctx context.Context, p Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[p.ID]; !ok {
		return ErrNotFound
	}
	r.projects[p.ID] = cloneProject(p)
	return nil
}

func (r *MemoryRepo) filter(ctx context.Context, keep func(Project) bool) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Project, 0, len(r.projects))
	for _, p := range r.projects {
		if keep(p) {
			out = append(out, cloneProject(p))
		}
	}
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func cloneProject(p Project) Project {
	if p.Tags != nil {
		p.Tags = append([]string(nil), p.Tags...)
	}
	return p
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
