package portfolio

import (
	"context"
	"sync"
)

type MemoryAnalysisRepo struct {
	mu       sync.RWMutex
	analyses []Analysis
}

func NewMemoryAnalysisRepo() *MemoryAnalysisRepo {
	return &MemoryAnalysisRepo{}
}

func (r *MemoryAnalysisRepo) Create(ctx context.Context, a Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses = append(r.analyses, a)
	return nil
}

func (r *MemoryAnalysisRepo) Latest(ctx context.Context) (Analysis, error) {
	list, err := r.History(ctx, 1)
	if err != nil {
		return Analysis{}, err
	}
	if len(list) == 0 {
		return Analysis{}, ErrNoAnalysis
	}
	return list[0], nil
}

// History walks insertion order backwards; analyses are appended as they run.
func (r *MemoryAnalysisRepo) History(ctx context.Context, limit int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.analyses) {
		limit = len(r.analyses)
	}
	out := make([]Analysis, 0, limit)
	for i := len(r.analyses) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.analyses[i])
	}
	return out, nil
}
