package reports

import (
	"context"
	"sort"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	reports map[string]WeeklyReport
	seq     map[string]int
	next    int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		reports: make(map[string]WeeklyReport),
		seq:     make(map[string]int),
	}
}

func (m *MemoryRepo) Create(ctx context.Context, r WeeklyReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ID] = r
	m.next++
	m.seq[r.ID] = m.next
	return nil
}

func (m *MemoryRepo) GetByID(ctx context.Context, id string) (WeeklyReport, error) {
	if err := ctx.Err(); err != nil {
		return WeeklyReport{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[id]
	if !ok {
		return WeeklyReport{}, ErrNotFound
	}
	return r, nil
}

func (m *MemoryRepo) List(ctx context.Context, projectID string) ([]WeeklyReport, error) {
	out, err := m.filter(ctx, func(r WeeklyReport) bool {
		return projectID == "" || r.ProjectID == projectID
	})
	if err != nil {
		return nil, err
	}
	m.sortByCreation(out, false)
	return out, nil
}

func (m *MemoryRepo) Update(ctx context.Context, r WeeklyReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[r.ID]; !ok {
		return ErrNotFound
	}
	m.reports[r.ID] = r
	return nil
}

func (m *MemoryRepo) ListAIAnalyzed(ctx context.Context) ([]WeeklyReport, error) {
	out, err := m.filter(ctx, WeeklyReport.AIAnalyzed)
	if err != nil {
		return nil, err
	}
	m.sortByCreation(out, true)
	return out, nil
}

func (m *MemoryRepo) filter(ctx context.Context, keep func(WeeklyReport) bool) ([]WeeklyReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]WeeklyReport, 0, len(m.reports))
	for _, r := range m.reports {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// sortByCreation orders by CreatedAt, breaking ties by insertion order.
func (m *MemoryRepo) sortByCreation(list []WeeklyReport, desc bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if desc {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return m.seq[a.ID] < m.seq[b.ID]
	})
}
