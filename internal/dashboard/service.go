// Package dashboard serves the headline portfolio numbers.
package dashboard

import (
	"context"
	"errors"
	"time"

	"portfolio-pulse/internal/portfolio"
	"portfolio-pulse/internal/projects"
	"portfolio-pulse/internal/rag"
)

const (
	DefaultTrendWeeks = 12
	MaxTrendWeeks     = 52
)

type Service struct {
	Projects portfolio.ProjectLister
	Reports  portfolio.ReportIndex
	Now      func() time.Time
	// Location sets the day boundaries of trend buckets. Default UTC.
	Location *time.Location
}

func NewService(pl portfolio.ProjectLister, ri portfolio.ReportIndex) *Service {
	return &Service{Projects: pl, Reports: ri, Now: time.Now}
}

func (s *Service) now() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	if s.Now == nil {
		return time.Now().In(loc)
	}
	return s.Now().In(loc)
}

func (s *Service) snapshots(ctx context.Context) ([]portfolio.Snapshot, error) {
	if s == nil || s.Projects == nil || s.Reports == nil {
		return nil, errors.New("dashboard service not configured")
	}
	states, err := portfolio.Collect(ctx, s.Projects, s.Reports)
	if err != nil {
		return nil, err
	}
	return portfolio.Snapshots(states), nil
}

// Stats counts the latest report colour of every project.
func (s *Service) Stats(ctx context.Context) (portfolio.Stats, error) {
	snaps, err := s.snapshots(ctx)
	if err != nil {
		return portfolio.Stats{}, err
	}
	return portfolio.ComputeStats(snaps), nil
}

// Towers splits projects by tower.
func (s *Service) Towers(ctx context.Context) ([]portfolio.TowerPerformance, error) {
	snaps, err := s.snapshots(ctx)
	if err != nil {
		return nil, err
	}
	return portfolio.Towers(snaps), nil
}

// Trends buckets every stored report into weeks, coloured by each project's
// current status.
func (s *Service) Trends(ctx context.Context, weeks int) ([]portfolio.TrendPoint, error) {
	if s == nil || s.Projects == nil || s.Reports == nil {
		return nil, errors.New("dashboard service not configured")
	}
	if weeks <= 0 {
		weeks = DefaultTrendWeeks
	}
	if weeks > MaxTrendWeeks {
		weeks = MaxTrendWeeks
	}
	list, err := s.Projects.List(ctx, projects.Viewer{})
	if err != nil {
		return nil, err
	}
	status := make(map[string]rag.Status, len(list))
	for _, p := range list {
		status[p.ID] = p.RAGStatus
	}
	all, err := s.Reports.List(ctx, "")
	if err != nil {
		return nil, err
	}
	history := make([]portfolio.DatedReport, 0, len(all))
	for _, r := range all {
		history = append(history, portfolio.DatedReport{ProjectID: r.ProjectID, CreatedAt: r.CreatedAt})
	}
	return portfolio.Trend(history, status, weeks, s.now()), nil
}
