package portfolio

import (
	"context"

	"portfolio-pulse/internal/projects"
	"portfolio-pulse/internal/reports"
)

// ProjectLister lists projects visible to a viewer.
type ProjectLister interface {
	List(ctx context.Context, viewer projects.Viewer) ([]projects.Project, error)
}

// ReportIndex exposes stored weekly reports.
type ReportIndex interface {
	List(ctx context.Context, projectID string) ([]reports.WeeklyReport, error)
	LatestByProject(ctx context.Context) (map[string]reports.WeeklyReport, error)
}

// ProjectState pairs a project with its most recent report, if any.
type ProjectState struct {
	Project projects.Project
	Latest  *reports.WeeklyReport
}

// Collect loads every project with its latest report, in project order.
func Collect(ctx context.Context, pl ProjectLister, ri ReportIndex) ([]ProjectState, error) {
	list, err := pl.List(ctx, projects.Viewer{})
	if err != nil {
		return nil, err
	}
	latest, err := ri.LatestByProject(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProjectState, 0, len(list))
	for _, p := range list {
		st := ProjectState{Project: p}
		if r, ok := latest[p.ID]; ok {
			r := r
			st.Latest = &r
		}
		out = append(out, st)
	}
	return out, nil
}

// Snapshots converts states into dashboard snapshots. A report's tower wins
// over the project's.
func Snapshots(states []ProjectState) []Snapshot {
	out := make([]Snapshot, 0, len(states))
	for _, st := range states {
		s := Snapshot{ProjectID: st.Project.ID, Tower: st.Project.Tower}
		if st.Latest != nil {
			s.HasReport = true
			s.Latest = st.Latest.HealthCurrentWeek
			s.Escalated = escalated(st.Latest.ClientEscalation)
			if st.Latest.Tower != "" {
				s.Tower = st.Latest.Tower
			}
		}
		out = append(out, s)
	}
	return out
}

func escalated(v string) bool {
	return v != "" && v != "None"
}
