package ingest

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"portfolio-pulse/internal/insights"
	"portfolio-pulse/internal/projects"
	"portfolio-pulse/internal/rag"
	"portfolio-pulse/internal/reports"
	"portfolio-pulse/internal/spreadsheet"
)

// Store is what a batch needs from persistence.
type Store interface {
	// FindProjectByName matches case-insensitively; ok is false when none exists.
	FindProjectByName(ctx context.Context, name string) (p projects.Project, ok bool, err error)
	CreateProject(ctx context.Context, r spreadsheet.Report) (projects.Project, error)
	ListReports(ctx context.Context, projectID string) ([]reports.WeeklyReport, error)
	UpsertReportForWeek(ctx context.Context, projectID string, r spreadsheet.Report, sum insights.ProjectSummary) (reports.WeeklyReport, error)
}

// ImportTag marks projects created from a spreadsheet.
const ImportTag = "excel-import"

const defaultTeamSquad = "Alpha Squad"

// RepoStore implements Store over the projects and reports services.
type RepoStore struct {
	Projects *projects.Service
	Reports  *reports.Service
	// SubmittedBy is recorded on reports written by a batch.
	SubmittedBy string
	Now         func() time.Time
}

func (s *RepoStore) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *RepoStore) FindProjectByName(ctx context.Context, name string) (projects.Project, bool, error) {
	p, err := s.Projects.FindByName(ctx, name)
	if errors.Is(err, projects.ErrNotFound) {
		return projects.Project{}, false, nil
	}
	if err != nil {
		return projects.Project{}, false, err
	}
	return p, true, nil
}

// CreateProject registers a project first seen in a spreadsheet row.
func (s *RepoStore) CreateProject(ctx context.Context, r spreadsheet.Report) (projects.Project, error) {
	name := strings.TrimSpace(r.ProjectName)
	now := s.now()
	end := now.AddDate(0, 0, 180)
	squad := strings.TrimSpace(r.Tower)
	if squad == "" {
		squad = defaultTeamSquad
	}
	billing := strings.TrimSpace(r.BillingModel)
	if billing == "" {
		billing = projects.DefaultBillingModel
	}
	return s.Projects.Create(ctx, projects.CreateInput{
		Name:             name,
		CodeID:           ImportCode(name),
		EngagementType:   projects.DefaultEngagementType,
		DeliveryModel:    "Agile",
		BillingModel:     billing,
		RAGStatus:        string(r.HealthCurrentWeek),
		ScopeDescription: "Project imported from Excel: " + name,
		TeamSquad:        squad,
		Tower:            strings.TrimSpace(r.Tower),
		FTE:              r.FTE,
		Revenue:          r.Revenue,
		StartDate:        &now,
		PlannedEndDate:   &end,
		ClientEscalation: r.Escalated(),
		Tags:             []string{ImportTag},
	})
}

func (s *RepoStore) ListReports(ctx context.Context, projectID string) ([]reports.WeeklyReport, error) {
	return s.Reports.List(ctx, projectID)
}

// UpsertReportForWeek stores r with the summary's status and text attached.
func (s *RepoStore) UpsertReportForWeek(ctx context.Context, projectID string, r spreadsheet.Report, sum insights.ProjectSummary) (reports.WeeklyReport, error) {
	return s.Reports.UpsertForWeek(ctx, reports.WeeklyReport{
		ProjectID:            projectID,
		ReportingDate:        s.now(),
		WeekNumber:           r.WeekNumber,
		Published:            true,
		HealthPreviousWeek:   r.HealthPreviousWeek,
		HealthCurrentWeek:    r.HealthCurrentWeek,
		ClientEscalation:     orNone(r.ClientEscalation),
		UpdateForCurrentWeek: r.UpdateForCurrentWeek,
		PlanForNextWeek:      r.PlanForNextWeek,
		IssuesChallenges:     r.IssuesChallenges,
		PathToGreen:          r.PathToGreen,
		ResourcingStatus:     r.ResourcingStatus,
		CurrentSDLCPhase:     "Development",
		FTE:                  r.FTE,
		Revenue:              r.Revenue,
		Tower:                r.Tower,
		BillingModel:         r.BillingModel,
		AIStatus:             string(sum.OverallHealth),
		AIAssessment:         sum.Summary,
		SubmittedBy:          s.SubmittedBy,
	})
}

func (s *RepoStore) Project(ctx context.Context, id string) (projects.Project, error) {
	return s.Projects.Get(ctx, id)
}

func (s *RepoStore) LatestReport(ctx context.Context, projectID string) (reports.WeeklyReport, error) {
	return s.Reports.Latest(ctx, projectID)
}

func (s *RepoStore) AnalyzedReports(ctx context.Context) ([]reports.WeeklyReport, error) {
	return s.Reports.ListAIAnalyzed(ctx)
}

func (s *RepoStore) RecordAssessment(ctx context.Context, reportID string, status rag.Status, assessment string) (reports.WeeklyReport, error) {
	return s.Reports.RecordAssessment(ctx, reportID, status, assessment)
}

// ImportCode derives a stable EXL-nnn code from a project name.
func ImportCode(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	return fmt.Sprintf("EXL-%03d", h.Sum32()%1000)
}

func orNone(v string) string {
	if strings.TrimSpace(v) == "" {
		return spreadsheet.NoEscalation
	}
	return v
}

var (
	_ Store   = (*RepoStore)(nil)
	_ Catalog = (*RepoStore)(nil)
)
