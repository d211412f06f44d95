package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio-pulse/internal/rag"
	"portfolio-pulse/internal/shared/telemetry"
)

// ProjectChecker confirms a project exists before a report is attached to it.
type ProjectChecker func(ctx context.Context, projectID string) error

// CreateInput carries the fields accepted when submitting a report.
type CreateInput struct {
	ProjectID            string     `json:"projectId"`
	ReportingDate        *time.Time `json:"reportingDate"`
	WeekNumber           int        `json:"weekNumber"`
	Published            bool       `json:"publishStatus"`
	HealthPreviousWeek   string     `json:"healthPreviousWeek"`
	HealthCurrentWeek    string     `json:"healthCurrentWeek"`
	ClientEscalation     string     `json:"clientEscalation"`
	UpdateForCurrentWeek string     `json:"updateForCurrentWeek"`
	PlanForNextWeek      string     `json:"planForNextWeek"`
	IssuesChallenges     string     `json:"issuesChallenges"`
	PathToGreen          string     `json:"pathToGreen"`
	ResourcingStatus     string     `json:"resourcingStatus"`
	CurrentSDLCPhase     string     `json:"currentSdlcPhase"`
	SQARemarks           string     `json:"sqaRemarks"`
	FTE                  string     `json:"fte"`
	Revenue              string     `json:"revenue"`
	Tower                string     `json:"tower"`
	BillingModel         string     `json:"billingModel"`
	SubmittedBy          string     `json:"-"`
}

type Service struct {
	Repo          Repo
	ProjectExists ProjectChecker
	Now           func() time.Time
	// Location decides which calendar day a report belongs to.
	Location *time.Location
}

func NewService(repo Repo, exists ProjectChecker) *Service {
	return &Service{Repo: repo, ProjectExists: exists, Now: time.Now, Location: time.UTC}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Create stores a manually submitted report. Health values are normalised.
func (s *Service) Create(ctx context.Context, in CreateInput) (WeeklyReport, error) {
	if s == nil || s.Repo == nil {
		return WeeklyReport{}, errors.New("reports service not configured")
	}
	projectID := strings.TrimSpace(in.ProjectID)
	if projectID == "" {
		return WeeklyReport{}, fmt.Errorf("%w: projectId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.HealthCurrentWeek) == "" {
		return WeeklyReport{}, fmt.Errorf("%w: healthCurrentWeek is required", ErrInvalidInput)
	}
	if s.ProjectExists != nil {
		if err := s.ProjectExists(ctx, projectID); err != nil {
			return WeeklyReport{}, fmt.Errorf("%w: %v", ErrProjectNotFound, err)
		}
	}
	now := s.now()
	r := WeeklyReport{
		ID:                   uuid.NewString(),
		ProjectID:            projectID,
		ReportingDate:        now,
		WeekNumber:           in.WeekNumber,
		Published:            in.Published,
		HealthCurrentWeek:    rag.Normalize(in.HealthCurrentWeek),
		ClientEscalation:     strings.TrimSpace(in.ClientEscalation),
		UpdateForCurrentWeek: in.UpdateForCurrentWeek,
		PlanForNextWeek:      in.PlanForNextWeek,
		IssuesChallenges:     in.IssuesChallenges,
		PathToGreen:          in.PathToGreen,
		ResourcingStatus:     in.ResourcingStatus,
		CurrentSDLCPhase:     in.CurrentSDLCPhase,
		SQARemarks:           in.SQARemarks,
		FTE:                  in.FTE,
		Revenue:              in.Revenue,
		Tower:                in.Tower,
		BillingModel:         in.BillingModel,
		SubmittedBy:          in.SubmittedBy,
		CreatedAt:            now,
	}
	if in.ReportingDate != nil {
		r.ReportingDate = in.ReportingDate.UTC()
	}
	if strings.TrimSpace(in.HealthPreviousWeek) != "" {
		r.HealthPreviousWeek = rag.Normalize(in.HealthPreviousWeek)
	}
	if r.ClientEscalation == "" {
		r.ClientEscalation = "None"
	}
	if err := s.Repo.Create(ctx, r); err != nil {
		return WeeklyReport{}, err
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, projectID string) ([]WeeklyReport, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("reports service not configured")
	}
	list, err := s.Repo.List(ctx, strings.TrimSpace(projectID))
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []WeeklyReport{}
	}
	return list, nil
}

// Latest returns the most recently created report of a project.
func (s *Service) Latest(ctx context.Context, projectID string) (WeeklyReport, error) {
	list, err := s.List(ctx, projectID)
	if err != nil {
		return WeeklyReport{}, err
	}
	if len(list) == 0 {
		return WeeklyReport{}, ErrNotFound
	}
	return list[len(list)-1], nil
}

// LatestByProject maps each project ID to its most recently created report.
func (s *Service) LatestByProject(ctx context.Context) (map[string]WeeklyReport, error) {
	list, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]WeeklyReport)
	for _, r := range list {
		out[r.ProjectID] = r
	}
	return out, nil
}

// ListAIAnalyzed returns reports carrying an AI assessment, newest first.
func (s *Service) ListAIAnalyzed(ctx context.Context) ([]WeeklyReport, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("reports service not configured")
	}
	list, err := s.Repo.ListAIAnalyzed(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []WeeklyReport{}
	}
	return list, nil
}

// RecordAssessment writes an AI status and assessment onto a stored report.
func (s *Service) RecordAssessment(ctx context.Context, reportID string, status rag.Status, assessment string) (WeeklyReport, error) {
	r, err := s.Repo.GetByID(ctx, reportID)
	if err != nil {
		return WeeklyReport{}, err
	}
	r.AIStatus = string(status)
	r.AIAssessment = assessment
	if err := s.Repo.Update(ctx, r); err != nil {
		return WeeklyReport{}, err
	}
	return r, nil
}

// UpsertForWeek replaces the project's report for the same week number filed on
// the same calendar day, or stores r as a new report.
func (s *Service) UpsertForWeek(ctx context.Context, r WeeklyReport) (WeeklyReport, error) {
	if s == nil || s.Repo == nil {
		return WeeklyReport{}, errors.New("reports service not configured")
	}
	now := s.now()
	if r.ReportingDate.IsZero() {
		r.ReportingDate = now
	}
	existing, err := s.Repo.List(ctx, r.ProjectID)
	if err != nil {
		return WeeklyReport{}, err
	}
	for _, e := range existing {
		if e.WeekNumber != r.WeekNumber || !SameReportingDay(e.ReportingDate, r.ReportingDate, s.Location) {
			continue
		}
		r.ID = e.ID
		r.CreatedAt = e.CreatedAt
		if err := s.Repo.Update(ctx, r); err != nil {
			return WeeklyReport{}, err
		}
		telemetry.Debug("report.updated", map[string]any{"report_id": r.ID, "project_id": r.ProjectID, "week": r.WeekNumber})
		return r, nil
	}
	r.ID = uuid.NewString()
	r.CreatedAt = now
	if err := s.Repo.Create(ctx, r); err != nil {
		return WeeklyReport{}, err
	}
	telemetry.Debug("report.created", map[string]any{"report_id": r.ID, "project_id": r.ProjectID, "week": r.WeekNumber})
	return r, nil
}
