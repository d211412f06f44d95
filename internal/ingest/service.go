// Package ingest runs spreadsheet batches end to end: read, summarise, store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"portfolio-pulse/internal/insights"
	"portfolio-pulse/internal/portfolio"
	"portfolio-pulse/internal/projects"
	"portfolio-pulse/internal/rag"
	"portfolio-pulse/internal/reports"
	"portfolio-pulse/internal/shared/metrics"
	"portfolio-pulse/internal/shared/storage/object"
	"portfolio-pulse/internal/shared/telemetry"
	"portfolio-pulse/internal/shared/util"
	"portfolio-pulse/internal/spreadsheet"
)

var (
	ErrNoSourceFiles   = errors.New("no spreadsheet files found")
	ErrUnsupportedFile = errors.New("unsupported spreadsheet file")
	ErrProjectNotFound = errors.New("project not found")
	ErrNoReports       = errors.New("no reports found for this project")
)

// ProcessedMessage is the message of every successful batch response.
const ProcessedMessage = "Excel files processed successfully"

// BatchResponse is the result of one ingestion batch.
type BatchResponse struct {
	Message           string                    `json:"message"`
	ProjectsProcessed int                       `json:"projectsProcessed"`
	PortfolioSummary  portfolio.Summary         `json:"portfolioSummary"`
	ProjectSummaries  []insights.ProjectSummary `json:"projectSummaries"`
	RawData           []spreadsheet.Report      `json:"rawData"`
}

// Catalog is what the per-project endpoints read and write.
type Catalog interface {
	Project(ctx context.Context, id string) (projects.Project, error)
	LatestReport(ctx context.Context, projectID string) (reports.WeeklyReport, error)
	AnalyzedReports(ctx context.Context) ([]reports.WeeklyReport, error)
	RecordAssessment(ctx context.Context, reportID string, status rag.Status, assessment string) (reports.WeeklyReport, error)
}

// Service wires the parser, summarizer and store together.
type Service struct {
	Objects     object.ObjectStore
	Parser      *spreadsheet.Parser
	Summarizer  *insights.Summarizer
	Store       Store
	Catalog     Catalog
	Concurrency int

	// mu serialises the store phase so find-or-create never races across batches.
	mu sync.Mutex
}

func (s *Service) limit() int {
	if s.Concurrency <= 0 {
		return 1
	}
	return s.Concurrency
}

// RunBatch ingests every supported spreadsheet in the object store.
func (s *Service) RunBatch(ctx context.Context) (BatchResponse, error) {
	if s == nil || s.Objects == nil {
		return BatchResponse{}, errors.New("spreadsheet store not configured")
	}
	objs, err := s.Objects.List(ctx)
	if err != nil {
		return BatchResponse{}, fmt.Errorf("list spreadsheets: %w", err)
	}
	var sources []spreadsheet.Source
	for _, o := range objs {
		if !spreadsheet.Supported(o.Key) {
			continue
		}
		key := o.Key
		sources = append(sources, spreadsheet.Source{
			Name: key,
			Open: func(ctx context.Context) (io.ReadCloser, error) {
				return s.Objects.Open(ctx, key)
			},
		})
	}
	if len(sources) == 0 {
		return BatchResponse{}, ErrNoSourceFiles
	}
	return s.Process(ctx, sources), nil
}

// Process parses, summarises and stores sources. A report whose storage
// fails is left out of the response. With no Store nothing is persisted.
func (s *Service) Process(ctx context.Context, sources []spreadsheet.Source) BatchResponse {
	start := time.Now()
	parser := s.Parser
	if parser == nil {
		parser = spreadsheet.NewParser(spreadsheet.DefaultColumns())
	}
	batch := parser.ParseBatch(ctx, sources, s.limit())
	for _, f := range batch.Files {
		if f.Err != nil {
			metrics.IncFilesFailed()
			continue
		}
		metrics.IncFilesParsed()
	}
	metrics.AddReports(len(batch.Reports))

	var summaries []insights.ProjectSummary
	if s.Summarizer != nil {
		summaries = s.Summarizer.SummarizeAll(ctx, batch.Reports, s.limit())
	} else {
		for _, r := range batch.Reports {
			summaries = append(summaries, insights.Fallback(r))
		}
	}

	kept := make([]spreadsheet.Report, 0, len(batch.Reports))
	keptSums := make([]insights.ProjectSummary, 0, len(summaries))
	s.mu.Lock()
	for i, r := range batch.Reports {
		if s.Store != nil {
			if err := s.persist(ctx, r, summaries[i]); err != nil {
				telemetry.Error("ingest.store.failed", map[string]any{
					"project": r.ProjectName,
					"week":    r.WeekNumber,
					"err":     err.Error(),
				})
				continue
			}
		}
		kept = append(kept, r)
		keptSums = append(keptSums, summaries[i])
	}
	s.mu.Unlock()

	resp := BatchResponse{
		Message:           ProcessedMessage,
		ProjectsProcessed: len(kept),
		PortfolioSummary:  portfolio.Summarize(keptSums),
		ProjectSummaries:  keptSums,
		RawData:           kept,
	}
	telemetry.Info("ingest.batch.completed", map[string]any{
		"files":        len(sources),
		"files_failed": len(batch.Failed()),
		"reports":      len(kept),
		"overall":      string(resp.PortfolioSummary.OverallHealth),
		"duration_ms":  time.Since(start).Milliseconds(),
	})
	return resp
}

func (s *Service) persist(ctx context.Context, r spreadsheet.Report, sum insights.ProjectSummary) error {
	p, ok, err := s.Store.FindProjectByName(ctx, r.ProjectName)
	if err != nil {
		return err
	}
	if !ok {
		p, err = s.Store.CreateProject(ctx, r)
		if err != nil {
			return err
		}
	}
	_, err = s.Store.UpsertReportForWeek(ctx, p.ID, r, sum)
	return err
}

// Upload saves a spreadsheet into the object store and returns its key.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader) (string, int64, error) {
	if s == nil || s.Objects == nil {
		return "", 0, errors.New("spreadsheet store not configured")
	}
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	if !spreadsheet.Supported(name) {
		return "", 0, ErrUnsupportedFile
	}
	key, size, err := s.Objects.Save(ctx, name, r)
	if err != nil {
		return "", 0, err
	}
	telemetry.Info("ingest.upload", map[string]any{"key": key, "size_bytes": size})
	return key, size, nil
}

// SummaryItem is one AI-analysed report as listed for the dashboard.
type SummaryItem struct {
	ProjectName   string    `json:"projectName"`
	WeekNumber    int       `json:"weekNumber"`
	OverallHealth string    `json:"overallHealth"`
	Summary       string    `json:"summary"`
	ReportingDate time.Time `json:"reportingDate"`
	HealthTrend   string    `json:"healthTrend"`
}

const unknownProject = "Unknown Project"

// Summaries lists every AI-analysed report, newest first.
func (s *Service) Summaries(ctx context.Context) ([]SummaryItem, error) {
	if s == nil || s.Catalog == nil {
		return nil, errors.New("ingest catalog not configured")
	}
	list, err := s.Catalog.AnalyzedReports(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string)
	out := make([]SummaryItem, 0, len(list))
	for _, r := range list {
		name, ok := names[r.ProjectID]
		if !ok {
			name = unknownProject
			if p, err := s.Catalog.Project(ctx, r.ProjectID); err == nil {
				name = p.Name
			}
			names[r.ProjectID] = name
		}
		out = append(out, SummaryItem{
			ProjectName:   name,
			WeekNumber:    r.WeekNumber,
			OverallHealth: r.AIStatus,
			Summary:       r.AIAssessment,
			ReportingDate: r.ReportingDate,
			HealthTrend:   string(r.HealthPreviousWeek) + " → " + string(r.HealthCurrentWeek),
		})
	}
	return out, nil
}

// ProjectAnalysis is the outcome of analysing one project's latest report.
type ProjectAnalysis struct {
	ProjectName   string                  `json:"projectName"`
	Summary       insights.ProjectSummary `json:"summary"`
	UpdatedReport reports.WeeklyReport    `json:"updatedReport"`
}

// AnalyzeProject summarises the project's latest report and records the result on it.
func (s *Service) AnalyzeProject(ctx context.Context, projectID string) (ProjectAnalysis, error) {
	if s == nil || s.Catalog == nil {
		return ProjectAnalysis{}, errors.New("ingest catalog not configured")
	}
	p, err := s.Catalog.Project(ctx, projectID)
	if errors.Is(err, projects.ErrNotFound) {
		return ProjectAnalysis{}, ErrProjectNotFound
	}
	if err != nil {
		return ProjectAnalysis{}, err
	}
	latest, err := s.Catalog.LatestReport(ctx, p.ID)
	if errors.Is(err, reports.ErrNotFound) {
		return ProjectAnalysis{}, ErrNoReports
	}
	if err != nil {
		return ProjectAnalysis{}, err
	}

	r := reportFrom(p.Name, latest)
	var sum insights.ProjectSummary
	if s.Summarizer != nil {
		sum = s.Summarizer.Summarize(ctx, r)
	} else {
		sum = insights.Fallback(r)
	}
	updated, err := s.Catalog.RecordAssessment(ctx, latest.ID, sum.OverallHealth, sum.Summary)
	if err != nil {
		return ProjectAnalysis{}, err
	}
	telemetry.Info("ingest.project.analyzed", map[string]any{
		"project_id": p.ID,
		"report_id":  latest.ID,
		"status":     string(sum.OverallHealth),
	})
	return ProjectAnalysis{ProjectName: p.Name, Summary: sum, UpdatedReport: updated}, nil
}

// reportFrom rebuilds a spreadsheet row from a stored report.
func reportFrom(projectName string, w reports.WeeklyReport) spreadsheet.Report {
	week := w.WeekNumber
	if week <= 0 {
		week = 1
	}
	return spreadsheet.Report{
		ProjectName:          projectName,
		WeekNumber:           week,
		HealthPreviousWeek:   rag.Normalize(string(w.HealthPreviousWeek)),
		HealthCurrentWeek:    rag.Normalize(string(w.HealthCurrentWeek)),
		UpdateForCurrentWeek: w.UpdateForCurrentWeek,
		PlanForNextWeek:      w.PlanForNextWeek,
		IssuesChallenges:     w.IssuesChallenges,
		PathToGreen:          w.PathToGreen,
		ResourcingStatus:     w.ResourcingStatus,
		ClientEscalation:     orNone(strings.TrimSpace(w.ClientEscalation)),
		Tower:                w.Tower,
		BillingModel:         w.BillingModel,
		FTE:                  w.FTE,
		Revenue:              w.Revenue,
	}
}
