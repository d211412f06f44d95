package reports

import "context"

// Repo persists weekly reports.
type Repo interface {
	Create(ctx context.Context, r WeeklyReport) error
	GetByID(ctx context.Context, id string) (WeeklyReport, error)
	// List returns reports ordered by creation time, oldest first. An empty
	// projectID lists every project.
	List(ctx context.Context, projectID string) ([]WeeklyReport, error)
	Update(ctx context.Context, r WeeklyReport) error
	// ListAIAnalyzed returns reports with an AI status and assessment, newest first.
	ListAIAnalyzed(ctx context.Context) ([]WeeklyReport, error)
}
