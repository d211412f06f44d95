package reports

import (
	"time"

	"portfolio-pulse/internal/rag"
)

// WeeklyReport is a stored weekly status report for one project.
type WeeklyReport struct {
	ID                   string     `json:"id"`
	ProjectID            string     `json:"projectId"`
	ReportingDate        time.Time  `json:"reportingDate"`
	WeekNumber           int        `json:"weekNumber"`
	Published            bool       `json:"publishStatus"`
	HealthPreviousWeek   rag.Status `json:"healthPreviousWeek"`
	HealthCurrentWeek    rag.Status `json:"healthCurrentWeek"`
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
	AIStatus             string     `json:"aiStatus,omitempty"`
	AIAssessment         string     `json:"aiAssessmentDescription,omitempty"`
	SubmittedBy          string     `json:"submittedBy,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

// AIAnalyzed reports whether an AI status and assessment have been recorded.
func (r WeeklyReport) AIAnalyzed() bool {
	return r.AIStatus != "" && r.AIAssessment != ""
}

// SameReportingDay reports whether both instants fall on the same calendar day in loc.
func SameReportingDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
