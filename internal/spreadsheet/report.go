// Package spreadsheet turns weekly status spreadsheets into normalised reports.
package spreadsheet

import "portfolio-pulse/internal/rag"

// NoEscalation is the clientEscalation value meaning nothing was escalated.
const NoEscalation = "None"

// Report is one project's status for one reporting week, as read from a sheet row.
type Report struct {
	ProjectName          string     `json:"projectName"`
	WeekNumber           int        `json:"weekNumber"`
	HealthPreviousWeek   rag.Status `json:"healthPreviousWeek"`
	HealthCurrentWeek    rag.Status `json:"healthCurrentWeek"`
	UpdateForCurrentWeek string     `json:"updateForCurrentWeek"`
	PlanForNextWeek      string     `json:"planForNextWeek"`
	IssuesChallenges     string     `json:"issuesChallenges"`
	PathToGreen          string     `json:"pathToGreen"`
	ResourcingStatus     string     `json:"resourcingStatus"`
	ClientEscalation     string     `json:"clientEscalation"`
	Tower                string     `json:"tower"`
	BillingModel         string     `json:"billingModel"`
	FTE                  string     `json:"fte"`
	Revenue              string     `json:"revenue"`
}

// Escalated reports whether the row carries a client escalation.
func (r Report) Escalated() bool {
	return r.ClientEscalation != "" && r.ClientEscalation != NoEscalation
}
