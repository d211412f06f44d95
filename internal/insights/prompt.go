package insights

import (
	"fmt"
	"strings"

	"portfolio-pulse/internal/spreadsheet"
)

const systemPrompt = "You are an expert project management analyst specializing in risk assessment and project health evaluation. Analyze weekly status reports and provide structured insights in JSON format."

const (
	temperature = 0.3
	maxTokens   = 1500
)

// BuildPrompt renders the user message for one report.
func BuildPrompt(r spreadsheet.Report) string {
	var b strings.Builder
	b.WriteString("Analyze this weekly project status report and provide insights in valid JSON format:\n\n")
	fmt.Fprintf(&b, "Project: %s\n", r.ProjectName)
	fmt.Fprintf(&b, "Week: %d\n", r.WeekNumber)
	fmt.Fprintf(&b, "Health Trend: %s → %s\n", r.HealthPreviousWeek, r.HealthCurrentWeek)
	fmt.Fprintf(&b, "Current Week Update: %s\n", r.UpdateForCurrentWeek)
	fmt.Fprintf(&b, "Next Week Plan: %s\n", r.PlanForNextWeek)
	fmt.Fprintf(&b, "Issues/Challenges: %s\n", r.IssuesChallenges)
	fmt.Fprintf(&b, "Path to Green: %s\n", r.PathToGreen)
	fmt.Fprintf(&b, "Resourcing: %s\n", r.ResourcingStatus)
	fmt.Fprintf(&b, "Client Escalation: %s\n", r.ClientEscalation)
	fmt.Fprintf(&b, "Tower: %s\n", r.Tower)
	fmt.Fprintf(&b, "Billing Model: %s\n", r.BillingModel)
	fmt.Fprintf(&b, "FTE: %s\n", r.FTE)
	fmt.Fprintf(&b, "Revenue: %s\n", r.Revenue)
	b.WriteString(`
Please respond with a valid JSON object containing:
{
  "overallHealth": "Red" | "Amber" | "Green",
  "riskLevel": "Low" | "Medium" | "High" | "Critical",
  "keyInsights": [3-5 bullet points],
  "recommendations": [3-5 actionable recommendations],
  "summary": "2-3 sentence executive summary",
  "criticalIssues": [list of critical issues, if any],
  "successFactors": [list of positive aspects, if any]
}

Consider:
- Health status trend (improving/declining)
- Critical issues and blockers
- Resource adequacy
- Client satisfaction
- Revenue/budget impact
- Timeline risks
- Quality concerns
`)
	return b.String()
}
