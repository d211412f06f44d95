// Package insights produces a ProjectSummary for each weekly report, asking a
// language model first and falling back to a summary built from the report
// itself whenever the model cannot answer usefully.
package insights

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"portfolio-pulse/internal/llm"
	"portfolio-pulse/internal/rag"
	"portfolio-pulse/internal/spreadsheet"
)

// DefaultSummaryText is used when a model reply carries no usable summary.
const DefaultSummaryText = "Analysis completed"

// ProjectSummary is the assessment of one project for one report.
type ProjectSummary struct {
	ProjectName     string        `json:"projectName"`
	OverallHealth   rag.Status    `json:"overallHealth"`
	RiskLevel       rag.RiskLevel `json:"riskLevel"`
	KeyInsights     []string      `json:"keyInsights"`
	Recommendations []string      `json:"recommendations"`
	Summary         string        `json:"summary"`
	CriticalIssues  []string      `json:"criticalIssues"`
	SuccessFactors  []string      `json:"successFactors"`
}

// ErrNoJSON is returned when a reply contains no JSON object.
var ErrNoJSON = errors.New("no JSON object in model reply")

// ParseSummary reads a model reply. Prose around the first JSON object is
// ignored, and every field that is missing or of the wrong shape takes its
// default: Amber health, Medium risk, empty lists, DefaultSummaryText.
// Only a reply without a decodable object is an error.
func ParseSummary(raw, projectName string) (ProjectSummary, error) {
	obj, ok := llm.ExtractJSONObject(raw)
	if !ok {
		return ProjectSummary{}, ErrNoJSON
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(obj), &fields); err != nil {
		return ProjectSummary{}, fmt.Errorf("decode model reply: %w", err)
	}

	out := ProjectSummary{
		ProjectName:     projectName,
		OverallHealth:   rag.Amber,
		RiskLevel:       rag.RiskMedium,
		KeyInsights:     stringList(fields["keyInsights"]),
		Recommendations: stringList(fields["recommendations"]),
		Summary:         DefaultSummaryText,
		CriticalIssues:  stringList(fields["criticalIssues"]),
		SuccessFactors:  stringList(fields["successFactors"]),
	}
	if s, ok := stringField(fields["overallHealth"]); ok {
		if st, ok := rag.ParseStatus(s); ok {
			out.OverallHealth = st
		}
	}
	if s, ok := stringField(fields["riskLevel"]); ok {
		if rl, ok := rag.ParseRiskLevel(s); ok {
			out.RiskLevel = rl
		}
	}
	if s, ok := stringField(fields["summary"]); ok && strings.TrimSpace(s) != "" {
		out.Summary = s
	}
	return out, nil
}

func stringField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// stringList keeps the string elements of a JSON array; anything else is empty.
func stringList(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

// Fallback builds a summary from the report's own fields.
func Fallback(r spreadsheet.Report) ProjectSummary {
	health := r.HealthCurrentWeek
	if !health.Valid() {
		health = rag.Normalize(string(health))
	}
	resourcing := r.ResourcingStatus
	if strings.TrimSpace(resourcing) == "" {
		resourcing = "Not specified"
	}
	escalation := r.ClientEscalation
	if strings.TrimSpace(escalation) == "" {
		escalation = spreadsheet.NoEscalation
	}
	critical := []string{}
	if strings.TrimSpace(r.IssuesChallenges) != "" {
		critical = append(critical, r.IssuesChallenges)
	}
	return ProjectSummary{
		ProjectName:   r.ProjectName,
		OverallHealth: health,
		RiskLevel:     rag.RiskFor(health),
		KeyInsights: []string{
			"Project health: " + string(health),
			"Resource status: " + resourcing,
			"Client escalation: " + escalation,
		},
		Recommendations: []string{
			"Review current status and adjust plans accordingly",
			"Monitor key risk factors closely",
			"Ensure adequate resource allocation",
		},
		Summary:        fmt.Sprintf("%s is currently %s status with focus needed on addressing current challenges.", r.ProjectName, health),
		CriticalIssues: critical,
		SuccessFactors: []string{},
	}
}
