package portfolio

import (
	"time"

	"portfolio-pulse/internal/narrative"
	"portfolio-pulse/internal/rag"
)

// Analysis is one stored portfolio-wide assessment.
type Analysis struct {
	ID               string           `json:"id"`
	AnalysisDate     time.Time        `json:"analysisDate"`
	OverallRAG       rag.Status       `json:"overallPortfolioRagStatus"`
	Reason           string           `json:"reason"`
	ProjectsAnalyzed ProjectsAnalyzed `json:"projectsAnalyzed"`
	ColumnsUsed      []string         `json:"columnsUsedForAnalysis"`
	LLMConfigID      string           `json:"llmConfigurationId,omitempty"`
	// Source is "ai" when the reason came from a model, else "fallback".
	Source string `json:"source"`
}

// ProjectsAnalyzed is the structured evidence behind an Analysis.
type ProjectsAnalyzed struct {
	Summary                AnalyzedCounts    `json:"summary"`
	SampleCriticalProjects []CriticalProject `json:"sample_critical_projects"`
}

type AnalyzedCounts struct {
	TotalProjectsAnalyzed int `json:"total_projects_analyzed"`
	RedProjects           int `json:"red_projects"`
	AmberProjects         int `json:"amber_projects"`
	GreenProjects         int `json:"green_projects"`
	NoRecentReports       int `json:"no_recent_reports"`
}

type CriticalProject struct {
	ProjectName             string `json:"project_name"`
	AIStatus                string `json:"ai_status"`
	AIAssessmentDescription string `json:"ai_assessment_description"`
	EscalationRequired      bool   `json:"escalation_required"`
}

// AnalysisView is the API shape of the latest analysis, with fields derived
// from the reason text.
type AnalysisView struct {
	Analysis
	PrimaryRecommendation string            `json:"primaryRecommendation"`
	Metrics               narrative.Metrics `json:"metrics"`
	SummaryText           string            `json:"summaryText"`
	KeyRiskAreas          []string          `json:"keyRiskAreas"`
}

// View derives the narrative fields. When the reason names no counts the
// stored per-colour counts are used instead.
func (a Analysis) View() AnalysisView {
	m := narrative.ExtractMetrics(a.Reason)
	if m.Total() == 0 {
		c := a.ProjectsAnalyzed.Summary
		m = narrative.Metrics{Green: c.GreenProjects, Amber: c.AmberProjects, Red: c.RedProjects}
	}
	return AnalysisView{
		Analysis:              a,
		PrimaryRecommendation: narrative.PrimaryRecommendation(a.Reason),
		Metrics:               m,
		SummaryText:           narrative.SummaryText(m),
		KeyRiskAreas:          narrative.KeyRiskAreas(a.Reason),
	}
}

// ColumnsUsed lists the report columns the analysis reads.
var ColumnsUsed = []string{"RAG Status", "Weekly Updates", "Issues/Challenges", "Client Escalation", "Tower"}
