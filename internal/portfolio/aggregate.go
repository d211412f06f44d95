package portfolio

import (
	"portfolio-pulse/internal/insights"
	"portfolio-pulse/internal/rag"
)

// MaxKeyRecommendations caps Summary.KeyRecommendations.
const MaxKeyRecommendations = 5

// Summary rolls up every project summary of one ingestion batch.
type Summary struct {
	OverallHealth      rag.Status            `json:"overallHealth"`
	TotalProjects      int                   `json:"totalProjects"`
	RiskDistribution   map[rag.RiskLevel]int `json:"riskDistribution"`
	KeyRecommendations []string              `json:"keyRecommendations"`
	CriticalAlerts     []string              `json:"criticalAlerts"`
}

// OverallHealth applies the portfolio rule: any Red makes the portfolio Red;
// otherwise Amber on a strict Amber majority; otherwise Green.
func OverallHealth(statuses []rag.Status) rag.Status {
	amber := 0
	for _, s := range statuses {
		switch s {
		case rag.Red:
			return rag.Red
		case rag.Amber:
			amber++
		}
	}
	if amber*2 > len(statuses) {
		return rag.Amber
	}
	return rag.Green
}

// Summarize folds project summaries into one portfolio Summary.
// riskDistribution only carries levels that occur.
func Summarize(summaries []insights.ProjectSummary) Summary {
	out := Summary{
		TotalProjects:      len(summaries),
		RiskDistribution:   make(map[rag.RiskLevel]int),
		KeyRecommendations: []string{},
		CriticalAlerts:     []string{},
	}

	statuses := make([]rag.Status, 0, len(summaries))
	seen := make(map[string]bool)
	for _, s := range summaries {
		statuses = append(statuses, s.OverallHealth)
		out.RiskDistribution[s.RiskLevel]++

		if s.OverallHealth == rag.Red || s.RiskLevel == rag.RiskCritical {
			out.CriticalAlerts = append(out.CriticalAlerts, s.ProjectName+": "+s.Summary)
		}
		for _, rec := range s.Recommendations {
			if seen[rec] || len(out.KeyRecommendations) >= MaxKeyRecommendations {
				continue
			}
			seen[rec] = true
			out.KeyRecommendations = append(out.KeyRecommendations, rec)
		}
	}
	out.OverallHealth = OverallHealth(statuses)
	return out
}
