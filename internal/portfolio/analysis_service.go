package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"portfolio-pulse/internal/llm"
	"portfolio-pulse/internal/rag"
	"portfolio-pulse/internal/shared/telemetry"
)

// ClientResolver hands out the active llm client and the ID of its stored
// configuration.
type ClientResolver interface {
	Resolve(ctx context.Context) (llm.Client, string, error)
}

const (
	maxCriticalSamples = 3
	analysisMaxTokens  = 800
	analysisSystem     = "You are a delivery portfolio analyst. Assess the overall RAG status of a project portfolio from weekly status data and respond in JSON."
)

// AnalysisService runs and serves portfolio-wide analyses.
type AnalysisService struct {
	Repo     AnalysisRepo
	Projects ProjectLister
	Reports  ReportIndex
	Clients  ClientResolver
	Limiter  *rate.Limiter
	Timeout  time.Duration
	Now      func() time.Time
}

func (s *AnalysisService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// Run analyses every project's latest report and stores the result. The
// overall status always follows OverallHealth; the model only writes the
// reason, and a deterministic reason is used when it cannot.
func (s *AnalysisService) Run(ctx context.Context) (Analysis, error) {
	states, err := Collect(ctx, s.Projects, s.Reports)
	if err != nil {
		return Analysis{}, fmt.Errorf("collect projects: %w", err)
	}
	evidence, statuses := gatherEvidence(states)
	a := Analysis{
		ID:               uuid.NewString(),
		AnalysisDate:     s.now(),
		OverallRAG:       OverallHealth(statuses),
		ProjectsAnalyzed: evidence,
		ColumnsUsed:      append([]string(nil), ColumnsUsed...),
		Source:           "fallback",
	}

	reason, configID, err := s.askModel(ctx, states, a.OverallRAG)
	a.LLMConfigID = configID
	if err != nil {
		telemetry.Warn("portfolio.analysis.fallback", map[string]any{"error": err.Error()})
		a.Reason = FallbackReason(evidence.Summary)
	} else {
		a.Reason = reason
		a.Source = "ai"
	}

	if err := s.Repo.Create(ctx, a); err != nil {
		return Analysis{}, fmt.Errorf("store analysis: %w", err)
	}
	telemetry.Info("portfolio.analysis.stored", map[string]any{
		"analysis_id": a.ID,
		"overall":     string(a.OverallRAG),
		"source":      a.Source,
		"projects":    evidence.Summary.TotalProjectsAnalyzed,
	})
	return a, nil
}

// Latest returns the newest analysis with its narrative fields.
func (s *AnalysisService) Latest(ctx context.Context) (AnalysisView, error) {
	a, err := s.Repo.Latest(ctx)
	if err != nil {
		return AnalysisView{}, err
	}
	return a.View(), nil
}

// History returns up to limit analyses, newest first.
func (s *AnalysisService) History(ctx context.Context, limit int) ([]Analysis, error) {
	list, err := s.Repo.History(ctx, limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Analysis{}
	}
	return list, nil
}

func gatherEvidence(states []ProjectState) (ProjectsAnalyzed, []rag.Status) {
	out := ProjectsAnalyzed{SampleCriticalProjects: []CriticalProject{}}
	var statuses []rag.Status
	for _, st := range states {
		if !st.Project.IsActive {
			continue
		}
		out.Summary.TotalProjectsAnalyzed++
		if st.Latest == nil {
			out.Summary.NoRecentReports++
			continue
		}
		r := st.Latest
		statuses = append(statuses, r.HealthCurrentWeek)
		switch r.HealthCurrentWeek {
		case rag.Red:
			out.Summary.RedProjects++
		case rag.Amber:
			out.Summary.AmberProjects++
		default:
			out.Summary.GreenProjects++
		}
		if r.HealthCurrentWeek != rag.Red || len(out.SampleCriticalProjects) >= maxCriticalSamples {
			continue
		}
		status := r.AIStatus
		if status == "" {
			status = string(r.HealthCurrentWeek)
		}
		desc := r.AIAssessment
		if desc == "" {
			desc = r.IssuesChallenges
		}
		out.SampleCriticalProjects = append(out.SampleCriticalProjects, CriticalProject{
			ProjectName:             st.Project.Name,
			AIStatus:                status,
			AIAssessmentDescription: desc,
			EscalationRequired:      escalated(r.ClientEscalation) || st.Project.ClientEscalation,
		})
	}
	return out, statuses
}

// FallbackReason writes the deterministic reason used without a model.
func FallbackReason(c AnalyzedCounts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio analysis of %d active projects. %d projects are Green, %d projects are Amber and %d projects are Red.",
		c.TotalProjectsAnalyzed, c.GreenProjects, c.AmberProjects, c.RedProjects)
	if c.NoRecentReports > 0 {
		fmt.Fprintf(&b, " %d projects lack recent status reports.", c.NoRecentReports)
	}
	switch {
	case c.RedProjects > 0:
		b.WriteString(" Recommend focused attention on Red status projects and escalation management.")
	case c.AmberProjects > 0:
		b.WriteString(" Recommend close monitoring of Amber projects and their paths to green.")
	default:
		b.WriteString(" Recommend maintaining the current delivery cadence.")
	}
	return b.String()
}

func (s *AnalysisService) askModel(ctx context.Context, states []ProjectState, overall rag.Status) (string, string, error) {
	if s.Clients == nil {
		return "", "", llm.ErrNotConfigured
	}
	client, configID, err := s.Clients.Resolve(ctx)
	if err != nil {
		return "", configID, err
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return "", configID, err
		}
	}
	raw, err := client.Complete(ctx, llm.Request{
		System:      analysisSystem,
		User:        buildAnalysisPrompt(states, overall),
		Temperature: 0.3,
		MaxTokens:   analysisMaxTokens,
		JSON:        true,
	})
	if err != nil {
		return "", configID, err
	}
	obj, ok := llm.ExtractJSONObject(raw)
	if !ok {
		return "", configID, fmt.Errorf("no JSON object in model reply")
	}
	var reply struct {
		OverallRag string `json:"overallRag"`
		Reason     string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(obj), &reply); err != nil {
		return "", configID, fmt.Errorf("decode model reply: %w", err)
	}
	reason := strings.TrimSpace(reply.Reason)
	if reason == "" {
		return "", configID, fmt.Errorf("model reply has no reason")
	}
	return reason, configID, nil
}

func buildAnalysisPrompt(states []ProjectState, overall rag.Status) string {
	var b strings.Builder
	b.WriteString("Analyze the following project portfolio.\n")
	fmt.Fprintf(&b, "Computed overall status: %s\n\n", overall)
	for _, st := range states {
		if !st.Project.IsActive {
			continue
		}
		if st.Latest == nil {
			fmt.Fprintf(&b, "- %s: no recent status report\n", st.Project.Name)
			continue
		}
		r := st.Latest
		fmt.Fprintf(&b, "- %s (week %d): %s → %s; escalation: %s; issues: %s\n",
			st.Project.Name, r.WeekNumber, r.HealthPreviousWeek, r.HealthCurrentWeek,
			orNone(r.ClientEscalation), orNone(r.IssuesChallenges))
	}
	b.WriteString(`
Respond with a JSON object: {"overallRag": "Red|Amber|Green", "reason": "..."}.
In the reason, state counts as "N projects are Green", "N projects are Amber", "N projects are Red", name the key risk areas, and end with a sentence starting "Recommend".`)
	return b.String()
}

func orNone(v string) string {
	if strings.TrimSpace(v) == "" {
		return "None"
	}
	return v
}
