package portfolio

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"portfolio-pulse/internal/llm"
	"portfolio-pulse/internal/projects"
	"portfolio-pulse/internal/rag"
	"portfolio-pulse/internal/reports"
)

type replyClient struct {
	reply string
	err   error
}

func (c replyClient) Complete(context.Context, llm.Request) (string, error) { return c.reply, c.err }
func (c replyClient) Name() string                                          { return "fake:model" }

type staticResolver struct {
	client llm.Client
	id     string
	err    error
}

func (r staticResolver) Resolve(context.Context) (llm.Client, string, error) {
	return r.client, r.id, r.err
}

// seedPortfolio creates three reported projects (Green, Amber, Red) and one without reports.
func seedPortfolio(t *testing.T) (*projects.Service, *reports.Service) {
	t.Helper()
	ctx := context.Background()
	ps := projects.NewService(projects.NewMemoryRepo())
	clock := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	ps.Now = func() time.Time { clock = clock.Add(time.Minute); return clock }
	rs := reports.NewService(reports.NewMemoryRepo(), nil)
	rs.Now = ps.Now

	for _, tc := range []struct {
		name   string
		health rag.Status
		esc    string
	}{
		{"Atlas", rag.Green, "None"},
		{"Borealis", rag.Amber, "None"},
		{"Cygnus", rag.Red, "Steering committee"},
		{"Dorado", "", ""},
	} {
		p, err := ps.Create(ctx, projects.CreateInput{Name: tc.name, Tower: "Tower 1"})
		if err != nil {
			t.Fatalf("create project: %v", err)
		}
		if tc.health == "" {
			continue
		}
		if _, err := rs.UpsertForWeek(ctx, reports.WeeklyReport{
			ProjectID:         p.ID,
			WeekNumber:        10,
			HealthCurrentWeek: tc.health,
			ClientEscalation:  tc.esc,
			IssuesChallenges:  "Vendor API late",
		}); err != nil {
			t.Fatalf("upsert report: %v", err)
		}
	}
	return ps, rs
}

func TestRunFallsBackWithoutModel(t *testing.T) {
	ps, rs := seedPortfolio(t)
	svc := &AnalysisService{
		Repo:     NewMemoryAnalysisRepo(),
		Projects: ps,
		Reports:  rs,
		Clients:  staticResolver{err: llm.ErrNotConfigured},
	}
	a, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if a.OverallRAG != rag.Red || a.Source != "fallback" {
		t.Fatalf("unexpected analysis: %+v", a)
	}
	got := a.ProjectsAnalyzed.Summary
	want := AnalyzedCounts{TotalProjectsAnalyzed: 4, RedProjects: 1, AmberProjects: 1, GreenProjects: 1, NoRecentReports: 1}
	if got != want {
		t.Fatalf("counts = %+v, want %+v", got, want)
	}
	if len(a.ProjectsAnalyzed.SampleCriticalProjects) != 1 {
		t.Fatalf("expected one critical sample")
	}
	crit := a.ProjectsAnalyzed.SampleCriticalProjects[0]
	if crit.ProjectName != "Cygnus" || !crit.EscalationRequired || crit.AIAssessmentDescription != "Vendor API late" {
		t.Fatalf("unexpected critical sample: %+v", crit)
	}

	view, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if view.Metrics.Green != 1 || view.Metrics.Amber != 1 || view.Metrics.Red != 1 {
		t.Fatalf("unexpected metrics: %+v", view.Metrics)
	}
	if !strings.HasPrefix(view.PrimaryRecommendation, "focused attention on Red status projects") {
		t.Fatalf("unexpected recommendation: %q", view.PrimaryRecommendation)
	}
}

func TestRunUsesModelReason(t *testing.T) {
	ps, rs := seedPortfolio(t)
	reply := "Sure. {\"overallRag\": \"Green\", \"reason\": \"1 projects are Red due to legacy system integrations. Recommend a vendor escalation.\"}"
	svc := &AnalysisService{
		Repo:     NewMemoryAnalysisRepo(),
		Projects: ps,
		Reports:  rs,
		Clients:  staticResolver{client: replyClient{reply: reply}, id: "cfg-1"},
	}
	a, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if a.Source != "ai" || a.LLMConfigID != "cfg-1" {
		t.Fatalf("expected ai analysis, got %+v", a)
	}
	if a.OverallRAG != rag.Red {
		t.Fatalf("overall status must follow the portfolio rule, got %s", a.OverallRAG)
	}
	view := a.View()
	if view.PrimaryRecommendation != "a vendor escalation" {
		t.Fatalf("unexpected recommendation: %q", view.PrimaryRecommendation)
	}
	if view.Metrics.Red != 1 || view.Metrics.Total() != 1 {
		t.Fatalf("unexpected metrics: %+v", view.Metrics)
	}
}

func TestRunFallsBackOnBadReply(t *testing.T) {
	ps, rs := seedPortfolio(t)
	for _, c := range []replyClient{
		{reply: "no json here"},
		{reply: `{"overallRag": "Red", "reason": "  "}`},
		{err: errors.New("boom")},
	} {
		svc := &AnalysisService{
			Repo:     NewMemoryAnalysisRepo(),
			Projects: ps,
			Reports:  rs,
			Clients:  staticResolver{client: c},
		}
		a, err := svc.Run(context.Background())
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if a.Source != "fallback" || !strings.Contains(a.Reason, "Recommend") {
			t.Fatalf("expected fallback reason, got %+v", a)
		}
	}
}

func TestFallbackReasonRecommendation(t *testing.T) {
	cases := []struct {
		counts AnalyzedCounts
		want   string
	}{
		{AnalyzedCounts{TotalProjectsAnalyzed: 2, GreenProjects: 2}, "Recommend maintaining"},
		{AnalyzedCounts{TotalProjectsAnalyzed: 2, GreenProjects: 1, AmberProjects: 1}, "Amber projects"},
		{AnalyzedCounts{TotalProjectsAnalyzed: 3, RedProjects: 1, NoRecentReports: 2}, "2 projects lack recent status reports"},
	}
	for _, tc := range cases {
		if got := FallbackReason(tc.counts); !strings.Contains(got, tc.want) {
			t.Fatalf("FallbackReason(%+v) = %q, want substring %q", tc.counts, got, tc.want)
		}
	}
}

func TestLatestWithoutAnalysis(t *testing.T) {
	svc := &AnalysisService{Repo: NewMemoryAnalysisRepo()}
	if _, err := svc.Latest(context.Background()); !errors.Is(err, ErrNoAnalysis) {
		t.Fatalf("expected ErrNoAnalysis, got %v", err)
	}
}

func TestMemoryHistoryNewestFirst(t *testing.T) {
	repo := NewMemoryAnalysisRepo()
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Create(ctx, Analysis{ID: id}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	list, err := repo.History(ctx, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(list) != 2 || list[0].ID != "c" || list[1].ID != "b" {
		t.Fatalf("unexpected history: %+v", list)
	}
}
