package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/portfolio"
	"portfolio-pulse/internal/projects"
	"portfolio-pulse/internal/reports"
)

var today = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

type seeded struct {
	svc      *Service
	projects *projects.Service
	reports  *reports.Service
	clock    *time.Time
}

func seed(t *testing.T) seeded {
	t.Helper()
	ctx := context.Background()
	clock := today.AddDate(0, 0, -30)
	now := func() time.Time { return clock }

	ps := projects.NewService(projects.NewMemoryRepo())
	ps.Now = now
	rs := reports.NewService(reports.NewMemoryRepo(), nil)
	rs.Now = now

	mk := func(name, rag, tower string) projects.Project {
		clock = clock.Add(time.Second)
		p, err := ps.Create(ctx, projects.CreateInput{Name: name, RAGStatus: rag, Tower: tower})
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		return p
	}
	atlas := mk("Atlas", "green", "Payments")
	borealis := mk("Borealis", "amber", "Payments")
	cygnus := mk("Cygnus", "red", "Cards")
	mk("Dorado", "green", "Cards")

	file := func(p projects.Project, health, escalation string, at time.Time) {
		clock = at
		if _, err := rs.Create(ctx, reports.CreateInput{ProjectID: p.ID, HealthCurrentWeek: health, ClientEscalation: escalation}); err != nil {
			t.Fatalf("report: %v", err)
		}
	}
	file(atlas, "red", "", today.AddDate(0, 0, -14))
	file(atlas, "green", "", today.Add(-time.Hour))
	file(borealis, "amber", "", today.AddDate(0, 0, -7))
	file(cygnus, "red", "Steering committee", today.Add(-2*time.Hour))
	clock = today

	return seeded{svc: &Service{Projects: ps, Reports: rs, Now: now}, projects: ps, reports: rs, clock: &clock}
}

func TestStatsUseLatestReport(t *testing.T) {
	s := seed(t)
	stats, err := s.svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := portfolio.Stats{GreenProjects: 1, AmberProjects: 1, RedProjects: 1, Escalations: 1, TotalProjects: 3}
	if stats != want {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestTowers(t *testing.T) {
	s := seed(t)
	towers, err := s.svc.Towers(context.Background())
	if err != nil {
		t.Fatalf("towers: %v", err)
	}
	if len(towers) != 2 {
		t.Fatalf("expected 2 towers, got %+v", towers)
	}
	pay := towers[0]
	if pay.Name != "Payments" || pay.Green != 1 || pay.Amber != 1 || pay.GreenPercentage != 50 {
		t.Fatalf("unexpected payments tower: %+v", pay)
	}
	cards := towers[1]
	if cards.TotalProjects != 2 || cards.Red != 1 || cards.RedPercentage != 100 {
		t.Fatalf("unexpected cards tower: %+v", cards)
	}
}

func TestTrendsColourByProjectStatus(t *testing.T) {
	s := seed(t)
	points, err := s.svc.Trends(context.Background(), 3)
	if err != nil {
		t.Fatalf("trends: %v", err)
	}
	if len(points) != 3 || points[0].Label != "W1" || points[2].Label != "W3" {
		t.Fatalf("unexpected points: %+v", points)
	}
	// Atlas's red report two weeks ago is counted as Green, its project status.
	if points[0].Green != 1 || points[0].Red != 0 {
		t.Fatalf("unexpected oldest bucket: %+v", points[0])
	}
	if points[1].Amber != 1 {
		t.Fatalf("unexpected middle bucket: %+v", points[1])
	}
}

func TestTrendsDefaultsAndCaps(t *testing.T) {
	s := seed(t)
	for weeks, want := range map[int]int{0: DefaultTrendWeeks, 80: MaxTrendWeeks} {
		points, err := s.svc.Trends(context.Background(), weeks)
		if err != nil {
			t.Fatalf("trends: %v", err)
		}
		if len(points) != want {
			t.Fatalf("weeks=%d: expected %d points, got %d", weeks, want, len(points))
		}
	}
}

func TestHandlerTrendsValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := seed(t)
	router := gin.New()
	NewHandler(s.svc).RegisterRoutes(router.Group("/api"))

	cases := map[string]int{
		"/api/dashboard/trends":          http.StatusOK,
		"/api/dashboard/trends?weeks=8":  http.StatusOK,
		"/api/dashboard/trends?weeks=0":  http.StatusBadRequest,
		"/api/dashboard/trends?weeks=x":  http.StatusBadRequest,
		"/api/dashboard/trends?weeks=53": http.StatusBadRequest,
		"/api/dashboard/stats":           http.StatusOK,
		"/api/dashboard/towers":          http.StatusOK,
	}
	for path, want := range cases {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != want {
			t.Fatalf("%s: expected %d, got %d", path, want, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/dashboard/trends?weeks=8", nil))
	var points []portfolio.TrendPoint
	if err := json.Unmarshal(resp.Body.Bytes(), &points); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(points) != 8 {
		t.Fatalf("expected 8 points, got %d", len(points))
	}
}
