package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/shared/server/middleware"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	exists := func(_ context.Context, id string) error {
		if id != "p-1" {
			return errors.New("missing")
		}
		return nil
	}
	svc, _ := newTestService(exists)
	lookup := func(context.Context, string) (string, bool) { return "project_manager", true }
	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.Auth(middleware.AuthConfig{Lookup: lookup}))
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func post(t *testing.T, r *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/weekly-reports", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", "pm-1")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateAndListWeeklyReports(t *testing.T) {
	router := setupRouter(t)

	resp := post(t, router, map[string]any{"projectId": "p-1", "weekNumber": 12, "healthCurrentWeek": "yellow"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var created WeeklyReport
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.HealthCurrentWeek != "Amber" || created.SubmittedBy != "pm-1" {
		t.Fatalf("unexpected report: %+v", created)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/weekly-reports?projectId=p-1", nil)
	req.Header.Set("X-User-Id", "pm-1")
	list := httptest.NewRecorder()
	router.ServeHTTP(list, req)
	var got []WeeklyReport
	if err := json.NewDecoder(list.Body).Decode(&got); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(got) != 1 || got[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestCreateWeeklyReportErrors(t *testing.T) {
	router := setupRouter(t)
	cases := []struct {
		name string
		body map[string]any
		want int
	}{
		{name: "missing health", body: map[string]any{"projectId": "p-1"}, want: http.StatusBadRequest},
		{name: "unknown project", body: map[string]any{"projectId": "p-2", "healthCurrentWeek": "Green"}, want: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if resp := post(t, router, tc.body); resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}
