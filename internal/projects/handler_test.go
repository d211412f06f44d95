package projects

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/shared/server/middleware"
)

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := fixedService()
	roles := map[string]string{
		"admin-1": "admin",
		"pm-1":    "project_manager",
	}
	lookup := func(_ context.Context, id string) (string, bool) {
		role, ok := roles[id]
		return role, ok
	}
	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.Auth(middleware.AuthConfig{Lookup: lookup}))
	NewHandler(svc, "admin", "delivery_manager").RegisterRoutes(api)
	return r, svc
}

func doJSON(t *testing.T, r *gin.Engine, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Id", userID)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestCreateProjectRequiresEditorRole(t *testing.T) {
	router, _ := setupRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/projects", "pm-1", map[string]any{"name": "Atlas"})
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}

	resp = doJSON(t, router, http.MethodPost, "/api/projects", "admin-1", map[string]any{"name": "Atlas", "ragStatus": "Red"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var p Project
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.ID == "" || p.RAGStatus != "Red" {
		t.Fatalf("unexpected project: %+v", p)
	}

	resp = doJSON(t, router, http.MethodGet, "/api/projects/"+p.ID, "pm-1", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	router, _ := setupRouter(t)
	resp := doJSON(t, router, http.MethodPost, "/api/projects", "admin-1", map[string]any{"name": ""})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	router, _ := setupRouter(t)
	resp := doJSON(t, router, http.MethodGet, "/api/projects/nope", "admin-1", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != "not_found" {
		t.Fatalf("unexpected error code: %s", payload.Error.Code)
	}
}

func TestListProjectsForManager(t *testing.T) {
	router, svc := setupRouter(t)
	ctx := context.Background()
	if _, err := svc.Create(ctx, CreateInput{Name: "Mine", ProjectManagerID: "pm-1"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{Name: "Theirs", ProjectManagerID: "pm-2"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	resp := doJSON(t, router, http.MethodGet, "/api/projects", "pm-1", nil)
	var list []Project
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Mine" {
		t.Fatalf("unexpected list: %+v", list)
	}
}
