package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/shared/server/middleware"
)

func TestSeedIsIdempotent(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := svc.Seed(ctx); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}
	list, err := svc.Directory(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != len(SeedUsers()) {
		t.Fatalf("expected %d users, got %d", len(SeedUsers()), len(list))
	}
	role, ok := svc.RoleOf(ctx, IDFor(AdminUsername))
	if !ok || role != RoleAdmin {
		t.Fatalf("expected admin role, got %q ok=%v", role, ok)
	}
	if _, ok := svc.RoleOf(ctx, "nobody"); ok {
		t.Fatalf("expected unknown user to be rejected")
	}
}

func TestIDForIsStable(t *testing.T) {
	if IDFor("sarah.chen") != IDFor("sarah.chen") {
		t.Fatalf("expected stable id")
	}
	if IDFor("sarah.chen") == IDFor("lisa.park") {
		t.Fatalf("expected distinct ids")
	}
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := NewService(NewMemoryRepo())
	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.Auth(middleware.AuthConfig{Lookup: svc.RoleOf}))
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func TestHandlerMe(t *testing.T) {
	router := setupRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("X-User-Id", IDFor("david.miller"))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.Role != RoleDeliveryManager || user.Name != "David Miller" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestHandlerListRequiresManagerRole(t *testing.T) {
	router := setupRouter(t)
	cases := []struct {
		username string
		want     int
	}{
		{username: AdminUsername, want: http.StatusOK},
		{username: "sarah.chen", want: http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("X-User-Id", IDFor(tc.username))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.username, tc.want, resp.Code)
		}
	}
}

func TestDirectoryFiltersByRole(t *testing.T) {
	router := setupRouter(t)
	cases := []struct {
		query string
		code  int
		count int
	}{
		{query: "", code: http.StatusOK, count: len(SeedUsers())},
		{query: "?role=project_manager", code: http.StatusOK, count: 3},
		{query: "?role=delivery_manager", code: http.StatusOK, count: 1},
		{query: "?role=janitor", code: http.StatusBadRequest},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/users"+tc.query, nil)
		req.Header.Set("X-User-Id", IDFor(AdminUsername))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.code {
			t.Fatalf("%q: expected %d, got %d", tc.query, tc.code, resp.Code)
		}
		if tc.code != http.StatusOK {
			continue
		}
		var list []User
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(list) != tc.count {
			t.Fatalf("%q: expected %d users, got %d", tc.query, tc.count, len(list))
		}
	}
}

func TestMemoryRepoUsernameIsCaseInsensitive(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	u := User{ID: IDFor("lisa.park"), Username: "Lisa.Park", Role: RoleProjectManager}
	if err := repo.Upsert(ctx, u); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := repo.GetByUsername(ctx, " lisa.park ")
	if err != nil || got.ID != u.ID {
		t.Fatalf("expected lookup by username, got %+v %v", got, err)
	}

	u.Username = "lisa.p"
	if err := repo.Upsert(ctx, u); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := repo.GetByUsername(ctx, "lisa.park"); err != ErrNotFound {
		t.Fatalf("expected old username to be gone, got %v", err)
	}
	list, _ := repo.List(ctx)
	if len(list) != 1 || list[0].Username != "lisa.p" {
		t.Fatalf("unexpected directory: %+v", list)
	}
}
