package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCORS(t *testing.T) {
	const dashboard = "http://localhost:5173"
	cases := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantCode    int
		wantOrigin  string
		wantCreds   string
		wantHeaders bool
	}{
		{name: "preflight", allowed: []string{dashboard}, method: http.MethodOptions, origin: dashboard,
			wantCode: http.StatusNoContent, wantOrigin: dashboard, wantCreds: "true", wantHeaders: true},
		{name: "simple post", allowed: []string{dashboard}, method: http.MethodPost, origin: dashboard,
			wantCode: http.StatusOK, wantOrigin: dashboard, wantCreds: "true", wantHeaders: true},
		{name: "unknown origin", allowed: []string{dashboard}, method: http.MethodPost, origin: "http://evil.example",
			wantCode: http.StatusOK},
		{name: "unknown origin preflight", allowed: []string{dashboard}, method: http.MethodOptions, origin: "http://evil.example",
			wantCode: http.StatusNoContent},
		{name: "wildcard", allowed: []string{"*"}, method: http.MethodPost, origin: "http://anywhere.example",
			wantCode: http.StatusOK, wantOrigin: "*", wantHeaders: true},
		{name: "configured with trailing slash", allowed: []string{" " + dashboard + "/ "}, method: http.MethodPost, origin: dashboard,
			wantCode: http.StatusOK, wantOrigin: dashboard, wantCreds: "true", wantHeaders: true},
		{name: "no origin header", allowed: []string{dashboard}, method: http.MethodPost,
			wantCode: http.StatusOK},
	}

	gin.SetMode(gin.TestMode)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tc.allowed))
			router.POST("/api/excel/parse", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tc.method, "/api/excel/parse", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			h := resp.Header()
			if resp.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", resp.Code, tc.wantCode)
			}
			if got := h.Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("Allow-Origin = %q, want %q", got, tc.wantOrigin)
			}
			if got := h.Get("Access-Control-Allow-Credentials"); got != tc.wantCreds {
				t.Fatalf("Allow-Credentials = %q, want %q", got, tc.wantCreds)
			}
			hasHeaders := h.Get("Access-Control-Allow-Methods") != "" && h.Get("Access-Control-Max-Age") == corsMaxAge
			if hasHeaders != tc.wantHeaders {
				t.Fatalf("CORS method/max-age headers present = %v, want %v", hasHeaders, tc.wantHeaders)
			}
		})
	}
}
