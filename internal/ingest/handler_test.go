package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/queue"
)

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return router
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return payload.Error.Code + ": " + payload.Error.Message
}

func TestParseReturns404WithoutFiles(t *testing.T) {
	f := newFixture(t)
	router := newRouter(NewHandler(f.svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/excel/parse", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if got := errorCode(t, resp.Body.Bytes()); got != "not_found: No Excel files found" {
		t.Fatalf("unexpected error: %s", got)
	}
}

func TestParseReturnsBatchResponse(t *testing.T) {
	f := newFixture(t)
	f.write(t, "a.csv", alphaSheet)
	router := newRouter(NewHandler(f.svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/excel/parse", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []string{"message", "projectsProcessed", "portfolioSummary", "projectSummaries", "rawData"}
	if len(payload) != len(want) {
		t.Fatalf("expected exactly %d fields, got %d", len(want), len(payload))
	}
	for _, key := range want {
		if _, ok := payload[key]; !ok {
			t.Fatalf("missing field %s", key)
		}
	}
}

func TestParseAsync(t *testing.T) {
	f := newFixture(t)

	resp := httptest.NewRecorder()
	newRouter(NewHandler(f.svc, nil)).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/excel/parse?async=true", nil))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without queue, got %d", resp.Code)
	}

	jobs := &queue.Recorder{}
	resp = httptest.NewRecorder()
	newRouter(NewHandler(f.svc, jobs)).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/excel/parse?async=true", nil))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}
	var body struct {
		JobID  string `json:"jobId"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(jobs.Sent) != 1 || jobs.Sent[0].JobID != body.JobID || body.Status != "queued" {
		t.Fatalf("unexpected enqueue: %+v %+v", jobs.Sent, body)
	}

	resp = httptest.NewRecorder()
	newRouter(NewHandler(f.svc, &queue.Recorder{Err: errors.New("down")})).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/excel/parse?async=true", nil))
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func multipartBody(t *testing.T, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	f := newFixture(t)
	router := newRouter(NewHandler(f.svc, nil))

	cases := []struct {
		name string
		file string
		want int
	}{
		{name: "csv", file: "week.csv", want: http.StatusCreated},
		{name: "pdf", file: "week.pdf", want: http.StatusBadRequest},
		{name: "legacy xls", file: "week.xls", want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tc.file, gammaSheet)
			req := httptest.NewRequest(http.MethodPost, "/api/excel/upload", body)
			req.Header.Set("Content-Type", contentType)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d: %s", tc.want, resp.Code, resp.Body.String())
			}
		})
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/excel/upload", nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", resp.Code)
	}
}

func TestSummariesHandler(t *testing.T) {
	f := newFixture(t)
	router := newRouter(NewHandler(f.svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/excel/summaries", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Body.String() != `{"summaries":[]}` {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
}

func TestAnalyzeProjectHandlerNotFound(t *testing.T) {
	f := newFixture(t)
	router := newRouter(NewHandler(f.svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/excel/analyze-project/nope", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if got := errorCode(t, resp.Body.Bytes()); got != "not_found: Project not found" {
		t.Fatalf("unexpected error: %s", got)
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	f := newFixture(t)
	router := newRouter(NewHandler(f.svc, nil))

	body, contentType := multipartBody(t, "huge.csv", strings.Repeat("x", maxUploadSize+1))
	req := httptest.NewRequest(http.MethodPost, "/api/excel/upload", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.Code)
	}
	if got := errorCode(t, resp.Body.Bytes()); !strings.HasPrefix(got, "file_too_large") {
		t.Fatalf("unexpected error: %s", got)
	}
}

func TestUploadRejectsOversizedChunkedBody(t *testing.T) {
	f := newFixture(t)
	router := newRouter(NewHandler(f.svc, nil))

	body, contentType := multipartBody(t, "huge.csv", strings.Repeat("x", maxUploadSize+1))
	req := httptest.NewRequest(http.MethodPost, "/api/excel/upload", io.NopCloser(body))
	req.ContentLength = -1
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", resp.Code, resp.Body.String())
	}
}
