package ingest

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/queue"
	"portfolio-pulse/internal/shared/server/middleware"
	"portfolio-pulse/internal/shared/server/respond"
	"portfolio-pulse/internal/shared/telemetry"
)

const maxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Svc *Service
	// Jobs receives async batch requests; nil disables ?async=true.
	Jobs queue.Client
	Now  func() time.Time
}

func NewHandler(svc *Service, jobs queue.Client) *Handler {
	return &Handler{Svc: svc, Jobs: jobs, Now: time.Now}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/excel/parse", h.parse)
	rg.POST("/excel/upload", h.upload)
	rg.GET("/excel/summaries", h.summaries)
	rg.POST("/excel/analyze-project/:projectId", h.analyzeProject)
}

func (h *Handler) parse(c *gin.Context) {
	if c.Query("async") == "true" {
		h.enqueue(c)
		return
	}
	resp, err := h.Svc.RunBatch(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNoSourceFiles) {
			respond.Error(c, http.StatusNotFound, "not_found", "No Excel files found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to process Excel files", nil)
		return
	}
	respond.OK(c, resp)
}

func (h *Handler) enqueue(c *gin.Context) {
	if h.Jobs == nil {
		respond.Error(c, http.StatusServiceUnavailable, "queue_unavailable", "Async ingestion is not configured", nil)
		return
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	msg := queue.NewJob(middleware.RequestIDFromContext(c), now())
	c.Set("jobId", msg.JobID)
	if err := h.Jobs.Send(c.Request.Context(), msg); err != nil {
		telemetry.Error("ingest.enqueue.failed", map[string]any{"job_id": msg.JobID, "err": err.Error()})
		respond.Error(c, http.StatusBadGateway, "queue_error", "Failed to enqueue ingestion job", nil)
		return
	}
	respond.Accepted(c, gin.H{"jobId": msg.JobID, "status": "queued"})
}

func (h *Handler) upload(c *gin.Context) {
	tooLarge := func() {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "Spreadsheet exceeds the upload limit", map[string]any{"limitBytes": maxUploadSize})
	}
	if c.Request.ContentLength > maxUploadSize {
		tooLarge()
		return
	}
	// Chunked bodies carry no length; the reader enforces the cap instead.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			tooLarge()
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	key, size, err := h.Svc.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFile) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Only .xlsx and .csv files are accepted", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to store spreadsheet", nil)
		return
	}
	respond.Created(c, gin.H{"key": key, "sizeBytes": size})
}

func (h *Handler) summaries(c *gin.Context) {
	list, err := h.Svc.Summaries(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch summaries", nil)
		return
	}
	respond.OK(c, gin.H{"summaries": list})
}

func (h *Handler) analyzeProject(c *gin.Context) {
	projectID := c.Param("projectId")
	c.Set("projectId", projectID)
	out, err := h.Svc.AnalyzeProject(c.Request.Context(), projectID)
	if err != nil {
		switch {
		case errors.Is(err, ErrProjectNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Project not found", nil)
		case errors.Is(err, ErrNoReports):
			respond.Error(c, http.StatusNotFound, "not_found", "No reports found for this project", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to analyze project", nil)
		}
		return
	}
	respond.OK(c, out)
}
