package portfolio

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/shared/server/middleware"
	"portfolio-pulse/internal/shared/server/respond"
)

// AnalysisHandler exposes portfolio analyses over HTTP.
type AnalysisHandler struct {
	Svc         *AnalysisService
	RunnerRoles []string
}

func NewAnalysisHandler(svc *AnalysisService, runnerRoles ...string) *AnalysisHandler {
	return &AnalysisHandler{Svc: svc, RunnerRoles: runnerRoles}
}

func (h *AnalysisHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/portfolio-analysis", h.latest)
	rg.GET("/portfolio-analysis/history", h.history)
	rg.POST("/portfolio-analysis/run", middleware.RequireRole(h.RunnerRoles...), h.run)
}

func (h *AnalysisHandler) latest(c *gin.Context) {
	view, err := h.Svc.Latest(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNoAnalysis) {
			respond.OK(c, nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch portfolio analysis", nil)
		return
	}
	respond.OK(c, view)
}

func (h *AnalysisHandler) history(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 100 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be between 1 and 100", nil)
			return
		}
		limit = n
	}
	list, err := h.Svc.History(c.Request.Context(), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch portfolio analysis history", nil)
		return
	}
	respond.OK(c, list)
}

func (h *AnalysisHandler) run(c *gin.Context) {
	a, err := h.Svc.Run(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to run portfolio analysis", nil)
		return
	}
	respond.Created(c, a.View())
}
