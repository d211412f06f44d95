package reports

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/shared/server/middleware"
	"portfolio-pulse/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/weekly-reports", h.list)
	rg.POST("/weekly-reports", h.create)
}

func (h *Handler) list(c *gin.Context) {
	projectID := c.Query("projectId")
	if projectID != "" {
		c.Set("projectId", projectID)
	}
	list, err := h.Svc.List(c.Request.Context(), projectID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch weekly reports", nil)
		return
	}
	respond.OK(c, list)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid report data", []map[string]string{
			{"field": "body", "issue": err.Error()},
		})
		return
	}
	in.SubmittedBy = middleware.UserIDFromContext(c)
	c.Set("projectId", in.ProjectID)
	r, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrProjectNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "Project not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to create weekly report", nil)
		}
		return
	}
	respond.Created(c, r)
}
