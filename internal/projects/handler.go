package projects

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/shared/server/middleware"
	"portfolio-pulse/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the projects service.
type Handler struct {
	Svc *Service
	// EditorRoles may create and update projects.
	EditorRoles []string
}

func NewHandler(svc *Service, editorRoles ...string) *Handler {
	return &Handler{Svc: svc, EditorRoles: editorRoles}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	editors := middleware.RequireRole(h.EditorRoles...)
	rg.GET("/projects", h.list)
	rg.GET("/projects/:id", h.get)
	rg.POST("/projects", editors, h.create)
	rg.PUT("/projects/:id", editors, h.update)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context(), Viewer{
		UserID: middleware.UserIDFromContext(c),
		Role:   middleware.RoleFromContext(c),
	})
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch projects", nil)
		return
	}
	respond.OK(c, list)
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set("projectId", id)
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch project")
		return
	}
	respond.OK(c, p)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid project data", []map[string]string{
			{"field": "body", "issue": err.Error()},
		})
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, "Failed to create project")
		return
	}
	c.Set("projectId", p.ID)
	respond.Created(c, p)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	c.Set("projectId", id)
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid project data", []map[string]string{
			{"field": "body", "issue": err.Error()},
		})
		return
	}
	p, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err, "Failed to update project")
		return
	}
	respond.OK(c, p)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Project not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
