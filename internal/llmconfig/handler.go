package llmconfig

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/shared/server/middleware"
	"portfolio-pulse/internal/shared/server/respond"
)

type Handler struct {
	Svc   *Service
	Roles []string
}

func NewHandler(svc *Service, roles ...string) *Handler {
	return &Handler{Svc: svc, Roles: roles}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	guard := middleware.RequireRole(h.Roles...)
	rg.GET("/llm-config", guard, h.get)
	rg.POST("/llm-config", guard, h.save)
}

func (h *Handler) get(c *gin.Context) {
	cfg, err := h.Svc.Active(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.OK(c, nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch LLM configuration", nil)
		return
	}
	respond.OK(c, cfg.Masked())
}

func (h *Handler) save(c *gin.Context) {
	var in SaveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid configuration data", nil)
		return
	}
	cfg, err := h.Svc.Save(c.Request.Context(), in, middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to create LLM configuration", nil)
		return
	}
	respond.Created(c, cfg.Masked())
}
