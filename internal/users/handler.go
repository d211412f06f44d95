package users

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
	rg.GET("/users/me", h.me)
	rg.GET("/users", middleware.RequireRole(RoleAdmin, RoleDeliveryManager), h.directory)
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
	case err != nil:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch user", nil)
	default:
		respond.OK(c, user)
	}
}

// directory serves GET /users, filtered by ?role= when given.
func (h *Handler) directory(c *gin.Context) {
	role := c.Query("role")
	if role != "" && !ValidRole(role) {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown role", map[string]any{"role": role})
		return
	}
	list, err := h.Svc.Directory(c.Request.Context(), role)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch users", nil)
		return
	}
	if list == nil {
		list = []User{}
	}
	respond.OK(c, list)
}
