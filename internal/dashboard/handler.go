package dashboard

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard/stats", h.stats)
	rg.GET("/dashboard/trends", h.trends)
	rg.GET("/dashboard/towers", h.towers)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch dashboard stats", nil)
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) trends(c *gin.Context) {
	weeks := DefaultTrendWeeks
	if raw := c.Query("weeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > MaxTrendWeeks {
			respond.Error(c, http.StatusBadRequest, "validation_error", "weeks must be between 1 and 52", nil)
			return
		}
		weeks = n
	}
	points, err := h.Svc.Trends(c.Request.Context(), weeks)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch trends", nil)
		return
	}
	respond.OK(c, points)
}

func (h *Handler) towers(c *gin.Context) {
	towers, err := h.Svc.Towers(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to fetch tower performance", nil)
		return
	}
	respond.OK(c, towers)
}
