package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		reqID := RequestIDFromContext(c)

		fields := map[string]any{
			"request_id":  reqID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"role":        RoleFromContext(c),
			"client_ip":   c.ClientIP(),
		}
		if projectID := c.GetString("projectId"); projectID != "" {
			fields["project_id"] = projectID
		}
		if jobID := c.GetString("jobId"); jobID != "" {
			fields["job_id"] = jobID
		}
		if status >= 500 {
			telemetry.Error("request.complete", fields)
			return
		}
		telemetry.Info("request.complete", fields)
	}
}
