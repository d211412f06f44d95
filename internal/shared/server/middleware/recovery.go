package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/shared/server/respond"
	"portfolio-pulse/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 envelope. Handlers that tag the
// context with a projectId or jobId get those IDs in the panic log.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"method":     c.Request.Method,
				"path":       c.FullPath(),
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
			}
			for _, key := range []string{"projectId", "jobId"} {
				if v := c.GetString(key); v != "" {
					fields[key] = v
				}
			}
			telemetry.Error("http.panic", fields)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
