package respond

import (
	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/shared/telemetry"
)

// ErrorBody is the error object every endpoint returns on failure.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps ErrorBody as {"error": {...}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// context keys set by the middleware and handlers; read here for logging only.
var logKeys = map[string]string{
	"requestId": "request_id",
	"userId":    "user_id",
	"userRole":  "role",
	"projectId": "project_id",
	"jobId":     "job_id",
}

// Error logs the failure and aborts with the envelope. 5xx log at error
// level, everything else at warn.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":  status,
		"code":    code,
		"message": message,
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
	}
	for key, field := range logKeys {
		if v := c.GetString(key); v != "" {
			fields[field] = v
		}
	}
	if status >= 500 {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}
