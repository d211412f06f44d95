package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Headers the dashboard sends and reads across origins.
var (
	corsAllowHeaders  = strings.Join([]string{"Content-Type", "Authorization", "X-User-Id", RequestIDHeader}, ", ")
	corsExposeHeaders = strings.Join([]string{RequestIDHeader, "Retry-After"}, ", ")
)

const (
	corsAllowMethods = "GET,POST,PUT,OPTIONS"
	corsMaxAge       = "600"
)

// CORS answers for the configured dashboard origins. A single "*" entry
// allows any origin but then omits credentials. Preflight requests end here
// with 204 whether or not the origin is allowed.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	origins := make(map[string]bool)
	wildcard := false
	for _, o := range allowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			wildcard = true
		default:
			origins[o] = true
		}
	}

	return func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			h := c.Writer.Header()
			switch {
			case origins[origin]:
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Add("Vary", "Origin")
			case wildcard:
				h.Set("Access-Control-Allow-Origin", "*")
			default:
				origin = ""
			}
			if origin != "" {
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Expose-Headers", corsExposeHeaders)
				h.Set("Access-Control-Max-Age", corsMaxAge)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
