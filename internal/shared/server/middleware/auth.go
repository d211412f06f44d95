package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/shared/auth"
	"portfolio-pulse/internal/shared/server/respond"
)

const (
	userIDKey = "userId"
	roleKey   = "userRole"
)

// RoleLookup resolves the role of a user named by the X-User-Id header.
type RoleLookup func(ctx context.Context, userID string) (role string, ok bool)

// AuthConfig controls how identity is established.
type AuthConfig struct {
	Signer *auth.Signer
	Lookup RoleLookup
	// DefaultUserID is used when a request carries no identity and DevLike is set.
	DefaultUserID string
	DevLike       bool
}

// Auth validates bearer tokens or the X-User-Id header and stores identity in context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, "Bearer ") || cfg.Signer == nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
			claims, err := cfg.Signer.Verify(token)
			if err != nil {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
				return
			}
			c.Set(userIDKey, claims.Subject)
			c.Set(roleKey, claims.Role)
			c.Next()
			return
		}

		userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if userID == "" && cfg.DevLike {
			userID = cfg.DefaultUserID
		}
		if userID == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		role := ""
		if cfg.Lookup != nil {
			r, ok := cfg.Lookup(c.Request.Context(), userID)
			if !ok {
				respond.Error(c, http.StatusUnauthorized, "unauthorized", "Unknown user", nil)
				return
			}
			role = r
		}
		c.Set(userIDKey, userID)
		c.Set(roleKey, role)
		c.Next()
	}
}

// RequireRole rejects requests whose role is not one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := allowed[RoleFromContext(c)]; !ok {
			respond.Error(c, http.StatusForbidden, "forbidden", "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// RoleFromContext fetches the role set by the auth middleware.
func RoleFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(roleKey)
	if role, ok := val.(string); ok {
		return role
	}
	return ""
}
