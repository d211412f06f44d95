package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-pulse/internal/services/health"
	"portfolio-pulse/internal/shared/config"
	"portfolio-pulse/internal/shared/metrics"
	"portfolio-pulse/internal/shared/server/middleware"
)

// Registrar is implemented by every feature handler.
type Registrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries what NewRouter wires together.
type RouterDeps struct {
	Config  config.Config
	Auth    middleware.AuthConfig
	Health  *health.Service
	Limiter *middleware.RateLimiter

	Users     Registrar
	Projects  Registrar
	Reports   Registrar
	Ingest    Registrar
	Dashboard Registrar
	LLMConfig Registrar
	Analysis  Registrar
}

const (
	rateGroupDefault = "DEFAULT"
	rateGroupIngest  = "INGEST"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	perMin := deps.Config.RateLimitPerMin
	if perMin <= 0 {
		perMin = 120
	}
	ingestPerMin := perMin / 10
	if ingestPerMin < 1 {
		ingestPerMin = 1
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		body, ok := deps.Health.Status(c.Request.Context())
		if !ok {
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, body)
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.Use(
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				rateGroupDefault: middleware.PerMinute(perMin),
				rateGroupIngest:  middleware.PerMinute(ingestPerMin),
			},
			DefaultGroup: rateGroupDefault,
			GroupFor:     rateGroup,
			Limiter:      deps.Limiter,
		}),
		middleware.Auth(deps.Auth),
	)

	for _, h := range []Registrar{
		deps.Users,
		deps.Projects,
		deps.Reports,
		deps.Ingest,
		deps.Dashboard,
		deps.LLMConfig,
		deps.Analysis,
	} {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

// rateGroup puts the calls that fan out to the model on a tighter budget.
func rateGroup(c *gin.Context) string {
	path := c.Request.URL.Path
	switch {
	case c.Request.Method != http.MethodPost:
		return rateGroupDefault
	case strings.HasPrefix(path, "/api/excel/"), path == "/api/portfolio-analysis/run":
		return rateGroupIngest
	}
	return rateGroupDefault
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
