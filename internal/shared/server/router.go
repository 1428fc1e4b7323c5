package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/analyses"
	"resume-ats/internal/services/health"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/metrics"
	"resume-ats/internal/shared/server/middleware"
	"resume-ats/internal/shared/server/respond"
)

const analyzeRateGroup = "ANALYZE"

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
	Health          *health.Service
	// Limiter is shared across routers when set; tests inject a fixed clock.
	Limiter *middleware.RateLimiter
}

var analyzeRoutes = map[string]bool{
	"/analyze":            true,
	"/api/analyze":        true,
	"/api/analyze/upload": true,
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: deps.Limiter,
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && analyzeRoutes[c.FullPath()] {
					return analyzeRateGroup
				}
				return ""
			},
			Rules: map[string]middleware.RateLimitRule{
				analyzeRateGroup: middleware.PerMinute(deps.Config.AnalyzePerMinute, deps.Config.AnalyzeBurst),
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.OK(c, gin.H{"ok": true})
			return
		}
		respond.OK(c, deps.Health.Status())
	})

	if deps.AnalysisHandler != nil {
		r.POST("/analyze", deps.AnalysisHandler.Analyze)
		deps.AnalysisHandler.RegisterRoutes(api)
	}

	return r
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
