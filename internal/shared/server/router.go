package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/applications"
	"jobboard-backend/internal/jobs"
	"jobboard-backend/internal/matching"
	"jobboard-backend/internal/resumes"
	"jobboard-backend/internal/services/health"
	"jobboard-backend/internal/shared/config"
	"jobboard-backend/internal/shared/metrics"
	"jobboard-backend/internal/shared/server/middleware"
	"jobboard-backend/internal/users"
)

const uploadRateLimitGroup = "UPLOAD"

// RouterDeps carries everything NewRouter mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config             config.Config
	Verifier           middleware.TokenVerifier
	Resolver           middleware.PrincipalResolver
	Limiter            middleware.Limiter
	Health             *health.Service
	UserHandler        *users.Handler
	JobHandler         *jobs.Handler
	MatchHandler       *matching.Handler
	ApplicationHandler *applications.Handler
	ResumeHandler      *resumes.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	cfg := deps.Config
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(middleware.AuthConfig{
			Verifier: deps.Verifier,
			Resolver: deps.Resolver,
			Public:   isPublic,
		}),
		// after Auth so buckets are per user; public routes fall back to client IP
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rateLimitRules(cfg),
			GroupFor: rateLimitGroup,
			Limiter:  deps.Limiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil)
	}
	healthSvc.RegisterRoutes(api)
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.JobHandler != nil {
		deps.JobHandler.RegisterRoutes(api)
	}
	if deps.MatchHandler != nil {
		deps.MatchHandler.RegisterRoutes(api)
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterRoutes(api)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}

	return r
}

func isPublic(c *gin.Context) bool {
	switch c.Request.URL.Path {
	case "/api/v1/health", "/metrics":
		return true
	default:
		return false
	}
}

func rateLimitRules(cfg config.Config) map[string]middleware.RateLimitRule {
	rps, burst := cfg.RateLimitRPS, cfg.RateLimitBurst
	uploadBurst := burst / 4
	if uploadBurst < 1 {
		uploadBurst = 1
	}
	return map[string]middleware.RateLimitRule{
		"DEFAULT":            {Rate: rps, Burst: burst},
		uploadRateLimitGroup: {Rate: rps / 5, Burst: uploadBurst},
	}
}

// rateLimitGroup puts multipart uploads in their own, tighter bucket.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost &&
		strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data") {
		return uploadRateLimitGroup
	}
	return ""
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
