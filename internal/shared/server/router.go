package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "resume-shortlister/internal/auth"
	"resume-shortlister/internal/jobs"
	"resume-shortlister/internal/shared/config"
	"resume-shortlister/internal/shared/metrics"
	"resume-shortlister/internal/services/health"
	"resume-shortlister/internal/shared/server/middleware"
	"resume-shortlister/internal/shared/server/respond"
	"resume-shortlister/internal/shortlist"
	"resume-shortlister/internal/users"
)

// RouterDeps carries the constructed handlers the router wires up.
type RouterDeps struct {
	Config     config.Config
	Health     *health.Service
	Users      *users.Handler
	Jobs       *jobs.Handler
	Shortlist  *shortlist.Handler
	GoogleAuth *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"SHORTLIST": {Rate: 0.2, Burst: 3},
				"DEFAULT":   {Rate: 10, Burst: 30},
			},
			GroupFor: func(c *gin.Context) string {
				if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/shortlist" {
					return "SHORTLIST"
				}
				return "DEFAULT"
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status(c.Request.Context()))
	})

	if deps.Users != nil {
		deps.Users.RegisterRoutes(api)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.Jobs != nil {
		deps.Jobs.RegisterRoutes(api)
	}
	if deps.Shortlist != nil {
		shortlist.RegisterRoutes(api, deps.Shortlist)
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
