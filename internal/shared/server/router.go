package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	googleauth "diagnosis-backend/internal/auth"
	"diagnosis-backend/internal/catalog"
	"diagnosis-backend/internal/diagnoses"
	"diagnosis-backend/internal/folders"
	"diagnosis-backend/internal/shared/config"
	"diagnosis-backend/internal/shared/metrics"
	"diagnosis-backend/internal/shared/server/middleware"
	"diagnosis-backend/internal/shared/server/respond"
	"diagnosis-backend/internal/users"
)

// RouterDeps carries the wired handlers the router registers.
type RouterDeps struct {
	Config           config.Config
	DiagnosisHandler *diagnoses.Handler
	FolderHandler    *folders.Handler
	CatalogHandler   *catalog.Handler
	UserHandler      *users.Handler
	GoogleAuth       *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
	)
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor:     rateLimitGroup,
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT":  {Rate: 10, Burst: 30},
			"GENERATE": {Rate: 0.2, Burst: 2},
		},
	}))

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.CatalogHandler != nil {
		deps.CatalogHandler.RegisterRoutes(api)
	}
	if deps.DiagnosisHandler != nil {
		deps.DiagnosisHandler.RegisterRoutes(api)
	}
	if deps.FolderHandler != nil {
		deps.FolderHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimitGroup throttles report generation harder than the rest of the API;
// each generation can fan out into a batch of model calls.
func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return "DEFAULT"
	}
	switch c.FullPath() {
	case "/api/v1/diagnoses/:id/report", "/api/v1/diagnoses/:id/validated-report":
		return "GENERATE"
	default:
		return "DEFAULT"
	}
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
