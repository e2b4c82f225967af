package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nick-Maximillien/autobooks-ai/internal/auth"
	"github.com/Nick-Maximillien/autobooks-ai/internal/copilot"
	"github.com/Nick-Maximillien/autobooks-ai/internal/invoices"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/config"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/metrics"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/server/middleware"
	"github.com/Nick-Maximillien/autobooks-ai/internal/shared/server/respond"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Config         config.Config
	Validator      *auth.Validator
	UploadHandler  *invoices.Handler
	CopilotHandler *copilot.Handler
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
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	protected := r.Group("/")
	protected.Use(
		middleware.Auth(deps.Validator),
		middleware.RateLimit(rateLimitConfig()),
	)
	deps.UploadHandler.Register(protected)
	deps.CopilotHandler.Register(protected)

	return r
}

// Uploads run OCR plus two model calls, so they get a tighter budget than
// copilot questions.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"upload":  {Rate: 0.5, Burst: 5},
			"copilot": {Rate: 1, Burst: 10},
		},
		GroupFor: func(c *gin.Context) string {
			switch c.FullPath() {
			case "/upload":
				return "upload"
			case "/copilot":
				return "copilot"
			default:
				return ""
			}
		},
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
