// Package router assembles the gin engine: middleware chain, health
// endpoints and the versioned API groups.
package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medicore/clinic-api/internal/config"
	"github.com/medicore/clinic-api/internal/handler/health"
	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/pkg/metrics"
)

// Handler registers a resource's routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// PublicHandler additionally owns routes that skip authentication.
type PublicHandler interface {
	RegisterRoutes(*gin.RouterGroup)
	RegisterProtectedRoutes(*gin.RouterGroup)
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	authH   PublicHandler
	healthH *health.Handler

	handlers []Handler
}

func NewRouter(cfg *config.Config, auth *middleware.AuthMiddleware, m *metrics.Metrics,
	authH PublicHandler, healthH *health.Handler, handlers ...Handler) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		metricsMiddleware(m),
	)

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	}
	engine.Use(middleware.CORS(corsConfig))

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst)
	engine.Use(rateLimiter.RateLimit())

	return &Router{
		engine:   engine,
		auth:     auth,
		authH:    authH,
		healthH:  healthH,
		handlers: handlers,
	}
}

func (r *Router) Setup() {
	r.healthH.RegisterRoutes(r.engine)

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.authH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())
	r.authH.RegisterProtectedRoutes(protected)
	for _, h := range r.handlers {
		h.RegisterRoutes(protected)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		if c.Writer.Status() >= 400 {
			m.ErrorTotal.WithLabelValues(c.Request.Method, path).Inc()
		}
	}
}
