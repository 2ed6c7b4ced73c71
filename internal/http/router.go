package http

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/guttosm/nav-service/internal/i18n"
	"github.com/guttosm/nav-service/internal/metrics"
	"github.com/guttosm/nav-service/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit  int
	RateWindow time.Duration
	// RefreshRateLimit limits refreshes per API key (or client IP) per RateWindow.
	RefreshRateLimit int
	// RefreshAPIKeys, when not empty, are required to refresh the cache.
	RefreshAPIKeys map[string]bool
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
	// Site is served on the legacy site metadata endpoints.
	Site SiteInfo
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:        100,
		RateWindow:       time.Minute,
		RefreshRateLimit: 10,
	}
}

func (cfg *RouterConfig) rateWindow() time.Duration {
	if cfg.RateWindow <= 0 {
		return time.Minute
	}
	return cfg.RateWindow
}

// NewRouter creates and configures the Gin router for the navigation service.
func NewRouter(handler *ContentHandler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	api := router.Group("/api")
	if handler != nil {
		NewContentRoutes(handler).RegisterRoutes(api, &cfg)
	}
	NewSiteRoutes(cfg.Site).RegisterRoutes(api, &cfg)

	router.NoMethod(methodNotAllowed(router))
	router.NoRoute(func(c *gin.Context) {
		NewResponseBuilder(c).Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
	})

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Encoding", "Accept-Language", "Authorization", "X-API-Key", "X-Request-ID", "If-None-Match", "Cache-Control"},
		ExposeHeaders:    []string{"X-Request-ID", "ETag", middleware.CacheStatusHeader},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware("/metrics"),
		middleware.Compression(),
		middleware.RequestLogger("/healthz", "/readyz", "/metrics"),
		middleware.ErrorHandler(),
	)

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter("global", cfg.RateLimit, cfg.rateWindow())
		router.Use(limiter.RateLimit())
	}
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// methodNotAllowed answers requests to a known path with an unsupported
// method, listing the supported methods in the Allow header.
func methodNotAllowed(router *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allowed := allowedMethods(router.Routes(), c.Request.URL.Path); len(allowed) > 0 {
			c.Header("Allow", strings.Join(allowed, ", "))
		}
		NewResponseBuilder(c).Error(http.StatusMethodNotAllowed, i18n.ErrKeyMethodNotAllowed, nil)
	}
}

func allowedMethods(routes gin.RoutesInfo, path string) []string {
	seen := make(map[string]bool)
	var methods []string
	for _, route := range routes {
		if !matchRoute(route.Path, path) || seen[route.Method] {
			continue
		}
		seen[route.Method] = true
		methods = append(methods, route.Method)
	}
	sort.Strings(methods)
	return methods
}

// matchRoute matches static routes exactly and catch-all routes by prefix.
func matchRoute(pattern, path string) bool {
	if i := strings.Index(pattern, "*"); i >= 0 {
		return strings.HasPrefix(path, pattern[:i])
	}
	return pattern == path
}
