package http

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/nav-service/internal/middleware"
)

// RouteGroup defines a group of routes that can be registered.
type RouteGroup interface {
	// RegisterRoutes registers routes to the given router group.
	RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig)
}

// ContentRoutes registers the content endpoints and their legacy aliases.
type ContentRoutes struct {
	handler *ContentHandler
}

// NewContentRoutes creates content routes served by handler.
func NewContentRoutes(handler *ContentHandler) *ContentRoutes {
	return &ContentRoutes{handler: handler}
}

// RegisterRoutes implements RouteGroup. Refresh routes are guarded by the
// refresh API keys and rate limit when those are configured.
func (r *ContentRoutes) RegisterRoutes(rg *gin.RouterGroup, cfg *RouterConfig) {
	rg.GET("/content", r.handler.GetContent)
	rg.GET("/content/refreshes", r.handler.ListRefreshes)
	rg.GET("/getDatabaseContent", r.handler.GetDatabaseContent)

	refresh := rg.Group("")
	refresh.Use(refreshMiddleware(cfg)...)
	refresh.POST("/content", r.handler.RefreshContent)
	refresh.POST("/getDatabaseContent", r.handler.RefreshDatabaseContent)
}

func refreshMiddleware(cfg *RouterConfig) []gin.HandlerFunc {
	var handlers []gin.HandlerFunc
	if len(cfg.RefreshAPIKeys) > 0 {
		handlers = append(handlers, middleware.APIKeyAuth(cfg.RefreshAPIKeys))
	}
	if cfg.RefreshRateLimit > 0 {
		limiter := middleware.NewRateLimiter("refresh", cfg.RefreshRateLimit, cfg.rateWindow())
		handlers = append(handlers, limiter.APIKeyRateLimit())
	}
	return handlers
}
