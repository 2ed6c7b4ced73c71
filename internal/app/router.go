package app

import (
	"github.com/guttosm/nav-service/config"
	"github.com/guttosm/nav-service/internal/http"
	"github.com/guttosm/nav-service/internal/repository"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.ContentHandler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
// db and journal may be nil.
func InitializeRouter(
	services *ServiceComponents,
	source *repository.ContentRepositoryWithCircuitBreaker,
	db *repository.MongoDB,
	journal *JournalComponents,
	cfg config.Config,
) *RouterComponents {
	var lister http.RefreshLister
	healthHandler := http.NewHealthHandler()

	healthHandler.RegisterCircuitBreaker(source.Name(), source.GetCircuitBreaker())
	healthHandler.RegisterCache(services.Content.CacheMetrics)

	if journal != nil {
		lister = journal.Journal
		healthHandler.RegisterCircuitBreaker("mongodb_refresh_events", journal.CircuitBreaker, http.Optional())
	}
	if db != nil {
		var opts []http.CheckOption
		if cfg.Content.Source != config.SourceMongoDB {
			opts = append(opts, http.Optional())
		}
		healthHandler.RegisterChecker("mongodb", http.HealthCheckerFunc(db.HealthCheck), opts...)
	}

	routerCfg := http.RouterConfig{
		RateLimit:        cfg.Server.RateLimit,
		RateWindow:       cfg.Server.RateWindow,
		RefreshRateLimit: cfg.Server.RefreshRateLimit,
		RefreshAPIKeys:   cfg.Server.RefreshAPIKeys,
		CORSOrigins:      cfg.Server.CORSOrigins,
		SwaggerUser:      cfg.Server.SwaggerUser,
		SwaggerPass:      cfg.Server.SwaggerPass,
		Site: http.SiteInfo{
			Title:         cfg.Site.Title,
			OGImage:       cfg.Site.OGImage,
			OGDescription: cfg.Site.OGDescription,
			OGURL:         cfg.Site.OGURL,
			OGLogo:        cfg.Site.OGLogo,
			OGKeywords:    cfg.Site.OGKeywords,
		},
	}

	return &RouterComponents{
		Handler:       http.NewContentHandler(services.Content, lister),
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
