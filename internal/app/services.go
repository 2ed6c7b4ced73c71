package app

import (
	"github.com/guttosm/nav-service/config"
	"github.com/guttosm/nav-service/internal/repository"
	"github.com/guttosm/nav-service/internal/service"
	"github.com/guttosm/nav-service/internal/service/cache"
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Store   *cache.Store
	Content *service.ContentServiceImpl
}

// InitializeServices creates the cache and the content service reading through it.
// journal may be nil.
func InitializeServices(cfg config.ContentConfig, source repository.ContentRepositoryInterface, journal *service.RefreshJournal) *ServiceComponents {
	store := cache.NewStore()

	opts := []service.ContentOption{
		service.WithUpstreamTimeout(cfg.UpstreamTimeout),
		service.WithLocalTagFiltering(cfg.LocalTagFilter),
	}
	if journal != nil {
		opts = append(opts, service.WithRefreshRecorder(journal))
	}

	return &ServiceComponents{
		Store:   store,
		Content: service.NewContentService(source, store, opts...),
	}
}
