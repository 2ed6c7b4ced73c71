package app

import (
	"errors"
	"fmt"

	"github.com/guttosm/nav-service/config"
	"github.com/guttosm/nav-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrSourceNeedsDatabase is returned when the mongodb source is selected
// without a database connection.
var ErrSourceNeedsDatabase = errors.New("mongodb content source requires a database connection")

// InitializeContentSource builds the configured content source behind a
// circuit breaker.
func InitializeContentSource(cfg config.Config, db *repository.MongoDB) (*repository.ContentRepositoryWithCircuitBreaker, error) {
	var source repository.ContentRepositoryInterface

	switch cfg.Content.Source {
	case config.SourceNotion:
		source = repository.NewNotionRepository(repository.NotionConfig{
			BaseURL:    cfg.Notion.BaseURL,
			APIKey:     cfg.Notion.APIKey,
			DatabaseID: cfg.Notion.DatabaseID,
			Version:    cfg.Notion.Version,
			PageSize:   cfg.Notion.PageSize,
			MaxPages:   cfg.Notion.MaxPages,
		})
	case config.SourceMongoDB:
		if db == nil {
			return nil, ErrSourceNeedsDatabase
		}
		source = repository.NewMongoContentRepository(db)
	default:
		return nil, fmt.Errorf("unknown content source %q", cfg.Content.Source)
	}

	log.Info().Str("source", source.Name()).Msg("Content source configured")

	cb := newCircuitBreaker(source.Name(), cfg.Database)
	return repository.NewContentRepositoryWithCircuitBreaker(source, cb), nil
}
