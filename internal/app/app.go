// Package app provides application initialization and dependency injection.
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nav-service/config"
	"github.com/guttosm/nav-service/internal/http"
	"github.com/guttosm/nav-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// App holds the wired application.
type App struct {
	Router   *gin.Engine
	Services *ServiceComponents
	Journal  *JournalComponents
	db       *repository.MongoDB
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := ConnectDatabase(cfg)
	if err != nil {
		if cfg.Content.Source == config.SourceMongoDB {
			return nil, err
		}
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing without refresh journal")
	}

	source, err := InitializeContentSource(cfg, db)
	if err != nil {
		closeDatabase(db)
		return nil, err
	}

	journal := InitializeJournal(db, cfg.Database)
	services := InitializeServices(cfg.Content, source, journal.journal())
	routerComponents := InitializeRouter(services, source, db, journal, cfg)

	return &App{
		Router:   http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config),
		Services: services,
		Journal:  journal,
		db:       db,
	}, nil
}

// Close flushes the refresh journal and disconnects from MongoDB.
func (a *App) Close(ctx context.Context) error {
	a.Journal.journal().Stop()
	if a.db != nil {
		return a.db.Close(ctx)
	}
	return nil
}

func closeDatabase(db *repository.MongoDB) {
	if db == nil {
		return
	}
	if err := db.Close(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Failed to close MongoDB connection")
	}
}
