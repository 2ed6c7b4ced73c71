package app

import (
	"context"
	"time"

	"github.com/guttosm/nav-service/config"
	"github.com/guttosm/nav-service/internal/circuitbreaker"
	"github.com/guttosm/nav-service/internal/metrics"
	"github.com/guttosm/nav-service/internal/repository"
	"github.com/guttosm/nav-service/internal/service"
	"github.com/rs/zerolog/log"
)

// JournalComponents holds the refresh journal and its storage breaker.
type JournalComponents struct {
	Journal        *service.RefreshJournal
	CircuitBreaker *circuitbreaker.CircuitBreaker
}

// journal returns the journal, or nil for nil components.
func (j *JournalComponents) journal() *service.RefreshJournal {
	if j == nil {
		return nil
	}
	return j.Journal
}

// ConnectDatabase connects to MongoDB when the content source or the refresh
// journal needs it. It returns nil, nil when MongoDB is not used.
func ConnectDatabase(cfg config.Config) (*repository.MongoDB, error) {
	if !cfg.UsesMongoDB() {
		return nil, nil
	}

	db, err := repository.NewMongoDB(cfg.Database.URI, cfg.Database.DatabaseName, cfg.Database.PagesCollection)
	if err != nil {
		return nil, err
	}

	log.Info().Str("database", cfg.Database.DatabaseName).Msg("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.SetRefreshEventsTTL(ctx, cfg.Database.JournalTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to set refresh events TTL index (may already exist)")
	}

	return db, nil
}

// InitializeJournal creates the refresh journal. It returns nil when the
// journal is disabled or no database is connected.
func InitializeJournal(db *repository.MongoDB, cfg config.DatabaseConfig) *JournalComponents {
	if db == nil || !cfg.Enabled {
		return nil
	}

	cb := newCircuitBreaker("mongodb_refresh_events", cfg)
	repo := repository.NewRefreshEventsRepositoryWithCircuitBreaker(repository.NewRefreshEventsRepository(db), cb)

	return &JournalComponents{
		Journal:        service.NewRefreshJournal(repo, service.DefaultJournalConfig()),
		CircuitBreaker: cb,
	}
}

// newCircuitBreaker creates a breaker that publishes its state as a metric.
func newCircuitBreaker(name string, cfg config.DatabaseConfig) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		OnStateChange: func(name string, state circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(state))
		},
	})
}
