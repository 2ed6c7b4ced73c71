//go:build !integration

package app

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nav-service/config"
	"github.com/guttosm/nav-service/internal/circuitbreaker"
	"github.com/guttosm/nav-service/internal/mocks"
	"github.com/guttosm/nav-service/internal/repository"
	"github.com/guttosm/nav-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T) *repository.ContentRepositoryWithCircuitBreaker {
	t.Helper()
	repo := new(mocks.MockContentRepositoryInterface)
	repo.On("Name").Return("mock").Maybe()
	cb := circuitbreaker.New(circuitbreaker.Config{Name: "mock", FailureThreshold: 5, SuccessThreshold: 2, Timeout: time.Second})
	return repository.NewContentRepositoryWithCircuitBreaker(repo, cb)
}

func TestInitializeRouter(t *testing.T) {
	tests := []struct {
		name     string
		journal  *JournalComponents
		cfg      config.Config
		validate func(*testing.T, *RouterComponents)
	}{
		{
			name: "maps server settings to router config",
			cfg: config.Config{
				Server: config.ServerConfig{
					RateLimit:        100,
					RateWindow:       time.Minute,
					RefreshRateLimit: 5,
					RefreshAPIKeys:   map[string]bool{"key": true},
					CORSOrigins:      []string{"https://example.com"},
					SwaggerUser:      "admin",
					SwaggerPass:      "secret",
				},
				Site: config.SiteConfig{Title: "My Nav", OGURL: "https://nav.example.com"},
			},
			validate: func(t *testing.T, rc *RouterComponents) {
				assert.Equal(t, 100, rc.Config.RateLimit)
				assert.Equal(t, time.Minute, rc.Config.RateWindow)
				assert.Equal(t, 5, rc.Config.RefreshRateLimit)
				assert.True(t, rc.Config.RefreshAPIKeys["key"])
				assert.Equal(t, []string{"https://example.com"}, rc.Config.CORSOrigins)
				assert.Equal(t, "admin", rc.Config.SwaggerUser)
				assert.Equal(t, "secret", rc.Config.SwaggerPass)
				assert.Equal(t, "My Nav", rc.Config.Site.Title)
				assert.Equal(t, "https://nav.example.com", rc.Config.Site.OGURL)
			},
		},
		{
			name: "wires journal when present",
			journal: &JournalComponents{
				Journal:        service.NewRefreshJournal(new(mocks.MockRefreshEventsRepositoryInterface), service.DefaultJournalConfig()),
				CircuitBreaker: circuitbreaker.New(circuitbreaker.Config{Name: "mongodb_refresh_events"}),
			},
			validate: func(t *testing.T, rc *RouterComponents) {
				assert.NotNil(t, rc.Handler)
				assert.NotNil(t, rc.HealthHandler)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newTestSource(t)
			services := InitializeServices(config.ContentConfig{UpstreamTimeout: time.Second}, source, tt.journal.journal())
			if tt.journal != nil {
				t.Cleanup(tt.journal.Journal.Stop)
			}

			rc := InitializeRouter(services, source, nil, tt.journal, tt.cfg)

			require.NotNil(t, rc)
			tt.validate(t, rc)
		})
	}
}

func TestInitializeRouter_OpenJournalBreakerKeepsReadiness(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cb := circuitbreaker.New(circuitbreaker.Config{Name: "mongodb_refresh_events", FailureThreshold: 1, Timeout: time.Minute})
	_ = cb.Execute(t.Context(), func() error { return errors.New("no reachable servers") })
	require.Equal(t, circuitbreaker.StateOpen, cb.State())

	journal := &JournalComponents{
		Journal:        service.NewRefreshJournal(new(mocks.MockRefreshEventsRepositoryInterface), service.DefaultJournalConfig()),
		CircuitBreaker: cb,
	}
	t.Cleanup(journal.Journal.Stop)

	source := newTestSource(t)
	services := InitializeServices(config.ContentConfig{UpstreamTimeout: time.Second}, source, journal.Journal)
	rc := InitializeRouter(services, source, nil, journal, config.Config{})

	router := gin.New()
	rc.HealthHandler.Register(router)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mongodb_refresh_events_circuit":"open"`)
}
