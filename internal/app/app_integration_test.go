//go:build integration

package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guttosm/nav-service/config"
	"github.com/guttosm/nav-service/internal/domain/model"
	"github.com/guttosm/nav-service/internal/repository"
	"github.com/guttosm/nav-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mongoConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Server: config.ServerConfig{
			Port:       "8080",
			RateLimit:  100,
			RateWindow: time.Minute,
		},
		Content: config.ContentConfig{
			Source:          config.SourceMongoDB,
			UpstreamTimeout: 5 * time.Second,
			LocalTagFilter:  true,
		},
		Database: config.DatabaseConfig{
			URI:                            testutil.MongoURI(),
			DatabaseName:                   testutil.DatabaseName(t),
			PagesCollection:                "pages",
			JournalTTL:                     30 * 24 * time.Hour,
			Enabled:                        true,
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 2,
			CircuitBreakerTimeout:          30 * time.Second,
		},
	}
}

func TestInitializeApp_Integration(t *testing.T) {
	t.Parallel()

	t.Run("mongodb source with refresh journal", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		cfg := mongoConfig(t)

		db, err := repository.NewMongoDB(cfg.Database.URI, cfg.Database.DatabaseName, cfg.Database.PagesCollection)
		require.NoError(t, err)
		require.NoError(t, testutil.SeedPages(ctx, db.Pages, model.NewPage("p1", "Tools"), model.NewPage("p2", "Docs")))
		require.NoError(t, db.Close(ctx))

		application, err := InitializeApp(cfg)
		require.NoError(t, err)
		require.NotNil(t, application.Journal)
		t.Cleanup(func() { assert.NoError(t, application.Close(context.Background())) })

		w := httptest.NewRecorder()
		application.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/content", nil))
		require.Equal(t, http.StatusOK, w.Code)

		assert.Eventually(t, func() bool {
			events, err := application.Journal.Journal.List(ctx, 10)
			return err == nil && len(events) == 1
		}, 5*time.Second, 50*time.Millisecond)
	})

	t.Run("notion source survives unreachable MongoDB", func(t *testing.T) {
		t.Parallel()
		server, _ := newNotionServer(t)
		cfg := notionConfig(server.URL)
		cfg.Database.Enabled = true
		cfg.Database.URI = "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200"
		cfg.Database.DatabaseName = testutil.DatabaseName(t)

		application, err := InitializeApp(cfg)
		require.NoError(t, err)
		assert.Nil(t, application.Journal)
		assert.NoError(t, application.Close(context.Background()))
	})

	t.Run("mongodb source fails without MongoDB", func(t *testing.T) {
		t.Parallel()
		cfg := mongoConfig(t)
		cfg.Database.URI = "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200"

		application, err := InitializeApp(cfg)
		assert.Error(t, err)
		assert.Nil(t, application)
	})
}
