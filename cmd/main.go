// Package main is the entry point for the nav-service application.
//
// @title           Navigation Service API
// @version         1.0.0
// @description     Tag-indexed read-through cache in front of the Notion database that backs a navigation directory.
//
//	Reads are served from memory; a miss queries the content source once and caches the result per tag.
//	A refresh replaces the whole cache atomically.
//
// @contact.name   API Support
// @contact.url    https://github.com/guttosm/nav-service
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        X-API-Key
// @description                 API key required to refresh the cache when refresh keys are configured.
//
// @tag.name        Content
// @tag.description Cached directory content
//
// @tag.name        Legacy
// @tag.description Endpoints kept for the original front-end
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/guttosm/nav-service/docs" // swagger docs

	"github.com/guttosm/nav-service/config"
	"github.com/guttosm/nav-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	application, err := app.InitializeApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := app.NewServer(application.Router, cfg.Server, cfg.Content.UpstreamTimeout)
	server.OnShutdown(application.Close)

	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
