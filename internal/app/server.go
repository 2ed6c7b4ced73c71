package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/guttosm/nav-service/config"
	"github.com/rs/zerolog/log"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	minWriteTimeout        = 45 * time.Second
	// writeTimeoutMargin leaves room to encode a response after the slowest upstream call.
	writeTimeoutMargin = 15 * time.Second
)

// Server wraps http.Server with graceful shutdown capabilities.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	onShutdown      []func(context.Context) error
}

// NewServer creates a server for handler. The write timeout always exceeds
// upstreamTimeout so a slow content source query still gets its response out.
func NewServer(handler http.Handler, cfg config.ServerConfig, upstreamTimeout time.Duration) *Server {
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      max(minWriteTimeout, upstreamTimeout+writeTimeoutMargin),
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20, // 1MB
		},
		shutdownTimeout: shutdownTimeout,
	}
}

// OnShutdown registers fn to run after the HTTP server has stopped.
// Hooks run in registration order.
func (s *Server) OnShutdown(fn func(context.Context) error) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done or the server fails, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errChan := make(chan error, 1)

	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("Server starting")
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		log.Error().Err(err).Msg("Server failed")
		return errors.Join(err, s.Shutdown())
	case <-ctx.Done():
		log.Info().Msg("Shutdown requested, draining requests")
	}

	return s.Shutdown()
}

// Shutdown stops the HTTP server and then runs the shutdown hooks, all
// within the shutdown timeout.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	for _, fn := range s.onShutdown {
		if hookErr := fn(ctx); hookErr != nil {
			log.Error().Err(hookErr).Msg("Shutdown hook failed")
			err = errors.Join(err, hookErr)
		}
	}

	if err == nil {
		log.Info().Msg("Server stopped gracefully")
	}
	return err
}
