// Package server wraps the gin engine in a timeout-bounded http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/GrooveMedia/groove-menu-go/internal/application/container"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/GrooveMedia/groove-menu-go/internal/presentation/http/routes"
	"github.com/GrooveMedia/groove-menu-go/pkg/config"
)

// Server runs the menu API. Timeouts come from configuration so a slow
// client can never pin a connection open indefinitely.
type Server struct {
	httpServer *http.Server
	logger     *logging.ChanneledLogger
}

// New builds the server around the container's route tree.
func New(port string, c *container.Container) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:           ":" + port,
			Handler:        routes.SetupRoutes(c),
			ReadTimeout:    config.ServerReadTimeout,
			WriteTimeout:   config.ServerWriteTimeout,
			IdleTimeout:    config.ServerIdleTimeout,
			MaxHeaderBytes: 1 << 20,
		},
		logger: c.Logger,
	}
}

// Start listens until the server is shut down. A clean shutdown is not
// an error.
func (s *Server) Start() error {
	s.logger.HTTP().Info("Menu API listening", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("menu API server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Shutdown().Info("Draining menu API connections")
	return s.httpServer.Shutdown(ctx)
}
