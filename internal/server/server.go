package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/wyejay/edulibrary-client/internal/config"
)

// Server wraps the console's http.Server with start/shutdown plumbing.
type Server struct {
	server *http.Server
	logger zerolog.Logger
}

func New(cfg config.ConsoleConfig, handler http.Handler, logger zerolog.Logger) *Server {
	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         cfg.Address,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

func (s *Server) Start() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("Starting console server")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down console server")
	return s.server.Shutdown(ctx)
}
