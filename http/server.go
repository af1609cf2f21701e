// Package http serves the prediction form and the JSON API.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port           int
	Timeout        time.Duration
	AllowedOrigins []string
}

// DefaultServerConfig returns the settings used when config.yaml leaves the
// http section empty.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:           8080,
		Timeout:        30 * time.Second,
		AllowedOrigins: []string{"*"},
	}
}

// Server wraps *http.Server with the middleware chain applied.
type Server struct {
	server *http.Server
	log    *zap.Logger
}

// NewServer registers the handlers and wires the middleware chain.
func NewServer(config ServerConfig, handlers *Handlers, log *zap.Logger) *Server {
	if config.Port == 0 {
		config.Port = DefaultServerConfig().Port
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultServerConfig().Timeout
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = DefaultServerConfig().AllowedOrigins
	}
	if log == nil {
		log = zap.NewNop()
	}

	mux := http.NewServeMux()
	handlers.Register(mux)

	chain := Chain(
		RecoveryMiddleware(log),
		LoggerMiddleware(log),
		SecurityHeadersMiddleware,
		CORSMiddleware(config.AllowedOrigins),
	)

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			Handler:      chain(mux),
			ReadTimeout:  config.Timeout,
			WriteTimeout: config.Timeout,
			IdleTimeout:  120 * time.Second,
		},
		log: log,
	}
}

// Start blocks serving requests until Stop or a listener error.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down, allowing in-flight requests to finish.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.log.Info("shutting down HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}
