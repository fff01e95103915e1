package server

import (
	"log/slog"

	"github.com/sig-0/cashrates/server/config"
)

type Option func(s *Server)

// WithLogger specifies the logger for the server
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithConfig specifies the config for the server
func WithConfig(c *config.Config) Option {
	return func(s *Server) {
		s.config = c
	}
}

// WithUsers specifies the usage recorder for the server
func WithUsers(u UsageRecorder) Option {
	return func(s *Server) {
		s.users = u
	}
}
