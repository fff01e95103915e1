package quotes

import (
	"log/slog"
	"time"
)

type Option func(s *Service)

// WithLogger specifies the logger for the service
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithQuotesTTL specifies the TTL for cached quote datasets.
// Defaults to 10 minutes
func WithQuotesTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.quotesTTL = ttl
	}
}

// WithStatsTTL specifies the TTL for cached statistics.
// Defaults to 10 minutes
func WithStatsTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.statsTTL = ttl
	}
}
