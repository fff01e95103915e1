package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/cashrates/server/config"
	"github.com/sig-0/cashrates/types"
)

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// QuoteService resolves joined quote datasets and their statistics
type QuoteService interface {
	Quotes(
		ctx context.Context,
		city types.City,
		currency types.Currency,
	) (types.JoinedDataset, error)

	Statistics(
		ctx context.Context,
		city types.City,
		currencies []types.Currency,
	) (map[types.Currency]types.CurrencyStatistics, error)
}

// MarketSource produces the raw P2P offer book for one trading side
type MarketSource interface {
	Fetch(ctx context.Context, side types.Side) ([]*types.P2POffer, error)
}

// UsageRecorder tracks per-user request counters. Recording is best
// effort, failures never affect the response
type UsageRecorder interface {
	RecordQuoteRequest(ctx context.Context, userID int64) error
	RecordStatsRequest(ctx context.Context, userID int64) error
}

type Server struct {
	logger *slog.Logger
	config *config.Config

	quotes QuoteService
	market MarketSource
	users  UsageRecorder

	mux *chi.Mux
}

// New creates a new server instance
func New(quotes QuoteService, market MarketSource, opts ...Option) (*Server, error) {
	s := &Server{
		logger: noopLogger,
		quotes: quotes,
		market: market,
		config: config.DefaultConfig(),
		mux:    chi.NewMux(),
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	// Validate the configuration
	if err := config.ValidateConfig(s.config); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	// Set up the CORS middleware
	if s.config.CORSConfig != nil {
		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins: s.config.CORSConfig.AllowedOrigins,
			AllowedMethods: s.config.CORSConfig.AllowedMethods,
			AllowedHeaders: s.config.CORSConfig.AllowedHeaders,
		})

		s.mux.Use(corsMiddleware.Handler)
	}

	s.mux.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaOTEL,
		RecoverPanics: true,
		Skip: func(_ *http.Request, respStatus int) bool {
			return respStatus == 404 || respStatus == 405
		},
	}))

	// Register the health check handler
	s.mux.Get("/health", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	// Register the API documentation handlers
	s.mux.Get("/openapi.yaml", s.OpenAPI)
	s.mux.Get("/docs", s.Redoc)

	// Register the quote endpoints
	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/quotes/{city}/{currency}", s.QuotesForCity)
		r.Get("/statistics/{city}", s.StatisticsForCity)
		r.Get("/p2p/{side}", s.P2PSnapshot)
	})

	return s, nil
}

// Serve serves the cashrates service
func (s *Server) Serve(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.config.ListenAddress,
		Handler:           s.mux,
		ReadHeaderTimeout: 60 * time.Second,
	}

	group, gCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer s.logger.Info("server shut down")

		ln, err := net.Listen("tcp", server.Addr)
		if err != nil {
			return err
		}

		s.logger.Info(
			fmt.Sprintf(
				"server started at %s",
				ln.Addr().String(),
			),
		)

		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-gCtx.Done()

		s.logger.Info("server to be shutdown")

		wsCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()

		return server.Shutdown(wsCtx)
	})

	return group.Wait()
}
