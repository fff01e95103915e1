package serve

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/cashrates/cache"
	"github.com/sig-0/cashrates/cmd/env"
	"github.com/sig-0/cashrates/quotes"
	"github.com/sig-0/cashrates/server"
	"github.com/sig-0/cashrates/server/config"
	"github.com/sig-0/cashrates/users"
	"github.com/sig-0/cashrates/warm"
)

// serveCfg wraps the serve configuration
type serveCfg struct {
	config *config.Config

	configPath string
	noWarm     bool
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	cmd := &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve <subcommand> [flags]",
		LongHelp:   "Serves the cashrates backend",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}

	cmd.Subcommands = []*ffcli.Command{
		newServeRedisCmd(cfg),
		newServeMemoryCmd(cfg),
	}

	return cmd
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.config.ListenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the server",
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the server TOML configuration, if any",
	)

	fs.BoolVar(
		&c.noWarm,
		"no-warm",
		false,
		"disable the background cache warmer",
	)
}

// loadConfig reads the server configuration from disk, if any
func (c *serveCfg) loadConfig() error {
	if c.configPath == "" {
		return nil
	}

	serverCfg, err := config.Read(c.configPath)
	if err != nil {
		return fmt.Errorf("unable to read server config, %w", err)
	}

	c.config = serverCfg

	return nil
}

// run wires the quote service, the HTTP server, and the cache warmer
// over the given store, and serves until the context is canceled
func (c *serveCfg) run(ctx context.Context, logger *slog.Logger, store cache.Store) error {
	if err := config.ValidateConfig(c.config); err != nil {
		return fmt.Errorf("invalid configuration, %w", err)
	}

	var (
		quotesCfg = c.config.Quotes

		quotesTTL = time.Duration(quotesCfg.TTLSeconds) * time.Second
		statsTTL  = time.Duration(quotesCfg.StatsTTLSeconds) * time.Second

		cities     = quotesCfg.ParsedCities()
		currencies = quotesCfg.ParsedCurrencies()
	)

	cashSource, marketSource := defaultSources()

	// Create the quote service
	service := quotes.NewService(
		cashSource,
		store,
		quotes.WithLogger(logger),
		quotes.WithQuotesTTL(quotesTTL),
		quotes.WithStatsTTL(statsTTL),
	)

	serverOpts := []server.Option{
		server.WithLogger(logger),
		server.WithConfig(c.config),
	}

	// Attach the user registry, if a DB is configured
	if dsn := os.Getenv(env.Prefix + env.DBURLSuffix); dsn != "" {
		pool, err := users.Connect(ctx, dsn)
		if err != nil {
			return fmt.Errorf("unable to connect user store: %w", err)
		}

		defer pool.Close()

		userStore := users.NewStore(pool)

		if err := userStore.Init(ctx); err != nil {
			return err
		}

		logger.Info("user store attached")

		serverOpts = append(serverOpts, server.WithUsers(userStore))
	}

	// Create the server instance
	s, err := server.New(service, marketSource, serverOpts...)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	// Start the cache warmer
	if !c.noWarm {
		orchestrator := warm.New(warm.WithLogger(logger))

		refreshers := []warm.Refresher{
			warm.NewQuoteRefresher(service, cities, currencies, quotesTTL),
			warm.NewStatisticsRefresher(service, cities, currencies, statsTTL),
		}

		for _, refresher := range refreshers {
			if err := orchestrator.Register(refresher); err != nil {
				return fmt.Errorf("unable to register refresher: %w", err)
			}
		}

		group.Go(func() error {
			return orchestrator.Start(gCtx)
		})
	}

	return group.Wait()
}
