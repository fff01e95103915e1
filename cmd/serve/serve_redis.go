package serve

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/cashrates/cache/redis"
	"github.com/sig-0/cashrates/cmd/env"
)

type serveRedisCfg struct {
	rootCfg *serveCfg
}

// newServeRedisCmd creates the serve redis command
func newServeRedisCmd(rootCfg *serveCfg) *ffcli.Command {
	cfg := &serveRedisCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("redis", flag.ExitOnError)
	cfg.rootCfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "redis",
		ShortUsage: "serve redis [flags]",
		LongHelp:   "Serves the cashrates backend, using a Redis cache",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

// exec executes the server serve command
func (c *serveRedisCfg) exec(ctx context.Context, _ []string) error {
	// Read the server configuration, if any
	if err := c.rootCfg.loadConfig(); err != nil {
		return err
	}

	// Create a new logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// Redis connection settings
	addr := os.Getenv(env.Prefix + env.RedisAddrSuffix)
	if addr == "" {
		return fmt.Errorf("missing %s", env.Prefix+env.RedisAddrSuffix)
	}

	password := os.Getenv(env.Prefix + env.RedisPasswordSuffix)

	var db int

	if raw := os.Getenv(env.Prefix + env.RedisDBSuffix); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env.Prefix+env.RedisDBSuffix, err)
		}

		db = parsed
	}

	// Create the Redis cache store
	store := redis.NewStore(addr, password, db)

	defer func() {
		if err := store.Close(); err != nil {
			logger.Error(
				"unable to gracefully close Redis connection",
				"err", err,
			)
		}
	}()

	// Check Redis reachability
	pingCtx, cancelPing := context.WithTimeout(ctx, time.Second*5)
	defer cancelPing()

	if err := store.Ping(pingCtx); err != nil {
		return fmt.Errorf("unable to reach Redis (ping): %w", err)
	}

	logger.Info("Redis ping success")

	return c.rootCfg.run(ctx, logger, store)
}
