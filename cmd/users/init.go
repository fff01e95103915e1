package users

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/sig-0/cashrates/cmd/env"
	"github.com/sig-0/cashrates/users"
)

// initCfg wraps the init configuration
type initCfg struct {
	rootCfg *usersCfg
}

// newInitCmd creates the init command
func newInitCmd(rootCfg *usersCfg) *ffcli.Command {
	cfg := &initCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("init", flag.ExitOnError)
	rootCfg.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       "init",
		ShortUsage: "users init",
		LongHelp:   "Creates the user registry schema",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *initCfg) exec(ctx context.Context, _ []string) error {
	// Load .env
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("unable to load .env vars")
	}

	dsn := os.Getenv(env.Prefix + env.DBURLSuffix)
	if dsn == "" {
		return fmt.Errorf("missing %s", env.Prefix+env.DBURLSuffix)
	}

	// Open the DB
	pool, err := users.Connect(ctx, dsn)
	if err != nil {
		return err
	}

	defer pool.Close()

	store := users.NewStore(pool)

	fmt.Println("Creating user registry schema...")

	if err := store.Init(ctx); err != nil {
		return err
	}

	fmt.Println("User registry schema ready!")

	return nil
}
