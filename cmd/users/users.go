package users

import (
	"context"
	"flag"

	"github.com/peterbourgon/ff/v3/ffcli"
)

// usersCfg wraps the users configuration
type usersCfg struct{}

// NewUsersCmd creates the users subcommand
func NewUsersCmd() *ffcli.Command {
	cfg := &usersCfg{}

	fs := flag.NewFlagSet("users", flag.ExitOnError)
	cfg.RegisterFlags(fs)

	cmd := &ffcli.Command{
		Name:       "users",
		ShortUsage: "<subcommand> [flags] [<arg>...]",
		LongHelp:   "Runs the cashrates user registry suite",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
	}

	// Add the subcommands
	cmd.Subcommands = []*ffcli.Command{
		newInitCmd(cfg),
	}

	return cmd
}

func (c *usersCfg) RegisterFlags(_ *flag.FlagSet) {
	// nothing for now
}
