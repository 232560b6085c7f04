package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/library-api/internal/config"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version string
	Commit  string
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DatabasePath string
	Build        BuildInfo
}

// loadConfig reads the environment and applies flag overrides on top.
func (o *RootOptions) loadConfig() *config.Config {
	cfg := config.NewConfig()
	if o.DatabasePath != "" {
		cfg.Database.Path = o.DatabasePath
	}
	return cfg
}

// NewRootCommand creates the root command. Without a subcommand it serves HTTP.
func NewRootCommand(build BuildInfo) *cobra.Command {
	opts := &RootOptions{Build: build}
	serve := NewServeCommand(opts)

	cmd := &cobra.Command{
		Use:   "library-api",
		Short: "Library catalog and lending service",
		Long: `REST API for a small library: authors, books, genres and publishers,
with a borrow and return workflow.

Configuration comes from environment variables such as PORT, DATABASE_PATH
and LIBRARY_MAX_BORROWS_PER_USER.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	cmd.PersistentFlags().StringVar(&opts.DatabasePath, "database-path", "", "SQLite database file (overrides DATABASE_PATH)")
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}
