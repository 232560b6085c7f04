package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/library-api/internal/entrypoint"
)

type serveOptions struct {
	Host     string
	Port     int32
	ReadOnly bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Start the HTTP server",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.loadConfig()
			if cmd.Flags().Changed("host") {
				cfg.HTTP.Host = opts.Host
			}
			if cmd.Flags().Changed("port") {
				cfg.HTTP.Port = opts.Port
			}
			if cmd.Flags().Changed("read-only") {
				cfg.ReadOnly = opts.ReadOnly
			}
			return entrypoint.Run(cfg, rootOpts.Build.Version)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "listen address (overrides HOST)")
	cmd.Flags().Int32VarP(&opts.Port, "port", "p", 0, "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&opts.ReadOnly, "read-only", false, "reject every write request")

	return cmd
}
