// Package cli defines the cobra command tree for the photo comments service.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/qolzam/telar/apps/photo-comments/internal/pkg/log"
	platformconfig "github.com/qolzam/telar/apps/photo-comments/internal/platform/config"
)

var (
	flagDebug bool
	flagPort  int
)

// NewRootCmd creates the root command. Running it without a subcommand serves HTTP.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "photo-comments",
		Short:         "Comments for photos over HTTP",
		Long:          "Stores short text comments attached to photos and serves them over a JSON HTTP API.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	root.Flags().IntVar(&flagPort, "port", 0, "port to listen on (default: SERVER_PORT)")

	root.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
	)

	return root
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig() (*platformconfig.Config, error) {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	if flagPort > 0 {
		cfg.Server.Port = flagPort
	}
	if flagDebug {
		cfg.Server.Debug = true
	}
	log.SetDebug(cfg.Server.Debug)
	return cfg, nil
}
