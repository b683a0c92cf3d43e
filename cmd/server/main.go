// Command myfishingdiary runs the MyFishingDiary API server and its
// maintenance commands.
//
// Usage:
//
//	myfishingdiary [serve]   start the HTTP server (default)
//	myfishingdiary db seed   load the demo data set
//	myfishingdiary db drop   drop all collections
//	myfishingdiary version
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/myfishingdiary/internal/config"
	"github.com/mmynk/myfishingdiary/pkg/logging"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(execute())
}

func execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "myfishingdiary",
		Short:         "MyFishingDiary API server",
		Long:          "REST API for logging fishing trips, catches, comments and fishing groups.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.LoadDotEnv(envFile)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file with environment variables to load")

	rootCmd.AddCommand(newServeCmd(), newDBCmd(), newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "myfishingdiary version %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}

// loadConfig reads the environment and installs the logger. Config warnings
// are logged once the logger exists.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(os.Stderr, cfg.SlogLevel(), cfg.IsProduction())
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	return cfg, logger, nil
}
