// Package main implements the mockforge CLI, the ambient entry point
// around the runtime engine's library packages.
//
// # File Index
//
//   - main.go       - entry point, rootCmd, global flags, init()
//   - cmd_import.go - import subcommands (openapi, asyncapi, har, postman)
//   - cmd_dataset.go - dataset generation and export subcommands
//   - cmd_review.go  - access-review subcommands
//   - cmd_config.go  - config validate/init subcommands
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SaaSy-Solutions/mockforge-sub004/internal/config"
	"github.com/SaaSy-Solutions/mockforge-sub004/internal/logging"
)

var (
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mockforge",
	Short: "mockforge - multi-protocol mocking, chaos injection, and contract governance",
	Long: `mockforge runs a mock server's workspace, data generation, import, and
governance surfaces from the command line.

Run a subcommand to generate data, import an API description into a
workspace, or drive an access review.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if verbose {
			loaded.Logging.DebugMode = true
			loaded.Logging.Level = "debug"
		}
		cfg = loaded

		if err := logging.Initialize(logging.Config{
			DebugMode:  cfg.Logging.DebugMode,
			Categories: cfg.Logging.Categories,
			Level:      cfg.Logging.Level,
			JSONFormat: cfg.Logging.JSONFormat,
			Dir:        cfg.Logging.Dir,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to initialize file logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "mockforge.yaml", "path to the configuration file")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(datasetCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
