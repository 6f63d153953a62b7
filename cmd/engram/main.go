// Command engram is the CLI entry point for capturing, storing, and
// querying AI coding agent reasoning sessions inside a host git repository.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AtticAIInc/engram/internal/config"
	"github.com/AtticAIInc/engram/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	workspace  string

	logger *zap.Logger
	cfg    *config.Config
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "engram",
		Short:         "Capture, store, and query AI coding agent reasoning sessions",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return bootstrap(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.CloseAll()
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&jsonOutput, "json", false, "render output as JSON where supported")
	root.PersistentFlags().StringVar(&workspace, "repo", ".", "path to the host git repository")

	root.AddCommand(
		newInitCmd(),
		newRecordCmd(),
		newImportCmd(),
		newLogCmd(),
		newShowCmd(),
		newSearchCmd(),
		newTraceCmd(),
		newBlameCmd(),
		newDiffCmd(),
		newReviewCmd(),
		newGraphCmd(),
		newPushCmd(),
		newPullCmd(),
		newFetchCmd(),
		newStatsCmd(),
		newPRSummaryCmd(),
		newGCCmd(),
		newReindexCmd(),
		newHookHandlerCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)

	return root
}

// bootstrap wires the CLI's ambient stack: zap at the process boundary
// (bumped to debug under -v), then the workspace's own categorized file
// logging, loaded from .engram/config.yaml.
func bootstrap(cmd *cobra.Command) error {
	zapCfg := zap.NewProductionConfig()
	if verbose {
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.TimeKey = ""
	built, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger = built

	loaded, err := config.Load(workspace)
	if err != nil {
		logger.Warn("failed to load config, using defaults", zap.Error(err))
		loaded = config.DefaultConfig()
	}
	if verbose {
		loaded.Logging.DebugMode = true
		loaded.Logging.Level = "debug"
	}
	cfg = loaded

	if err := logging.Initialize(workspace); err != nil {
		logger.Warn("failed to initialize file logging", zap.Error(err))
	}

	return nil
}
