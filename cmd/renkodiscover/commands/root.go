// Package commands implements the renkodiscover CLI: brick generation,
// analytics-table computation, and signal backtesting over OHLC input.
package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/forrestang/RenkoDiscovery/internal/logging"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "renkodiscover",
	Short: "renkodiscover converts OHLC series into Renko bricks, analytics, and backtests",
	Long: `renkodiscover builds Renko brick sequences from OHLC bars, computes a
per-brick analytics table (moving averages, pullback counters, forward
excursion metrics), and evaluates predicate-driven entry signals against
fixed stop/target backtest rules.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("renkodiscover starting")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// cmdContext returns the background context handed to the analytics
// pipeline, which checks it for cooperative cancellation between bricks.
// The Renko engine and the expression evaluator take no context.
func cmdContext() context.Context {
	return context.Background()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "renkodiscover.yaml", "path to the engine config YAML")
}
