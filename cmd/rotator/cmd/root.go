package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rotator",
	Short: "Regime rotation backtester for daily bars",
	Long: `Rotator replays a benchmark trend rotation over daily price bars.

Each day the benchmark's close is compared with its moving average. Below
the average the most volatile (NATR) ticker of the below bucket is bought,
above it the most volatile ticker of the above bucket. Positions exit on a
regime flip, an ATR or percentage profit target, or after a holding period.

It provides tools for:
  - Backtesting the rotation against CSV bar files
  - Generating and validating configuration files
  - Querying the SQLite trade journal`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
