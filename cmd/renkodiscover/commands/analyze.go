package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forrestang/RenkoDiscovery/internal/cliutil"
	"github.com/forrestang/RenkoDiscovery/internal/config"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [ohlc.jsonl]",
	Short: "Compute bricks and the full analytics feature table for an OHLC JSONL stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		bars, err := loadBars(args[0])
		if err != nil {
			return err
		}

		bricks, table, err := runToTable(bars, cfg)
		if err != nil {
			return err
		}

		cliutil.PrintBricks(os.Stdout, bricks)
		fmt.Fprintf(os.Stdout, "\n%d bricks, trimmed rows [%d, %d] (%d usable)\n",
			table.Len(), table.TrimLeft, table.TrimRight, table.Rows())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
