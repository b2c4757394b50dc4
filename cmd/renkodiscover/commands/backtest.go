package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/forrestang/RenkoDiscovery/internal/backtest"
	"github.com/forrestang/RenkoDiscovery/internal/cliutil"
	"github.com/forrestang/RenkoDiscovery/internal/config"
	"github.com/forrestang/RenkoDiscovery/internal/expr"
)

var signalsPath string

var backtestCmd = &cobra.Command{
	Use:   "backtest [ohlc.jsonl]",
	Short: "Evaluate signal predicates against the analytics table and backtest entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		signalDefs, err := config.LoadSignals(signalsPath)
		if err != nil {
			return err
		}

		bars, err := loadBars(args[0])
		if err != nil {
			return err
		}

		_, table, err := runToTable(bars, cfg)
		if err != nil {
			return err
		}

		schema := expr.NewSchema(table)
		var signals []backtest.SignalEntries
		for _, def := range signalDefs {
			pred, err := expr.Parse(def.Expression, schema)
			if err != nil {
				return err
			}
			signals = append(signals, backtest.SignalEntries{
				Name:    def.Name,
				Indices: pred.MatchingIndices(schema),
			})
		}

		btCfg := backtest.Config{
			StopType:     backtest.StopType(cfg.Backtest.StopType),
			StopValue:    cfg.Backtest.StopValue,
			TargetType:   backtest.TargetType(cfg.Backtest.TargetType),
			TargetValue:  cfg.Backtest.TargetValue,
			TargetMA:     cfg.Backtest.TargetMA,
			ReportUnit:   backtest.ReportUnit(cfg.Backtest.ReportUnit),
			AllowOverlap: cfg.Backtest.AllowOverlap,
		}

		trades, summaries, err := backtest.Run(table, signals, btCfg)
		if err != nil {
			return err
		}

		cliutil.PrintTrades(os.Stdout, trades)
		cliutil.PrintSummaries(os.Stdout, summaries)
		return nil
	},
}

func init() {
	backtestCmd.Flags().StringVarP(&signalsPath, "signals", "s", "signals.yaml", "path to the named entry-signal predicates YAML")
	rootCmd.AddCommand(backtestCmd)
}
