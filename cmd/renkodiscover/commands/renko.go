package commands

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/forrestang/RenkoDiscovery/internal/calendar"
	"github.com/forrestang/RenkoDiscovery/internal/cliutil"
	"github.com/forrestang/RenkoDiscovery/internal/config"
	"github.com/forrestang/RenkoDiscovery/internal/renko"
)

var renkoCmd = &cobra.Command{
	Use:   "renko [ohlc.jsonl]",
	Short: "Convert an OHLC JSONL stream into a Renko brick sequence",
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

		sess := calendar.DefaultSchedule()
		entries, err := buildSchedule(bars, cfg, sess)
		if err != nil {
			return err
		}

		bricks, pending, err := renko.Run(bars, entries, cfg.WickMode)
		if err != nil {
			return err
		}
		if pending != nil {
			log.Info().Msg("one pending (uncommitted) brick at series end")
		}

		cliutil.PrintBricks(os.Stdout, bricks)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renkoCmd)
}
