package commands

import (
	"os"

	"github.com/forrestang/RenkoDiscovery/internal/adr"
	"github.com/forrestang/RenkoDiscovery/internal/analytics"
	"github.com/forrestang/RenkoDiscovery/internal/calendar"
	"github.com/forrestang/RenkoDiscovery/internal/config"
	"github.com/forrestang/RenkoDiscovery/internal/ohlc"
	"github.com/forrestang/RenkoDiscovery/internal/renko"
	"github.com/forrestang/RenkoDiscovery/internal/schedule"
)

// loadBars reads newline-delimited OHLC bars at path into a Series.
func loadBars(path string) (ohlc.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ohlc.LoadJSONL(f)
}

// buildSchedule derives the piecewise-constant brick/reversal/ADR schedule
// from an EngineConfig, choosing between fixed sizing and ADR-anchored
// sizing per SizeMode.
func buildSchedule(bars ohlc.Series, cfg *config.EngineConfig, sess calendar.Schedule) ([]schedule.Entry, error) {
	if cfg.SizeMode == config.SizeModeADR {
		lookup := adr.Compute(bars, sess, cfg.ADRPeriod)
		return schedule.ADRMode(bars, sess, lookup, cfg.BrickPct, cfg.ReversalPct)
	}
	return schedule.Price(cfg.BrickSize, cfg.ReversalSize)
}

// runToTable drives the full pipeline — schedule, Renko engine, analytics
// — and returns the completed brick sequence and feature table.
func runToTable(bars ohlc.Series, cfg *config.EngineConfig) ([]renko.Brick, *analytics.Table, error) {
	sess := calendar.DefaultSchedule()

	entries, err := buildSchedule(bars, cfg, sess)
	if err != nil {
		return nil, nil, err
	}

	bricks, _, err := renko.Run(bars, entries, cfg.WickMode)
	if err != nil {
		return nil, nil, err
	}

	// In ADR mode the per-brick absolute sizes vary over the series (each
	// brick already carries its own via table.BrickSize/ReversalSize); what
	// the analytics pipeline needs from Settings is just the brick/reversal
	// ratio (use_3bar), which brick_pct/reversal_pct preserve.
	brickSize, reversalSize := cfg.BrickSize, cfg.ReversalSize
	if cfg.SizeMode == config.SizeModeADR {
		brickSize, reversalSize = cfg.BrickPct, cfg.ReversalPct
	}

	settings := analytics.Settings{
		ADRPeriod:      cfg.ADRPeriod,
		BrickSize:      brickSize,
		ReversalSize:   reversalSize,
		WickMode:       cfg.WickMode,
		MA1Period:      cfg.MA1Period,
		MA2Period:      cfg.MA2Period,
		MA3Period:      cfg.MA3Period,
		ChopPeriod:     cfg.ChopPeriod,
		SMAE1Period:    cfg.SMAE1Period,
		SMAE1Deviation: cfg.SMAE1Deviation,
		SMAE2Period:    cfg.SMAE2Period,
		SMAE2Deviation: cfg.SMAE2Deviation,
		PWAPSigmas:     cfg.PWAPSigmas,
	}

	table, err := analytics.Compute(cmdContext(), bricks, sess, settings)
	if err != nil {
		return nil, nil, err
	}
	return bricks, table, nil
}
