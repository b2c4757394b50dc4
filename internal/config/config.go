// Package config loads the engine's full run configuration from a YAML
// file, with environment-variable overrides for the handful of values
// that operators commonly tune per-deployment rather than per-run.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/forrestang/RenkoDiscovery/internal/errs"
	"github.com/forrestang/RenkoDiscovery/internal/renko"
)

// SizeMode selects between a fixed brick/reversal size and ADR-anchored
// dynamic sizing.
type SizeMode string

const (
	SizeModeFixed SizeMode = "fixed"
	SizeModeADR   SizeMode = "adr"
)

// EngineConfig is the full configuration for one Renko-to-backtest run:
// sizing, wick policy, indicator periods, and the backtest rule set.
type EngineConfig struct {
	SizeMode SizeMode `yaml:"size_mode"`

	// BrickSize/ReversalSize are absolute price sizes, used in fixed mode.
	BrickSize    float64 `yaml:"brick_size"`
	ReversalSize float64 `yaml:"reversal_size"`

	// BrickPct/ReversalPct are percentages of session ADR, used in ADR mode.
	BrickPct    float64 `yaml:"brick_pct"`
	ReversalPct float64 `yaml:"reversal_pct"`

	ADRPeriod int            `yaml:"adr_period"`
	WickMode  renko.WickMode `yaml:"wick_mode"`

	MA1Period int `yaml:"ma1_period"`
	MA2Period int `yaml:"ma2_period"`
	MA3Period int `yaml:"ma3_period"`

	ChopPeriod int `yaml:"chop_period"`

	SMAE1Period     int     `yaml:"smae1_period"`
	SMAE1Deviation  float64 `yaml:"smae1_deviation"`
	SMAE2Period     int     `yaml:"smae2_period"`
	SMAE2Deviation  float64 `yaml:"smae2_deviation"`

	PWAPSigmas []float64 `yaml:"pwap_sigmas"`

	Backtest BacktestConfig `yaml:"backtest"`
}

// BacktestConfig mirrors the backtest evaluator's input contract.
type BacktestConfig struct {
	StopType     string  `yaml:"stop_type"`
	StopValue    float64 `yaml:"stop_value"`
	TargetType   string  `yaml:"target_type"`
	TargetValue  float64 `yaml:"target_value"`
	TargetMA     int     `yaml:"target_ma"`
	ReportUnit   string  `yaml:"report_unit"`
	AllowOverlap bool    `yaml:"allow_overlap"`
}

// Load reads a YAML config file at path, then applies the
// RENKO_BRICK_SIZE / RENKO_REVERSAL_SIZE / RENKO_WICK_MODE environment
// overrides (loaded from a .env file in the working directory, if
// present), and validates the merged result.
func Load(path string) (*EngineConfig, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.InvalidConfig, "reading config file %q: %v", path, err)
	}

	var cfg EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errs.New(errs.InvalidConfig, "parsing config file %q: %v", path, err)
	}

	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *EngineConfig) {
	if v := os.Getenv("RENKO_BRICK_SIZE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.BrickSize = f
		}
	}
	if v := os.Getenv("RENKO_REVERSAL_SIZE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ReversalSize = f
		}
	}
	if v := os.Getenv("RENKO_WICK_MODE"); v != "" {
		cfg.WickMode = renko.WickMode(strings.ToLower(v))
	}
}

// Validate checks the engine's configuration invariants: reversal_size >=
// brick_size (or reversal_pct >= brick_pct in ADR mode), positive MA
// periods (and a positive adr_period in ADR mode), no duplicate MA periods,
// and known wick_mode/stop_type/target_type values. It does not check
// pwap_sigmas, chop_period or the SMAE periods.
func Validate(cfg *EngineConfig) error {
	switch cfg.SizeMode {
	case SizeModeADR:
		if cfg.BrickPct <= 0 {
			return errs.New(errs.InvalidConfig, "brick_pct must be positive, got %v", cfg.BrickPct)
		}
		if cfg.ReversalPct < cfg.BrickPct {
			return errs.New(errs.InvalidConfig, "reversal_pct (%v) must be >= brick_pct (%v)", cfg.ReversalPct, cfg.BrickPct)
		}
		if cfg.ADRPeriod <= 0 {
			return errs.New(errs.InvalidConfig, "adr_period must be positive in adr size_mode")
		}
	default:
		if cfg.BrickSize <= 0 {
			return errs.New(errs.InvalidConfig, "brick_size must be positive, got %v", cfg.BrickSize)
		}
		if cfg.ReversalSize < cfg.BrickSize {
			return errs.New(errs.InvalidConfig, "reversal_size (%v) must be >= brick_size (%v)", cfg.ReversalSize, cfg.BrickSize)
		}
	}
	for _, p := range []int{cfg.MA1Period, cfg.MA2Period, cfg.MA3Period} {
		if p <= 0 {
			return errs.New(errs.InvalidConfig, "MA periods must be positive")
		}
	}
	if cfg.MA1Period == cfg.MA2Period || cfg.MA2Period == cfg.MA3Period || cfg.MA1Period == cfg.MA3Period {
		return errs.New(errs.InvalidConfig, "MA1/MA2/MA3 periods must be distinct")
	}
	switch cfg.WickMode {
	case renko.WickAll, renko.WickBig, renko.WickNone:
	default:
		return errs.New(errs.InvalidConfig, "unknown wick_mode %q", cfg.WickMode)
	}
	switch cfg.Backtest.StopType {
	case "rr", "adr", "":
	default:
		return errs.New(errs.InvalidConfig, "unknown stop_type %q", cfg.Backtest.StopType)
	}
	switch cfg.Backtest.TargetType {
	case "fixed_rr", "fixed_adr", "ma_trail", "color_change", "":
	default:
		return errs.New(errs.InvalidConfig, "unknown target_type %q", cfg.Backtest.TargetType)
	}
	if cfg.Backtest.TargetType == "ma_trail" && (cfg.Backtest.TargetMA < 1 || cfg.Backtest.TargetMA > 3) {
		return errs.New(errs.InvalidConfig, "target_ma must be 1, 2, or 3 for ma_trail targets")
	}
	return nil
}
