package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/forrestang/RenkoDiscovery/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
size_mode: fixed
brick_size: 0.0010
reversal_size: 0.0020
wick_mode: big
ma1_period: 5
ma2_period: 15
ma3_period: 30
chop_period: 20
backtest:
  stop_type: rr
  stop_value: 1
  target_type: fixed_rr
  target_value: 2
  report_unit: rr
`

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeTemp(t, validYAML)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0010, cfg.BrickSize)
	assert.Equal(t, 5, cfg.MA1Period)
}

func TestLoad_EnvOverridesBrickSize(t *testing.T) {
	path := writeTemp(t, validYAML)
	t.Setenv("RENKO_BRICK_SIZE", "0.0025")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0025, cfg.BrickSize)
}

func TestLoad_RejectsMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate_RejectsReversalLessThanBrick(t *testing.T) {
	path := writeTemp(t, `
brick_size: 0.0020
reversal_size: 0.0010
ma1_period: 5
ma2_period: 15
ma3_period: 30
wick_mode: none
`)
	_, err := config.Load(path)
	require.Error(t, err)
}

func TestValidate_RejectsDuplicateMAPeriods(t *testing.T) {
	path := writeTemp(t, `
brick_size: 0.0010
reversal_size: 0.0010
ma1_period: 5
ma2_period: 5
ma3_period: 30
wick_mode: none
`)
	_, err := config.Load(path)
	require.Error(t, err)
}
