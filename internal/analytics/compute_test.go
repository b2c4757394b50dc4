package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/forrestang/RenkoDiscovery/internal/analytics"
	"github.com/forrestang/RenkoDiscovery/internal/calendar"
	"github.com/forrestang/RenkoDiscovery/internal/renko"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brick(minute int, dir renko.Direction, open, closePrice float64, reversal bool) renko.Brick {
	t := time.Date(2024, 1, 2, 0, minute, 0, 0, time.UTC)
	return renko.Brick{
		Open: open, Close: closePrice,
		High: maxF(open, closePrice), Low: minF(open, closePrice),
		Direction:      dir,
		IsReversal:     reversal,
		TimestampOpen:  t.UnixMilli(),
		TimestampClose: t.Add(time.Minute).UnixMilli(),
		BrickSize:      0.0010,
		ReversalSize:   0.0020,
	}
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func buildBricks() []renko.Brick {
	var bricks []renko.Brick
	price := 1.0000
	for i := 0; i < 20; i++ {
		dir := renko.Up
		if i%2 == 0 {
			dir = renko.Down
		}
		next := price + float64(dir)*0.0010
		bricks = append(bricks, brick(i, dir, price, next, false))
		price = next
	}
	return bricks
}

func TestCompute_RejectsEmptyBricks(t *testing.T) {
	_, err := analytics.Compute(context.Background(), nil, calendar.DefaultSchedule(), analytics.Settings{})
	require.Error(t, err)
}

func TestCompute_ProducesAlignedColumns(t *testing.T) {
	bricks := buildBricks()
	settings := analytics.Settings{
		MA1Period: 2, MA2Period: 3, MA3Period: 4,
		ChopPeriod: 5,
		SMAE1Period: 3, SMAE1Deviation: 2,
		SMAE2Period: 5, SMAE2Deviation: 4,
		PWAPSigmas: []float64{1, 2},
	}

	table, err := analytics.Compute(context.Background(), bricks, calendar.DefaultSchedule(), settings)
	require.NoError(t, err)
	assert.Equal(t, len(bricks), table.Len())
	assert.Len(t, table.EMA1, len(bricks))
	assert.Len(t, table.State, len(bricks))
}

func TestCompute_StateResetsCounters(t *testing.T) {
	bricks := buildBricks()
	settings := analytics.Settings{MA1Period: 2, MA2Period: 3, MA3Period: 4, SMAE1Period: 2, SMAE2Period: 3}
	table, err := analytics.Compute(context.Background(), bricks, calendar.DefaultSchedule(), settings)
	require.NoError(t, err)

	for i := 1; i < table.Len(); i++ {
		if table.State[i] != table.State[i-1] {
			assert.Equal(t, 1, table.StateBarCount[i])
		}
	}
}

func TestCompute_MFESameColorRun(t *testing.T) {
	bricks := []renko.Brick{
		brick(0, renko.Up, 1.0000, 1.0010, false),
		brick(1, renko.Up, 1.0010, 1.0020, false),
		brick(2, renko.Down, 1.0020, 1.0010, true),
	}
	settings := analytics.Settings{MA1Period: 1, MA2Period: 1, MA3Period: 1}
	table, err := analytics.Compute(context.Background(), bricks, calendar.DefaultSchedule(), settings)
	require.NoError(t, err)

	assert.Equal(t, 1, table.MFEClrBars[0])
	assert.InDelta(t, 0.0010, table.MFEClrPrice[0], 1e-9)
	assert.Equal(t, 0, table.MFEClrBars[1])
}

func TestCompute_RealClrDerivedEvenWhenMFEIsZero(t *testing.T) {
	bricks := []renko.Brick{
		brick(0, renko.Up, 1.0000, 1.0010, false),
		brick(1, renko.Up, 1.0010, 1.0020, false),
		brick(2, renko.Down, 1.0020, 1.0010, true),
	}
	for i := range bricks {
		bricks[i].ADRValue = 0.0040
		bricks[i].HasADR = true
	}
	settings := analytics.Settings{MA1Period: 1, MA2Period: 1, MA3Period: 1}
	table, err := analytics.Compute(context.Background(), bricks, calendar.DefaultSchedule(), settings)
	require.NoError(t, err)

	// Row 0 has a one-bar same-color run (mfe_clr_price = 0.0010).
	assert.InDelta(t, 0.0010-0.0020, table.RealClrPrice[0], 1e-9)
	assert.InDelta(t, (0.0010-0.0020)/0.0040, table.RealClrADR[0], 1e-9)
	assert.InDelta(t, (0.0010-0.0020)/0.0020, table.RealClrRR[0], 1e-9)

	// Row 1 has no same-color run (mfe_clr_bars == 0); REAL_clr_* must
	// still be derived from the zero-valued mfe_clr_price, not left at
	// the column's own zero value.
	assert.InDelta(t, -0.0020, table.RealClrPrice[1], 1e-9)
	assert.InDelta(t, -0.0020/0.0040, table.RealClrADR[1], 1e-9)
	assert.InDelta(t, -1.0, table.RealClrRR[1], 1e-9)
}
