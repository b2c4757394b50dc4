package renko_test

import (
	"testing"
	"time"

	"github.com/forrestang/RenkoDiscovery/internal/ohlc"
	"github.com/forrestang/RenkoDiscovery/internal/renko"
	"github.com/forrestang/RenkoDiscovery/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barAt(min int, o, h, l, c float64) ohlc.Bar {
	return ohlc.Bar{
		Timestamp: time.Date(2024, 1, 1, 0, min, 0, 0, time.UTC),
		Open:      o, High: h, Low: l, Close: c,
	}
}

func fixedSchedule(t *testing.T, brickSize, reversalSize float64) []schedule.Entry {
	t.Helper()
	entries, err := schedule.Price(brickSize, reversalSize)
	require.NoError(t, err)
	return entries
}

func TestRun_SingleUpBrick(t *testing.T) {
	bars := ohlc.Series{
		barAt(0, 1.0000, 1.0005, 0.9998, 1.0003),
		barAt(1, 1.0003, 1.0015, 1.0002, 1.0012),
	}
	entries := fixedSchedule(t, 0.0010, 0.0020)

	bricks, pending, err := renko.Run(bars, entries, renko.WickAll)
	require.NoError(t, err)
	require.Len(t, bricks, 1)
	assert.InDelta(t, 1.0000, bricks[0].Open, 1e-9)
	assert.InDelta(t, 1.0010, bricks[0].Close, 1e-9)
	assert.InDelta(t, 1.0010, bricks[0].High, 1e-9)
	assert.InDelta(t, 0.9998, bricks[0].Low, 1e-9)
	assert.Equal(t, renko.Up, bricks[0].Direction)
	assert.False(t, bricks[0].IsReversal)
	assert.NotNil(t, pending)
}

func TestRun_ContinuationBatch(t *testing.T) {
	bars := ohlc.Series{
		barAt(0, 1.0000, 1.0005, 0.9998, 1.0003),
		barAt(1, 1.0003, 1.0015, 1.0002, 1.0012),
		barAt(2, 1.0012, 1.0032, 1.0011, 1.0031),
	}
	entries := fixedSchedule(t, 0.0010, 0.0020)

	bricks, _, err := renko.Run(bars, entries, renko.WickAll)
	require.NoError(t, err)
	require.Len(t, bricks, 3)

	assert.InDelta(t, 1.0010, bricks[1].Open, 1e-9)
	assert.InDelta(t, 1.0020, bricks[1].Close, 1e-9)
	assert.InDelta(t, 1.0010, bricks[1].Low, 1e-9, "intra-batch bricks don't carry the pre-batch retracement")

	assert.InDelta(t, 1.0020, bricks[2].Open, 1e-9)
	assert.InDelta(t, 1.0030, bricks[2].Close, 1e-9)
	assert.InDelta(t, 1.0020, bricks[2].Low, 1e-9)

	for _, b := range bricks {
		assert.False(t, b.IsReversal)
		assert.Equal(t, renko.Up, b.Direction)
	}
}

func TestRun_ReversalBatchMarksOnlyFirstBrick(t *testing.T) {
	bars := ohlc.Series{
		barAt(0, 1.0000, 1.0005, 0.9998, 1.0003),
		barAt(1, 1.0003, 1.0015, 1.0002, 1.0012),
		barAt(2, 1.0012, 1.0013, 0.9985, 0.9988),
	}
	entries := fixedSchedule(t, 0.0010, 0.0020)

	bricks, _, err := renko.Run(bars, entries, renko.WickAll)
	require.NoError(t, err)
	require.Len(t, bricks, 3)

	down1, down2 := bricks[1], bricks[2]
	assert.InDelta(t, 1.0010, down1.Open, 1e-9)
	assert.InDelta(t, 1.0000, down1.Close, 1e-9)
	assert.True(t, down1.IsReversal)

	assert.InDelta(t, 1.0000, down2.Open, 1e-9)
	assert.InDelta(t, 0.9990, down2.Close, 1e-9)
	assert.False(t, down2.IsReversal)
}

func TestRun_WickModeBigSuppressesSmallRetracement(t *testing.T) {
	bars := ohlc.Series{
		barAt(0, 1.0000, 1.00005, 0.99995, 1.0000),
		barAt(1, 1.0000, 1.0011, 0.99995, 1.0010),
	}
	entries := fixedSchedule(t, 0.0010, 0.0020)

	bricks, _, err := renko.Run(bars, entries, renko.WickBig)
	require.NoError(t, err)
	require.Len(t, bricks, 1)
	assert.InDelta(t, 1.0000, bricks[0].Low, 1e-9, "retracement 0.00005 < brick_size must be suppressed")
}

func TestRun_WickModeNoneNeverExtendsBeyondBody(t *testing.T) {
	bars := ohlc.Series{
		barAt(0, 1.0000, 1.0005, 0.9950, 1.0003),
		barAt(1, 1.0003, 1.0015, 1.0002, 1.0012),
	}
	entries := fixedSchedule(t, 0.0010, 0.0020)

	bricks, _, err := renko.Run(bars, entries, renko.WickNone)
	require.NoError(t, err)
	require.Len(t, bricks, 1)
	assert.InDelta(t, 1.0000, bricks[0].Low, 1e-9)
	assert.InDelta(t, 1.0010, bricks[0].High, 1e-9)
}

func TestRun_SingleBarYieldsNoBricks(t *testing.T) {
	bars := ohlc.Series{barAt(0, 1.0000, 1.0005, 0.9998, 1.0003)}
	entries := fixedSchedule(t, 0.0010, 0.0020)

	bricks, pending, err := renko.Run(bars, entries, renko.WickAll)
	require.NoError(t, err)
	assert.Empty(t, bricks)
	assert.Nil(t, pending)
}

func TestRun_NeverCrossesThresholdYieldsNoBricksOrPending(t *testing.T) {
	bars := ohlc.Series{
		barAt(0, 1.0000, 1.0003, 0.9998, 1.0001),
		barAt(1, 1.0001, 1.0004, 0.9999, 1.0002),
	}
	entries := fixedSchedule(t, 0.0010, 0.0020)

	bricks, pending, err := renko.Run(bars, entries, renko.WickAll)
	require.NoError(t, err)
	assert.Empty(t, bricks)
	assert.Nil(t, pending)
}

func TestRun_RejectsEmptySchedule(t *testing.T) {
	bars := ohlc.Series{
		barAt(0, 1.0000, 1.0003, 0.9998, 1.0001),
		barAt(1, 1.0001, 1.0004, 0.9999, 1.0002),
	}
	_, _, err := renko.Run(bars, nil, renko.WickAll)
	require.Error(t, err)
}

func TestRun_ADRModePendingVsActiveSchedule(t *testing.T) {
	// Schedule changes brick_size from 0.0010 to 0.0008 starting at source
	// index 2. The one brick completes at index 1 under the old entry. At
	// index 2 the new size is only pending, so thresholds still use 0.0010
	// and the 1.0018 close (which would cross 1.0010+0.0008) forms no
	// second brick.
	bars := ohlc.Series{
		barAt(0, 1.0000, 1.0005, 0.9998, 1.0003),
		barAt(1, 1.0003, 1.0015, 1.0002, 1.0012),
		barAt(2, 1.0012, 1.0020, 1.0010, 1.0018),
	}
	entries := []schedule.Entry{
		{SourceIndex: 0, BrickSize: 0.0010, ReversalSize: 0.0020, ADRValue: 0.0100, HasADR: true},
		{SourceIndex: 2, BrickSize: 0.0008, ReversalSize: 0.0016, ADRValue: 0.0080, HasADR: true},
	}

	bricks, _, err := renko.Run(bars, entries, renko.WickAll)
	require.NoError(t, err)
	require.Len(t, bricks, 1)
	assert.InDelta(t, 0.0010, bricks[0].BrickSize, 1e-9, "brick started under the old schedule entry must keep its size")
	assert.True(t, bricks[0].HasADR)
	assert.InDelta(t, 0.0100, bricks[0].ADRValue, 1e-9)
}
