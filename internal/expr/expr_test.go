package expr_test

import (
	"context"
	"testing"
	"time"

	"github.com/forrestang/RenkoDiscovery/internal/analytics"
	"github.com/forrestang/RenkoDiscovery/internal/calendar"
	"github.com/forrestang/RenkoDiscovery/internal/expr"
	"github.com/forrestang/RenkoDiscovery/internal/renko"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBrick(minute int, dir renko.Direction, open, closePrice float64) renko.Brick {
	t := time.Date(2024, 1, 2, 0, minute, 0, 0, time.UTC)
	return renko.Brick{
		Open: open, Close: closePrice,
		High: maxF(open, closePrice), Low: minF(open, closePrice),
		Direction:      dir,
		TimestampOpen:  t.UnixMilli(),
		TimestampClose: t.Add(time.Minute).UnixMilli(),
		BrickSize:      0.0010,
		ReversalSize:   0.0010,
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

func buildTable(t *testing.T) *analytics.Table {
	t.Helper()
	var bricks []renko.Brick
	price := 1.0000
	for i := 0; i < 10; i++ {
		dir := renko.Up
		if i%3 == 0 {
			dir = renko.Down
		}
		next := price + float64(dir)*0.0010
		bricks = append(bricks, testBrick(i, dir, price, next))
		price = next
	}
	settings := analytics.Settings{MA1Period: 2, MA2Period: 3, MA3Period: 4}
	table, err := analytics.Compute(context.Background(), bricks, calendar.DefaultSchedule(), settings)
	require.NoError(t, err)
	return table
}

func TestParse_RejectsUnknownColumn(t *testing.T) {
	table := buildTable(t)
	schema := expr.NewSchema(table)
	_, err := expr.Parse("bogus_col > 1", schema)
	require.Error(t, err)
}

func TestParse_RejectsSyntaxError(t *testing.T) {
	table := buildTable(t)
	schema := expr.NewSchema(table)
	_, err := expr.Parse("close >", schema)
	require.Error(t, err)
	_, err = expr.Parse("(close > 1", schema)
	require.Error(t, err)
}

func TestEval_DirectionComparison(t *testing.T) {
	table := buildTable(t)
	schema := expr.NewSchema(table)
	pred, err := expr.Parse("direction == 1", schema)
	require.NoError(t, err)

	mask := pred.Eval(schema)
	require.Len(t, mask, table.Len())
	for i, m := range mask {
		assert.Equal(t, table.Direction[i] == renko.Up, m)
	}
}

func TestEval_ShiftedColumns(t *testing.T) {
	table := buildTable(t)
	schema := expr.NewSchema(table)
	pred, err := expr.Parse("close1 < close", schema)
	require.NoError(t, err)

	mask := pred.Eval(schema)
	assert.False(t, mask[0], "row 0 has no prior bar, shift is undefined")
	for i := 1; i < table.Len(); i++ {
		assert.Equal(t, table.Close[i-1] < table.Close[i], mask[i])
	}
}

func TestEval_BooleanAndArithmeticComposition(t *testing.T) {
	table := buildTable(t)
	schema := expr.NewSchema(table)
	pred, err := expr.Parse("(close - open) > 0 and direction == 1", schema)
	require.NoError(t, err)

	mask := pred.Eval(schema)
	for i, m := range mask {
		want := (table.Close[i]-table.Open[i]) > 0 && table.Direction[i] == renko.Up
		assert.Equal(t, want, m)
	}
}

func TestEval_MAAliasAndShift(t *testing.T) {
	table := buildTable(t)
	schema := expr.NewSchema(table)
	pred, err := expr.Parse("MA1_1 > 0", schema)
	require.NoError(t, err)

	mask := pred.Eval(schema)
	for i, m := range mask {
		if i == 0 || !table.EMA1OK[i-1] {
			assert.False(t, m)
			continue
		}
		assert.Equal(t, table.EMA1[i-1] > 0, m)
	}
}

func TestEval_NotAndOrPrecedence(t *testing.T) {
	table := buildTable(t)
	schema := expr.NewSchema(table)
	pred, err := expr.Parse("not direction == 1 or close > 100", schema)
	require.NoError(t, err)
	mask := pred.Eval(schema)
	for i, m := range mask {
		want := !(table.Direction[i] == renko.Up) || table.Close[i] > 100
		assert.Equal(t, want, m)
	}
}

func TestMatchingIndices(t *testing.T) {
	table := buildTable(t)
	schema := expr.NewSchema(table)
	pred, err := expr.Parse("direction == -1", schema)
	require.NoError(t, err)
	idx := pred.MatchingIndices(schema)
	for _, i := range idx {
		assert.Equal(t, renko.Down, table.Direction[i])
	}
}
