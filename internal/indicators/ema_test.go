package indicators_test

import (
	"testing"

	"github.com/forrestang/RenkoDiscovery/internal/indicators"
	"github.com/stretchr/testify/assert"
)

func TestEMA_UndefinedBeforeSeed(t *testing.T) {
	ema, ok := indicators.EMA([]float64{1, 2, 3}, 5)
	assert.False(t, ok[0])
	assert.False(t, ok[2])
	assert.Len(t, ema, 3)
}

func TestEMA_SeedsWithSimpleMean(t *testing.T) {
	ema, ok := indicators.EMA([]float64{1, 2, 3, 4, 5}, 3)
	assert.True(t, ok[2])
	assert.InDelta(t, 2.0, ema[2], 1e-9) // mean(1,2,3)
	assert.False(t, ok[0])
	assert.False(t, ok[1])
}

func TestEMA_RecursesAfterSeed(t *testing.T) {
	ema, ok := indicators.EMA([]float64{1, 2, 3, 4, 5}, 3)
	require := assert.New(t)
	require.True(ok[3])
	k := 2.0 / 4.0
	want := (4.0-ema[2])*k + ema[2]
	require.InDelta(want, ema[3], 1e-9)
}
