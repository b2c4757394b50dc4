package indicators_test

import (
	"testing"

	"github.com/forrestang/RenkoDiscovery/internal/indicators"
	"github.com/stretchr/testify/assert"
)

func TestSMAE_BandsScaleByDeviationPct(t *testing.T) {
	env := indicators.SMAE([]float64{10, 10, 10, 10}, 3, 10)
	assert.True(t, env.OK[2])
	assert.InDelta(t, 10.0, env.Center[2], 1e-9)
	assert.InDelta(t, 11.0, env.Upper[2], 1e-9)
	assert.InDelta(t, 9.0, env.Lower[2], 1e-9)
}

func TestSMAE_UndefinedBeforeWindowFills(t *testing.T) {
	env := indicators.SMAE([]float64{1, 2}, 3, 5)
	assert.False(t, env.OK[0])
	assert.False(t, env.OK[1])
}

func TestSMAE_RollingSumMatchesFreshWindow(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	env := indicators.SMAE(values, 3, 0)
	assert.InDelta(t, (3.0+4.0+5.0)/3, env.Center[4], 1e-9)
	assert.InDelta(t, (4.0+5.0+6.0)/3, env.Center[5], 1e-9)
}
