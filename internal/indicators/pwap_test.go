package indicators_test

import (
	"testing"

	"github.com/forrestang/RenkoDiscovery/internal/indicators"
	"github.com/stretchr/testify/assert"
)

func TestPWAP_ResetsAtSessionBoundary(t *testing.T) {
	high := []float64{10, 10, 20, 20}
	low := []float64{8, 8, 18, 18}
	close := []float64{9, 9, 19, 19}
	sessions := []int64{1, 1, 2, 2}

	rows := indicators.PWAP(high, low, close, sessions, []float64{1})

	// Session 1: tp = 9 both bricks -> running mean stays 9.
	assert.InDelta(t, 9.0, rows[0].Mean, 1e-9)
	assert.InDelta(t, 9.0, rows[1].Mean, 1e-9)
	assert.InDelta(t, 0.0, rows[1].Upper[1]-rows[1].Mean, 1e-9) // zero variance within session

	// Session 2 resets: tp = 19 both bricks.
	assert.InDelta(t, 19.0, rows[2].Mean, 1e-9)
	assert.InDelta(t, 19.0, rows[3].Mean, 1e-9)
}

func TestPWAP_BandsWidenWithSigma(t *testing.T) {
	high := []float64{10, 14}
	low := []float64{8, 8}
	close := []float64{9, 9}
	sessions := []int64{1, 1}

	rows := indicators.PWAP(high, low, close, sessions, []float64{1, 2})
	assert.Greater(t, rows[1].Upper[2], rows[1].Upper[1])
	assert.Less(t, rows[1].Lower[2], rows[1].Lower[1])
}
