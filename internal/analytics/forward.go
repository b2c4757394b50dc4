package analytics

import (
	"context"

	"github.com/forrestang/RenkoDiscovery/internal/renko"
)

// computeForwardScans fills the MFE_clr_* and REAL_MA*_* forward-looking
// columns. Each is an independent scan per row, so the outer loop is the
// only cancellation-check point needed.
func computeForwardScans(ctx context.Context, t *Table) error {
	n := t.Len()
	for i := 0; i < n; i++ {
		if i%2048 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		k := sameColorRun(t, i)
		t.MFEClrBars[i] = k
		var price float64
		if k > 0 {
			move := t.Close[i+k] - t.Close[i]
			price = abs(move)
			t.MFEClrPrice[i] = price
			if t.CurrentADR[i] != 0 {
				t.MFEClrADR[i] = price / t.CurrentADR[i]
			}
			if t.ReversalSize[i] != 0 {
				t.MFEClrRR[i] = price / t.ReversalSize[i]
			}
		}
		// REAL_clr_* is derived from mfe_clr_price unconditionally, even when
		// k == 0 leaves mfe_clr_price at its zero value.
		t.RealClrPrice[i] = price - t.ReversalSize[i]
		if t.CurrentADR[i] != 0 {
			t.RealClrADR[i] = t.RealClrPrice[i] / t.CurrentADR[i]
		}
		if t.ReversalSize[i] != 0 {
			t.RealClrRR[i] = t.RealClrPrice[i] / t.ReversalSize[i]
		}

		for k := 0; k < 3; k++ {
			emaOK, ema := emaColumn(t, k)
			maPrice, ok := realMATrail(t, i, emaOK, ema)
			t.RealMAPrice[k][i] = maPrice
			t.RealMAOK[k][i] = ok
			if ok {
				if t.CurrentADR[i] != 0 {
					t.RealMAADR[k][i] = maPrice / t.CurrentADR[i]
				}
				if t.ReversalSize[i] != 0 {
					t.RealMARR[k][i] = maPrice / t.ReversalSize[i]
				}
			}
		}
	}
	return nil
}

// sameColorRun counts the consecutive same-direction bars immediately
// following i; 0 if the very next bar (if any) is the opposite color.
func sameColorRun(t *Table, i int) int {
	n := t.Len()
	dir := t.Direction[i]
	k := 0
	for j := i + 1; j < n; j++ {
		if t.Direction[j] != dir {
			break
		}
		k++
	}
	return k
}

func emaColumn(t *Table, k int) ([]bool, []float64) {
	switch k {
	case 0:
		return t.EMA1OK, t.EMA1
	case 1:
		return t.EMA2OK, t.EMA2
	default:
		return t.EMA3OK, t.EMA3
	}
}

// realMATrail scans forward from i for the first opposite-color bar whose
// close lies beyond EMA(k) against the original trade direction, and
// returns the signed move from close[i] floored at -reversal_size.
func realMATrail(t *Table, i int, emaOK []bool, ema []float64) (float64, bool) {
	n := t.Len()
	dir := t.Direction[i]
	for j := i + 1; j < n; j++ {
		if t.Direction[j] == dir {
			continue
		}
		if !emaOK[j] {
			continue
		}
		penalizes := (dir == renko.Up && t.Close[j] < ema[j]) || (dir == renko.Down && t.Close[j] > ema[j])
		if !penalizes {
			continue
		}
		move := t.Close[j] - t.Close[i]
		if move < -t.ReversalSize[i] {
			move = -t.ReversalSize[i]
		}
		return move, true
	}
	return 0, false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
