package renko

import (
	"math"

	"github.com/forrestang/RenkoDiscovery/internal/ohlc"
)

// crossing identifies the source bar range attributed to one brick within
// a batch: open is the bar the span carries over from, close is the bar
// whose close actually crossed the threshold.
type crossing struct {
	open  int
	close int
}

// findCrossings determines how many brick_size-wide thresholds were
// crossed between the previous tick and bars[endIdx].Close, moving in
// direction dir from firstThreshold. The first brick in the batch carries
// the full (startIdx, endIdx) span; any further bricks in the same batch
// resolve entirely within endIdx, since the source data has no finer
// resolution than one bar.
func findCrossings(bars ohlc.Series, startIdx, endIdx int, firstThreshold, brickSize float64, dir Direction) []crossing {
	price := bars[endIdx].Close

	extra := 0
	if brickSize > 0 {
		diff := (price - firstThreshold) * float64(dir)
		if diff > 0 {
			extra = int(math.Floor(diff / brickSize))
		}
	}

	n := 1 + extra
	out := make([]crossing, n)
	out[0] = crossing{open: startIdx, close: endIdx}
	for i := 1; i < n; i++ {
		out[i] = crossing{open: endIdx, close: endIdx}
	}
	return out
}
