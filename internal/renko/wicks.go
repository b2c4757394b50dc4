package renko

import "math"

// round5 neutralizes floating-point drift before wick-retracement
// comparisons, per the engine's rounding rule.
func round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}

// wickExtreme applies the active wick policy to one side of a brick body.
// lower selects which side is being computed: true for an UP brick's low
// (wick down), false for a DOWN brick's high (wick up). The opposite side
// of every brick is always exactly its close — only one side ever wicks.
func (e *engine) wickExtreme(mode WickMode, brickOpen, spanExtreme, brickSize float64, first, lower bool) float64 {
	switch mode {
	case WickNone:
		return brickOpen
	case WickAll:
		if lower {
			return math.Min(brickOpen, spanExtreme)
		}
		return math.Max(brickOpen, spanExtreme)
	case WickBig:
		if !first {
			return brickOpen
		}
		var retrace float64
		if lower {
			retrace = round5(brickOpen - spanExtreme)
		} else {
			retrace = round5(spanExtreme - brickOpen)
		}
		if retrace > brickSize {
			return spanExtreme
		}
		return brickOpen
	default:
		return brickOpen
	}
}

// firstBrickWicks handles the very first brick emitted from a flat state,
// which carries the whole accumulated span since the scan began.
func (e *engine) firstBrickWicks(dir Direction, brickOpen, spanLow, spanHigh float64, first bool) (float64, float64) {
	brickClose := brickOpen + float64(dir)*e.active.BrickSize
	if dir == Up {
		return e.wickExtreme(e.wickMode, brickOpen, spanLow, e.active.BrickSize, first, true), brickClose
	}
	return brickClose, e.wickExtreme(e.wickMode, brickOpen, spanHigh, e.active.BrickSize, first, false)
}

// carryOrRangeWicks computes the wick of a batch's first brick. With first
// set (the reversal batch) it uses the carried-over span; otherwise (the
// continuation batch) it uses only the raw range of the bar at c.close, and
// wick_mode big then never wicks. Later bricks of a batch do not come here.
func (e *engine) carryOrRangeWicks(dir Direction, brickOpen float64, c crossing, first bool) (float64, float64) {
	brickClose := brickOpen + float64(dir)*e.active.BrickSize

	var spanLow, spanHigh float64
	if first {
		spanLow, spanHigh = e.spanLow, e.spanHigh
	} else {
		bar := e.bars[c.close]
		spanLow, spanHigh = bar.Low, bar.High
	}

	if dir == Up {
		return e.wickExtreme(e.wickMode, brickOpen, spanLow, e.active.BrickSize, first, true), brickClose
	}
	return brickClose, e.wickExtreme(e.wickMode, brickOpen, spanHigh, e.active.BrickSize, first, false)
}

// secondReversalBrickWicks covers the reversal batch's second brick (idx
// == 1): it never inherits the pre-reversal carryover span, only the raw
// OHLC range of the bar that produced it.
func (e *engine) secondReversalBrickWicks(dir Direction, brickOpen float64, c crossing) (float64, float64) {
	brickClose := brickOpen + float64(dir)*e.active.BrickSize
	bar := e.bars[c.close]
	if dir == Up {
		return e.wickExtreme(e.wickMode, brickOpen, bar.Low, e.active.BrickSize, false, true), brickClose
	}
	return brickClose, e.wickExtreme(e.wickMode, brickOpen, bar.High, e.active.BrickSize, false, false)
}

// bodyOnly returns a brick's low/high with no wick at all: used for
// synthetic same-bar bricks within a batch beyond the one brick that
// legitimately claims the triggering bar's range.
func (e *engine) bodyOnly(dir Direction, open, close float64) (float64, float64) {
	if dir == Up {
		return open, close
	}
	return close, open
}

// wickLow/wickHigh apply the wick policy to the pending brick, which has
// no fixed close yet and so wicks against the live carryover span.
func (e *engine) wickLow(mode WickMode, open, spanLow, brickSize float64, first bool) float64 {
	return e.wickExtreme(mode, open, spanLow, brickSize, first, true)
}

func (e *engine) wickHigh(mode WickMode, open, spanHigh, brickSize float64, first bool) float64 {
	return e.wickExtreme(mode, open, spanHigh, brickSize, first, false)
}
