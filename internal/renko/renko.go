// Package renko implements the single-pass Renko brick state machine:
// OHLC + a piecewise-constant size schedule in, a deterministic brick
// sequence (plus at most one trailing pending brick) out.
//
// The state machine is a small struct carrying mutable scan state,
// advanced one input unit at a time by a single exported entry point.
package renko

import (
	"math"

	"github.com/forrestang/RenkoDiscovery/internal/errs"
	"github.com/forrestang/RenkoDiscovery/internal/ohlc"
	"github.com/forrestang/RenkoDiscovery/internal/schedule"
)

// WickMode controls how much of the underlying OHLC range a brick's wick
// exposes.
type WickMode string

const (
	WickAll  WickMode = "all"
	WickBig  WickMode = "big"
	WickNone WickMode = "none"
)

// Direction is the sign of a brick's move.
type Direction int8

const (
	Down Direction = -1
	Flat Direction = 0
	Up   Direction = 1
)

// Brick is one emitted Renko brick: a fixed-size price move in one
// direction, optionally carrying wick data and the ADR value active
// when it formed.
type Brick struct {
	Open            float64
	High            float64
	Low             float64
	Close           float64
	Direction       Direction
	IsReversal      bool
	TimestampOpen   int64 // unix millis
	TimestampClose  int64
	SourceIndexOpen int
	SourceIndexClose int
	BrickSize       float64
	ReversalSize    float64
	ADRValue        float64
	HasADR          bool
}

// maxEstimatedBricks guards against pathological brick_size/price_range
// combinations producing a runaway brick count.
const maxEstimatedBricks = 100000

// Run executes the single-pass Renko state machine over bars using the
// given size schedule and wick policy. Returns the completed brick
// sequence plus an optional pending (not-yet-confirmed) brick.
func Run(bars ohlc.Series, entries []schedule.Entry, wickMode WickMode) ([]Brick, *Brick, error) {
	if len(bars) == 0 {
		return nil, nil, nil
	}
	if len(entries) == 0 {
		return nil, nil, errs.New(errs.InsufficientHistory, "empty size schedule")
	}
	if len(bars) < 2 {
		return nil, nil, nil // a single bar can't establish a move, so nothing forms yet
	}

	first := entries[0]
	if first.BrickSize <= 0 {
		return nil, nil, errs.New(errs.InvalidBrickSize, "first schedule entry has non-positive brick_size")
	}

	priceRange := seriesRange(bars)
	if priceRange/first.BrickSize > maxEstimatedBricks {
		return nil, nil, errs.New(errs.BrickSizeTooSmall, "estimated brick count exceeds %d", maxEstimatedBricks)
	}

	e := &engine{
		bars:     bars,
		entries:  entries,
		wickMode: wickMode,
	}
	e.init()

	for i := range bars {
		e.step(i)
	}

	return e.bricks, e.pendingBrick(), nil
}

func seriesRange(bars ohlc.Series) float64 {
	hi, lo := bars[0].High, bars[0].Low
	for _, b := range bars {
		if b.High > hi {
			hi = b.High
		}
		if b.Low < lo {
			lo = b.Low
		}
	}
	return hi - lo
}

// engine carries the mutable scan state for a single forward pass over bars.
type engine struct {
	bars     ohlc.Series
	entries  []schedule.Entry
	wickMode WickMode

	direction Direction
	lastClose float64

	active  schedule.Entry
	pending schedule.Entry

	upThreshold   float64
	downThreshold float64

	spanStart int
	spanLow   float64
	spanHigh  float64

	tickIdxOpen int

	bricks []Brick
}

func (e *engine) init() {
	e.active = e.entries[0]
	e.pending = e.active

	e.lastClose = math.Floor(e.bars[0].Open/e.active.BrickSize) * e.active.BrickSize
	e.direction = Flat
	e.upThreshold = e.lastClose + e.active.BrickSize
	e.downThreshold = e.lastClose - e.active.BrickSize

	e.spanHigh = e.bars[0].High
	e.spanLow = e.bars[0].Low
	e.spanStart = 0
	e.tickIdxOpen = 0
}

func (e *engine) step(i int) {
	e.pending = schedule.At(e.entries, i)

	bar := e.bars[i]
	if bar.High > e.spanHigh {
		e.spanHigh = bar.High
	}
	if bar.Low < e.spanLow {
		e.spanLow = bar.Low
	}

	price := bar.Close

	switch e.direction {
	case Flat:
		if price >= e.upThreshold {
			e.emitFirstBrick(i, Up)
		} else if price <= e.downThreshold {
			e.emitFirstBrick(i, Down)
		}
	case Up:
		if price >= e.upThreshold {
			e.emitContinuationBatch(i, Up)
		} else if price <= e.downThreshold {
			e.emitReversalBatch(i, Down)
		}
	case Down:
		if price <= e.downThreshold {
			e.emitContinuationBatch(i, Down)
		} else if price >= e.upThreshold {
			e.emitReversalBatch(i, Up)
		}
	}
}

// emitFirstBrick handles the direction==0 (undetermined) case: exactly one
// brick, no batch, no reversal flag.
func (e *engine) emitFirstBrick(i int, dir Direction) {
	brickOpen := e.lastClose
	var brickClose float64
	if dir == Up {
		brickClose = brickOpen + e.active.BrickSize
	} else {
		brickClose = brickOpen - e.active.BrickSize
	}

	low, high := e.firstBrickWicks(dir, brickOpen, e.spanLow, e.spanHigh, true)

	e.bricks = append(e.bricks, e.newBrick(brickOpen, brickClose, low, high, dir, false, e.tickIdxOpen, i))

	e.lastClose = brickClose
	e.direction = dir
	e.promotePending()

	if dir == Up {
		e.upThreshold = e.lastClose + e.active.BrickSize
		e.downThreshold = e.lastClose - e.active.ReversalSize
	} else {
		e.downThreshold = e.lastClose - e.active.BrickSize
		e.upThreshold = e.lastClose + e.active.ReversalSize
	}

	e.resetSpan(i)
}

// emitContinuationBatch emits one UP (or DOWN) brick per threshold crossed
// between the previous source index and i.
func (e *engine) emitContinuationBatch(i int, dir Direction) {
	crossings := findCrossings(e.bars, e.tickIdxOpen, i, e.upOrDownThreshold(dir), e.active.BrickSize, dir)

	for idx, c := range crossings {
		brickOpen := e.lastClose
		brickClose := brickOpen + float64(dir)*e.active.BrickSize

		var lo, hi float64
		if idx == 0 {
			// Only the batch's first brick can legitimately claim the
			// triggering bar's wick; synthetic same-bar bricks beyond it
			// have no sub-bar data of their own to show.
			lo, hi = e.carryOrRangeWicks(dir, brickOpen, c, false)
		} else {
			lo, hi = e.bodyOnly(dir, brickOpen, brickClose)
		}

		e.bricks = append(e.bricks, e.newBrick(brickOpen, brickClose, lo, hi, dir, false, c.open, c.close))
		e.lastClose = brickClose
	}

	e.promotePending()
	if dir == Up {
		e.upThreshold = e.lastClose + e.active.BrickSize
		e.downThreshold = e.lastClose - e.active.ReversalSize
	} else {
		e.downThreshold = e.lastClose - e.active.BrickSize
		e.upThreshold = e.lastClose + e.active.ReversalSize
	}

	if len(crossings) > 1 {
		// Multi-brick batch: pin the carryover on the reset side so a later
		// reversal cannot retroactively claim a pre-batch extreme.
		if dir == Up {
			e.spanHigh = e.bars[i].High
			e.spanLow = e.lastClose
		} else {
			e.spanHigh = e.lastClose
			e.spanLow = e.bars[i].Low
		}
	} else {
		e.spanHigh = e.bars[i].High
		e.spanLow = e.bars[i].Low
	}
	e.spanStart = i
	e.tickIdxOpen = i
}

// emitReversalBatch fires when the trend reverses: at least one brick in
// the new direction, with is_reversal=1 on the first.
func (e *engine) emitReversalBatch(i int, dir Direction) {
	firstBrickThreshold := e.lastClose + float64(dir)*e.active.BrickSize
	crossings := findCrossings(e.bars, e.tickIdxOpen, i, firstBrickThreshold, e.active.BrickSize, dir)

	for idx, c := range crossings {
		brickOpen := e.lastClose
		brickClose := brickOpen + float64(dir)*e.active.BrickSize
		first := idx == 0

		var lo, hi float64
		switch {
		case first:
			// The reversal's confirming brick carries the whole carryover
			// span, showing how far price ran before the trend flipped.
			lo, hi = e.carryOrRangeWicks(dir, brickOpen, c, true)
		case idx == 1:
			lo, hi = e.secondReversalBrickWicks(dir, brickOpen, c)
		default:
			lo, hi = e.bodyOnly(dir, brickOpen, brickClose)
		}

		e.bricks = append(e.bricks, e.newBrick(brickOpen, brickClose, lo, hi, dir, first, c.open, c.close))
		e.lastClose = brickClose
	}

	e.direction = dir
	e.promotePending()
	if dir == Up {
		e.upThreshold = e.lastClose + e.active.BrickSize
		e.downThreshold = e.lastClose - e.active.ReversalSize
	} else {
		e.downThreshold = e.lastClose - e.active.BrickSize
		e.upThreshold = e.lastClose + e.active.ReversalSize
	}

	if len(crossings) > 1 {
		if dir == Up {
			e.spanHigh = e.bars[i].High
			e.spanLow = e.lastClose
		} else {
			e.spanHigh = e.lastClose
			e.spanLow = e.bars[i].Low
		}
	} else {
		e.spanHigh = e.bars[i].High
		e.spanLow = e.bars[i].Low
	}
	e.spanStart = i
	e.tickIdxOpen = i
}

func (e *engine) upOrDownThreshold(dir Direction) float64 {
	if dir == Up {
		return e.upThreshold
	}
	return e.downThreshold
}

func (e *engine) promotePending() {
	e.active = e.pending
}

func (e *engine) resetSpan(i int) {
	e.spanHigh = e.bars[i].High
	e.spanLow = e.bars[i].Low
	e.spanStart = i
	e.tickIdxOpen = i
}

func (e *engine) newBrick(open, close, low, high float64, dir Direction, isReversal bool, openIdx, closeIdx int) Brick {
	b := Brick{
		Open:             open,
		High:             high,
		Low:              low,
		Close:            close,
		Direction:        dir,
		IsReversal:       isReversal,
		TimestampOpen:    e.bars[openIdx].Timestamp.UnixMilli(),
		TimestampClose:   e.bars[closeIdx].Timestamp.UnixMilli(),
		SourceIndexOpen:  openIdx,
		SourceIndexClose: closeIdx,
		BrickSize:        e.active.BrickSize,
		ReversalSize:     e.active.ReversalSize,
	}
	if e.active.HasADR {
		b.ADRValue = e.active.ADRValue
		b.HasADR = true
	}
	return b
}

// pendingBrick builds the trailing not-yet-confirmed brick, if any, after
// the last input bar.
func (e *engine) pendingBrick() *Brick {
	if e.direction == Flat {
		return nil
	}
	last := len(e.bars) - 1
	currentPrice := e.bars[last].Close
	brickOpen := e.lastClose

	low := e.wickLow(e.wickMode, brickOpen, e.spanLow, e.active.BrickSize, true)
	high := e.wickHigh(e.wickMode, brickOpen, e.spanHigh, e.active.BrickSize, true)
	// The body (open..currentPrice) must always be contained regardless of
	// wick policy: a pending brick has no fixed close to anchor one side to.
	low = math.Min(low, math.Min(brickOpen, currentPrice))
	high = math.Max(high, math.Max(brickOpen, currentPrice))

	b := Brick{
		Open:             brickOpen,
		High:             high,
		Low:              low,
		Close:            currentPrice,
		Direction:        e.direction,
		TimestampOpen:    e.bars[e.tickIdxOpen].Timestamp.UnixMilli(),
		TimestampClose:   e.bars[last].Timestamp.UnixMilli(),
		SourceIndexOpen:  e.tickIdxOpen,
		SourceIndexClose: last,
		BrickSize:        e.active.BrickSize,
		ReversalSize:     e.active.ReversalSize,
	}
	if e.active.HasADR {
		b.ADRValue = e.active.ADRValue
		b.HasADR = true
	}
	return &b
}
