// Package schedule walks an OHLC index and emits the piecewise-constant
// (brick_size, reversal_size, adr) schedule the Renko engine consults,
// switching entries whenever the session's ADR changes (ADR-mode) or
// emitting a single fixed entry (price-mode).
package schedule

import (
	"math"

	"github.com/forrestang/RenkoDiscovery/internal/adr"
	"github.com/forrestang/RenkoDiscovery/internal/calendar"
	"github.com/forrestang/RenkoDiscovery/internal/errs"
	"github.com/forrestang/RenkoDiscovery/internal/ohlc"
)

// Entry is one piecewise-constant schedule point: from SourceIndex onward
// (until the next Entry), bricks use BrickSize/ReversalSize.
type Entry struct {
	SourceIndex  int
	BrickSize    float64
	ReversalSize float64
	ADRValue     float64 // only meaningful when HasADR is true
	HasADR       bool
}

// Price builds the single fixed-size schedule entry for price-mode.
func Price(brickSize, reversalSize float64) ([]Entry, error) {
	if brickSize <= 0 || math.IsNaN(brickSize) || math.IsInf(brickSize, 0) {
		return nil, errs.New(errs.InvalidBrickSize, "brick_size must be positive and finite, got %v", brickSize)
	}
	if reversalSize < brickSize {
		return nil, errs.New(errs.InvalidConfig, "reversal_size (%v) must be >= brick_size (%v)", reversalSize, brickSize)
	}
	return []Entry{{SourceIndex: 0, BrickSize: round6(brickSize), ReversalSize: round6(reversalSize)}}, nil
}

// ADRMode walks bars 0..len(bars)-1, looking up each bar's session-date ADR,
// and emits a new Entry whenever the looked-up ADR differs from the most
// recently emitted one. Returns InsufficientHistory if the series never
// reaches a session with a defined ADR.
func ADRMode(bars ohlc.Series, sched calendar.Schedule, adrLookup adr.Lookup, brickPct, reversalPct float64) ([]Entry, error) {
	if brickPct <= 0 || reversalPct <= 0 {
		return nil, errs.New(errs.InvalidConfig, "brick_pct and reversal_pct must be positive")
	}

	var entries []Entry
	haveLast := false
	var lastADR float64

	for i, bar := range bars {
		d := calendar.SessionDate(bar.Timestamp, sched)
		value, ok := adrLookup[d]
		if !ok {
			continue
		}
		if haveLast && value == lastADR {
			continue
		}
		entries = append(entries, Entry{
			SourceIndex:  i,
			BrickSize:    round6(value * brickPct / 100),
			ReversalSize: round6(value * reversalPct / 100),
			ADRValue:     round6(value),
			HasADR:       true,
		})
		haveLast = true
		lastADR = value
	}

	if len(entries) == 0 {
		return nil, errs.New(errs.InsufficientHistory, "no session in the series has a defined ADR for the requested period")
	}
	return entries, nil
}

// At returns the schedule entry in effect for source index i: the entry
// with the greatest SourceIndex <= i. entries must be sorted ascending by
// SourceIndex and non-empty.
func At(entries []Entry, i int) Entry {
	best := entries[0]
	for _, e := range entries {
		if e.SourceIndex <= i {
			best = e
		} else {
			break
		}
	}
	return best
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
