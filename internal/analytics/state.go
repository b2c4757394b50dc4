package analytics

import (
	"context"

	"github.com/forrestang/RenkoDiscovery/internal/renko"
)

// classifyState maps the three EMA values' ordering onto the discrete
// regime enumerated in the analytics pipeline. Ties anywhere in the
// ordering map to the neutral state (documented tie-break decision).
func classifyState(fast, med, slow float64) int {
	switch {
	case fast > med && med > slow:
		return 3
	case fast > slow && slow > med:
		return 2
	case slow > fast && fast > med:
		return 1
	case med > fast && fast > slow:
		return -1
	case med > slow && slow > fast:
		return -2
	case slow > med && med > fast:
		return -3
	default:
		return 0
	}
}

// computeStateAndCounters fills State/prState/fromState, the Type1/Type2
// pullback counters, the consecutive-bar counters, bar durations, and the
// rolling chop index. Single forward pass; these columns are mutually
// dependent on running state that can't be parallelized further.
func computeStateAndCounters(ctx context.Context, t *Table) error {
	n := t.Len()
	useThreeBar := t.Settings.ReversalSize > t.Settings.BrickSize

	var (
		prevState int
		fromState int

		conUp, conDn           int
		conUpState, conDnState int
		priorRun               int

		type1Counter int
		type2Counter int

		stateBarCount int
		stateDur      float64

		chopWindow []renko.Direction
	)

	for i := 0; i < n; i++ {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		state := 0
		if t.EMA1OK[i] && t.EMA2OK[i] && t.EMA3OK[i] {
			state = classifyState(t.EMA1[i], t.EMA2[i], t.EMA3[i])
		}
		t.State[i] = state
		if i == 0 {
			t.PrState[i] = 0
		} else {
			t.PrState[i] = prevState
		}

		if i == 0 || state != prevState {
			if i > 0 {
				fromState = prevState
			}
			stateBarCount = 0
			stateDur = 0
			type1Counter = 0
			type2Counter = 0
			conUpState, conDnState = 0, 0
		}
		t.FromState[i] = fromState

		// Direction / consecutive-bar counters.
		dir := t.Direction[i]
		if i > 0 && dir != t.Direction[i-1] {
			// The run that just ended: whichever counter was active carries
			// the completed run's length before this bar resets it.
			if t.Direction[i-1] == renko.Up {
				priorRun = conUp
			} else {
				priorRun = conDn
			}
		}
		if dir == renko.Up {
			conUp++
			conDn = 0
		} else if dir == renko.Down {
			conDn++
			conUp = 0
		}
		t.ConUpBars[i] = conUp
		t.ConDnBars[i] = conDn
		t.PriorRunCount[i] = priorRun

		if dir == renko.Up {
			conUpState++
			conDnState = 0
		} else if dir == renko.Down {
			conDnState++
			conUpState = 0
		}
		t.ConUpBarsState[i] = conUpState
		t.ConDnBarsState[i] = conDnState

		if i == 0 {
			t.BarDurationMin[i] = 0
		} else {
			t.BarDurationMin[i] = float64(t.TimestampClose[i]-t.TimestampClose[i-1]) / 60000.0
		}
		stateBarCount++
		stateDur += t.BarDurationMin[i]
		t.StateBarCount[i] = stateBarCount
		t.StateDurationMin[i] = stateDur

		// Chop: fraction of direction reversals within the trailing window.
		chopWindow = append(chopWindow, dir)
		period := t.Settings.ChopPeriod
		if period > 0 {
			if len(chopWindow) > period {
				chopWindow = chopWindow[len(chopWindow)-period:]
			}
			if len(chopWindow) == period {
				reversals := 0
				for j := 1; j < len(chopWindow); j++ {
					if chopWindow[j] != chopWindow[j-1] {
						reversals++
					}
				}
				t.Chop[i] = float64(reversals) / float64(period)
			}
		}

		// Type1 / Type2 pullback counters, only meaningful in +-3 states.
		if state == 3 || state == -3 {
			if matchesType1(t, i, useThreeBar, state > 0) {
				type1Counter++
				t.Type1[i] = signed(type1Counter, state > 0)
			}
			if matchesType2(t, i, useThreeBar, state > 0) {
				type2Counter++
				t.Type2[i] = signed(type2Counter, state > 0)
			}
		}

		prevState = state
	}
	return nil
}

func signed(v int, positive bool) int {
	if positive {
		return v
	}
	return -v
}

// matchesType1 checks the DOWN,UP,UP / UP,DOWN,DOWN (or 2-bar) pattern
// with an MA1-touch requirement, closing at i.
func matchesType1(t *Table, i int, useThreeBar, bullish bool) bool {
	if !t.EMA1OK[i] {
		return false
	}
	touches := func(j int) bool {
		if j < 0 || !t.EMA1OK[j] {
			return false
		}
		if bullish {
			return t.Low[j] <= t.EMA1[j]
		}
		return t.High[j] >= t.EMA1[j]
	}

	if useThreeBar {
		if i < 2 {
			return false
		}
		var want [3]renko.Direction
		if bullish {
			want = [3]renko.Direction{renko.Down, renko.Up, renko.Up}
		} else {
			want = [3]renko.Direction{renko.Up, renko.Down, renko.Down}
		}
		if t.Direction[i-2] != want[0] || t.Direction[i-1] != want[1] || t.Direction[i] != want[2] {
			return false
		}
		return touches(i-2) || touches(i-1) || touches(i)
	}

	if i < 1 {
		return false
	}
	var want [2]renko.Direction
	if bullish {
		want = [2]renko.Direction{renko.Down, renko.Up}
	} else {
		want = [2]renko.Direction{renko.Up, renko.Down}
	}
	if t.Direction[i-1] != want[0] || t.Direction[i] != want[1] {
		return false
	}
	return touches(i-1) || touches(i)
}

// matchesType2 checks a single bar closing in the trend direction with a
// wick exceeding one brick size.
func matchesType2(t *Table, i int, useThreeBar, bullish bool) bool {
	var wick float64
	if bullish {
		if t.Direction[i] != renko.Up {
			return false
		}
		wick = t.Open[i] - t.Low[i]
	} else {
		if t.Direction[i] != renko.Down {
			return false
		}
		wick = t.High[i] - t.Open[i]
	}
	if wick <= t.BrickSize[i] {
		return false
	}
	if useThreeBar {
		if i < 1 || t.Direction[i-1] != t.Direction[i] {
			return false
		}
	}
	return true
}
