// Package adr computes the rolling Average Daily Range used to drive
// session-scaled brick sizing. It groups raw OHLC bars by session date
// (internal/calendar), then averages each session's (high-low) range over
// the N immediately-prior sessions.
package adr

import (
	"sort"
	"time"

	"github.com/forrestang/RenkoDiscovery/internal/calendar"
	"github.com/forrestang/RenkoDiscovery/internal/ohlc"
)

// Lookup maps a session date to its ADR. A date absent from the map has no
// defined ADR (first N sessions, or N itself not yet elapsed).
type Lookup map[time.Time]float64

// dailyRange holds the high/low extremes accumulated for one session.
type dailyRange struct {
	date time.Time
	high float64
	low  float64
}

// Compute groups bars by session date, derives each day's (high - low)
// range, and for every session with exactly `period` complete prior
// sessions, averages those prior sessions' ranges (excluding the session
// itself). Sessions without `period` full predecessors are simply absent
// from the returned Lookup.
func Compute(bars ohlc.Series, schedule calendar.Schedule, period int) Lookup {
	if len(bars) == 0 || period <= 0 {
		return Lookup{}
	}

	byDate := make(map[time.Time]*dailyRange)
	var order []time.Time

	for _, bar := range bars {
		d := calendar.SessionDate(bar.Timestamp, schedule)
		r, ok := byDate[d]
		if !ok {
			r = &dailyRange{date: d, high: bar.High, low: bar.Low}
			byDate[d] = r
			order = append(order, d)
		} else {
			if bar.High > r.high {
				r.high = bar.High
			}
			if bar.Low < r.low {
				r.low = bar.Low
			}
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	ranges := make([]float64, len(order))
	for i, d := range order {
		ranges[i] = byDate[d].high - byDate[d].low
	}

	out := make(Lookup, len(order))
	for i := range order {
		if i < period {
			continue // fewer than `period` complete prior sessions
		}
		sum := 0.0
		for j := i - period; j < i; j++ {
			sum += ranges[j]
		}
		out[order[i]] = sum / float64(period)
	}
	return out
}
