package indicators

import "math"

// PWAPRow is one brick's session-anchored running price-weighted average
// price band set.
type PWAPRow struct {
	Mean   float64
	Upper  map[float64]float64 // keyed by sigma
	Lower  map[float64]float64
	Defined bool
}

// welford accumulates a running mean and population variance of typical
// price within a single session, resetting at every session boundary.
type welford struct {
	count int
	mean  float64
	m2    float64
}

func (w *welford) reset() {
	w.count = 0
	w.mean = 0
	w.m2 = 0
}

func (w *welford) add(x float64) {
	w.count++
	delta := x - w.mean
	w.mean += delta / float64(w.count)
	delta2 := x - w.mean
	w.m2 += delta * delta2
}

func (w *welford) populationStd() float64 {
	if w.count == 0 {
		return 0
	}
	return math.Sqrt(w.m2 / float64(w.count))
}

// PWAP computes, for each brick, the running session-anchored mean and
// population standard deviation of typical price (high+low+close)/3,
// emitting +/- sigma bands for each sigma in sigmas. sessionDates must be
// the same length as high/low/close and already resolved to session dates.
func PWAP(high, low, close []float64, sessionDates []int64, sigmas []float64) []PWAPRow {
	n := len(close)
	rows := make([]PWAPRow, n)
	if n == 0 {
		return rows
	}

	var w welford
	currentSession := sessionDates[0]

	for i := 0; i < n; i++ {
		if sessionDates[i] != currentSession {
			w.reset()
			currentSession = sessionDates[i]
		}

		tp := (high[i] + low[i] + close[i]) / 3
		w.add(tp)

		std := w.populationStd()
		row := PWAPRow{Mean: w.mean, Defined: true, Upper: make(map[float64]float64, len(sigmas)), Lower: make(map[float64]float64, len(sigmas))}
		for _, s := range sigmas {
			row.Upper[s] = w.mean + s*std
			row.Lower[s] = w.mean - s*std
		}
		rows[i] = row
	}
	return rows
}
