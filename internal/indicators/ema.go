// Package indicators computes the moving-average family and session-anchored
// running statistics consumed by the analytics pipeline: exponential moving
// averages, an SMA envelope, and a Welford-style session-anchored running
// mean/std of typical price.
package indicators

import "gonum.org/v1/gonum/stat"

// EMA computes the exponential moving average of period over values.
// EMA[period-1] seeds as the simple mean of values[0:period]; entries before
// that are undefined (ok[i] == false).
func EMA(values []float64, period int) (ema []float64, ok []bool) {
	n := len(values)
	ema = make([]float64, n)
	ok = make([]bool, n)
	if period <= 0 || n < period {
		return ema, ok
	}

	ema[period-1] = stat.Mean(values[0:period], nil)
	ok[period-1] = true

	k := 2.0 / float64(period+1)
	for i := period; i < n; i++ {
		ema[i] = (values[i]-ema[i-1])*k + ema[i-1]
		ok[i] = true
	}
	return ema, ok
}
