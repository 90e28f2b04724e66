package calculator

import (
	"fmt"
	"math"

	"SignalDesk/internal/model"
)

// StdDev returns the standard deviation of values with ddof degrees of freedom removed
// (0 = population, 1 = sample). Returns NaN when there are not enough values.
func StdDev(values []float64, ddof int) float64 {
	n := len(values)
	if n-ddof <= 0 {
		return math.NaN()
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-ddof))
}

// PercentChange returns the percent change of the last value against the value lookback
// positions from the end (lookback=5 compares closes[-1] with closes[-5]).
func PercentChange(closes []float64, lookback int) (float64, error) {
	if lookback < 1 || len(closes) < lookback {
		return 0, fmt.Errorf("%w: need %d closes, have %d", model.ErrInsufficientHistory, lookback, len(closes))
	}
	base := closes[len(closes)-lookback]
	if base <= 0 {
		return 0, fmt.Errorf("%w: base close %.4f", model.ErrInvalidPrice, base)
	}
	return (closes[len(closes)-1] - base) / base * 100, nil
}

// Volatility returns the sample standard deviation of the last window returns, in percent.
func Volatility(returns []float64, window int) float64 {
	if len(returns) > window {
		returns = returns[len(returns)-window:]
	}
	return StdDev(returns, 1) * 100
}
