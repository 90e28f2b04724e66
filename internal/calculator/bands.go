package calculator

import "github.com/markcheno/go-talib"

// Bollinger band parameters used by the indicator table.
const (
	BollingerPeriod = 20
	BollingerWidth  = 2.0
)

// BollingerSeries returns the upper, middle and lower bands aligned with closes:
// SMA(period) +/- width * population standard deviation over the same window.
// The first period-1 positions are NaN.
func BollingerSeries(closes []float64, period int, width float64) (upper, middle, lower []float64) {
	upper = nanSeries(len(closes))
	middle = nanSeries(len(closes))
	lower = nanSeries(len(closes))
	if period <= 0 || len(closes) < period {
		return upper, middle, lower
	}
	u, m, l := talib.BBands(closes, period, width, width, talib.SMA)
	for i := period - 1; i < len(closes); i++ {
		upper[i], middle[i], lower[i] = u[i], m[i], l[i]
	}
	return upper, middle, lower
}

// BandPosition returns where price sits between the lower (0.0) and upper (1.0) band.
// Collapsed bands give the neutral midpoint. The result is not clamped: prices outside
// the envelope read below 0 or above 1.
func BandPosition(price, upper, lower float64) float64 {
	if upper == lower {
		return 0.5
	}
	return (price - lower) / (upper - lower)
}
