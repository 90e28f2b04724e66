package calculator

import "math"

// MACD periods used by the indicator table.
const (
	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9
)

// MACDSeries returns the MACD line (fast EMA - slow EMA), its signal line and the histogram,
// all aligned with closes. Warm-up positions are NaN. talib.Macd seeds its signal EMA over
// the zero-padded warm-up, so the signal line is an EMA of the finite MACD values instead.
func MACDSeries(closes []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	fastEMA := EMASeries(closes, fast)
	slowEMA := EMASeries(closes, slow)

	macd = nanSeries(len(closes))
	for i := range closes {
		if !math.IsNaN(fastEMA[i]) && !math.IsNaN(slowEMA[i]) {
			macd[i] = fastEMA[i] - slowEMA[i]
		}
	}
	sig = EMASeries(macd, signal)

	hist = nanSeries(len(closes))
	for i := range closes {
		if !math.IsNaN(macd[i]) && !math.IsNaN(sig[i]) {
			hist[i] = macd[i] - sig[i]
		}
	}
	return macd, sig, hist
}
