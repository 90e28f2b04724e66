package model

import "time"

// IndicatorRow is one trading day of prices plus the technical indicators derived from them.
type IndicatorRow struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Return float64 // close-to-close fractional change

	MA5  float64
	MA10 float64
	MA20 float64
	MA50 float64

	RSI14      float64
	MACD       float64
	MACDSignal float64
	MACDHist   float64

	BBUpper  float64
	BBMiddle float64
	BBLower  float64

	VolumeMA    float64
	VolumeRatio float64
}

// IndicatorTable is a date-ordered sequence of rows with warm-up rows already removed.
type IndicatorTable []IndicatorRow

// Closes returns the closing prices in table order.
func (t IndicatorTable) Closes() []float64 {
	closes := make([]float64, len(t))
	for i, r := range t {
		closes[i] = r.Close
	}
	return closes
}

// Returns returns the per-row returns in table order.
func (t IndicatorTable) Returns() []float64 {
	out := make([]float64, len(t))
	for i, r := range t {
		out[i] = r.Return
	}
	return out
}

// Latest returns the most recent row.
func (t IndicatorTable) Latest() (IndicatorRow, bool) {
	if len(t) == 0 {
		return IndicatorRow{}, false
	}
	return t[len(t)-1], true
}

// Prefix returns the first n rows, i.e. the table as it looked n rows into its history.
func (t IndicatorTable) Prefix(n int) IndicatorTable {
	if n < 0 {
		n = 0
	}
	if n > len(t) {
		n = len(t)
	}
	return t[:n:n]
}
