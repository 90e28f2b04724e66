package calculator

import (
	"math"

	"SignalDesk/internal/model"
)

// Window sizes of the indicator table.
const (
	RSIPeriod      = 14
	VolumeMAPeriod = 20
)

// BuildTable computes every indicator column for the bars and drops the rows where any
// column is still warming up. Bars must be in chronological order.
func BuildTable(bars []model.OHLCV) model.IndicatorTable {
	n := len(bars)
	if n == 0 {
		return nil
	}
	closes := extractCloses(bars)
	volumes := make([]float64, n)
	for i, b := range bars {
		volumes[i] = b.Volume
	}

	returns := nanSeries(n)
	for i := 1; i < n; i++ {
		if closes[i-1] != 0 {
			returns[i] = closes[i]/closes[i-1] - 1
		}
	}

	ma5 := SMASeries(closes, 5)
	ma10 := SMASeries(closes, 10)
	ma20 := SMASeries(closes, 20)
	ma50 := SMASeries(closes, 50)
	rsi := RSISeries(closes, RSIPeriod)
	macd, sig, hist := MACDSeries(closes, MACDFast, MACDSlow, MACDSignal)
	upper, middle, lower := BollingerSeries(closes, BollingerPeriod, BollingerWidth)
	volMA := SMASeries(volumes, VolumeMAPeriod)

	table := make(model.IndicatorTable, 0, n)
	for i, b := range bars {
		row := model.IndicatorRow{
			Date:       b.Time,
			Open:       b.Open,
			High:       b.High,
			Low:        b.Low,
			Close:      b.Close,
			Volume:     b.Volume,
			Return:     returns[i],
			MA5:        ma5[i],
			MA10:       ma10[i],
			MA20:       ma20[i],
			MA50:       ma50[i],
			RSI14:      rsi[i],
			MACD:       macd[i],
			MACDSignal: sig[i],
			MACDHist:   hist[i],
			BBUpper:    upper[i],
			BBMiddle:   middle[i],
			BBLower:    lower[i],
			VolumeMA:   volMA[i],
		}
		if volMA[i] != 0 {
			row.VolumeRatio = b.Volume / volMA[i]
		} else {
			row.VolumeRatio = math.NaN()
		}
		if RowComplete(row) {
			table = append(table, row)
		}
	}
	return table
}

// RowComplete reports whether every numeric column of the row is finite.
func RowComplete(r model.IndicatorRow) bool {
	for _, v := range []float64{
		r.Open, r.High, r.Low, r.Close, r.Volume, r.Return,
		r.MA5, r.MA10, r.MA20, r.MA50,
		r.RSI14, r.MACD, r.MACDSignal, r.MACDHist,
		r.BBUpper, r.BBMiddle, r.BBLower,
		r.VolumeMA, r.VolumeRatio,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
