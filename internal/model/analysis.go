package model

import "time"

// Ticker is one worklist item.
type Ticker struct {
	Symbol string `yaml:"symbol"`
	Name   string `yaml:"name"`
}

// RunContext is the immutable per-ticker context handed to every component of a run.
type RunContext struct {
	Ticker      string
	DisplayName string
	Horizon     int
	AsOf        time.Time
}

// ExecutionDate is the UTC calendar date of the run.
func (rc RunContext) ExecutionDate() time.Time {
	y, m, d := rc.AsOf.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TechSnapshot holds the point-in-time technical readings of the latest row.
type TechSnapshot struct {
	RSI          float64
	Trend5d      float64 // percent
	Trend20d     float64 // percent
	Volatility   float64 // percent, std of the last 10 returns
	VolumeRatio  float64
	MACD         float64
	MACDSignal   float64
	BandPosition float64 // 0 = lower band, 1 = upper band
}

// BacktestResult is the predictor's accuracy measured on historical prefixes.
type BacktestResult struct {
	AccuracyPct float64
	MAE         float64
	MAPE        float64
	Samples     int
	Skipped     map[string]int
	Note        string
}

// Analysis is everything a run produced for one ticker.
type Analysis struct {
	Context      RunContext
	CurrentPrice float64
	Forecast     ForecastPath
	Signal       *SignalResult
	Risk         *RiskPlan
	Backtest     BacktestResult
	Tech         TechSnapshot
}
