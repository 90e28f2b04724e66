// Package pipeline runs the per-ticker analysis chain and the worklist loop around it.
package pipeline

import (
	"fmt"
	"log"

	"SignalDesk/internal/backtest"
	"SignalDesk/internal/calculator"
	"SignalDesk/internal/model"
	"SignalDesk/internal/predictor"
	"SignalDesk/internal/risk"
	"SignalDesk/internal/strategy"
)

// VolatilityWindow is the number of trailing returns in the volatility reading.
const VolatilityWindow = 10

// Analyzer chains predictor, scorer, risk manager and backtester for one ticker.
type Analyzer struct {
	Scorer     *strategy.Scorer
	StopPct    float64
	Backtester *backtest.Evaluator
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(scorer *strategy.Scorer, stopPct float64, bt *backtest.Evaluator) *Analyzer {
	return &Analyzer{Scorer: scorer, StopPct: stopPct, Backtester: bt}
}

// Analyze produces the full analysis of the table as of its latest row.
func (a *Analyzer) Analyze(rc model.RunContext, table model.IndicatorTable) (*model.Analysis, error) {
	last, ok := table.Latest()
	if !ok {
		return nil, fmt.Errorf("%w: empty indicator table", model.ErrInsufficientHistory)
	}
	closes := table.Closes()

	path, err := predictor.Predict(table, rc.Horizon)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	trend5d, err := calculator.PercentChange(closes, 5)
	if err != nil {
		return nil, fmt.Errorf("trend 5d: %w", err)
	}
	trend20d, err := calculator.PercentChange(closes, 20)
	if err != nil {
		return nil, fmt.Errorf("trend 20d: %w", err)
	}

	signal, err := a.Scorer.Evaluate(strategy.Inputs{
		Row:           last,
		CurrentPrice:  last.Close,
		ForecastFinal: path.Final(),
		Trend5d:       trend5d,
		Trend20d:      trend20d,
	})
	if err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}

	plan, err := risk.Plan(last.Close, path, signal.Class, a.StopPct)
	if err != nil {
		return nil, fmt.Errorf("risk plan: %w", err)
	}

	bt := a.Backtester.Run(table)
	if len(bt.Skipped) > 0 {
		log.Printf("[INFO] %s backtest: %d samples, skipped %v", rc.Ticker, bt.Samples, bt.Skipped)
	}
	if bt.Note != "" {
		log.Printf("[WARN] %s backtest: %s", rc.Ticker, bt.Note)
	}

	return &model.Analysis{
		Context:      rc,
		CurrentPrice: last.Close,
		Forecast:     path,
		Signal:       signal,
		Risk:         plan,
		Backtest:     bt,
		Tech: model.TechSnapshot{
			RSI:          last.RSI14,
			Trend5d:      trend5d,
			Trend20d:     trend20d,
			Volatility:   calculator.Volatility(table.Returns(), VolatilityWindow),
			VolumeRatio:  last.VolumeRatio,
			MACD:         last.MACD,
			MACDSignal:   last.MACDSignal,
			BandPosition: calculator.BandPosition(last.Close, last.BBUpper, last.BBLower),
		},
	}, nil
}
