// Package backtest replays the price predictor on historical prefixes of the indicator
// table to estimate its one-day forecast accuracy.
package backtest

import (
	"errors"
	"fmt"
	"math"

	"SignalDesk/internal/model"
	"SignalDesk/internal/predictor"
)

// Skip reasons counted in BacktestResult.Skipped.
const (
	SkipOutOfRange     = "out_of_range"
	SkipShortPrefix    = "short_prefix"
	SkipInsufficient   = "insufficient_history"
	SkipInvalidPrice   = "invalid_price"
	SkipPredictorError = "predictor_error"
)

// Config controls which look-back points are evaluated.
type Config struct {
	Offsets    []int // rows excluded from the end of the table
	MinPrefix  int   // smallest prefix the predictor is run on
	MinSamples int   // comparisons required to report a result
	Tail       int   // offsets must leave more than this many rows after them
}

// DefaultConfig evaluates offsets 30, 27, ..., 12.
func DefaultConfig() Config {
	offsets := make([]int, 0, 7)
	for o := 30; o > 10; o -= 3 {
		offsets = append(offsets, o)
	}
	return Config{
		Offsets:    offsets,
		MinPrefix:  30,
		MinSamples: 6,
		Tail:       10,
	}
}

// Evaluator runs the backtest.
type Evaluator struct {
	cfg     Config
	predict func(model.IndicatorTable, int) (model.ForecastPath, error)
}

// NewEvaluator creates an Evaluator backed by the price predictor.
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg, predict: predictor.Predict}
}

// Run forecasts one day ahead from each truncated table and compares the forecast with the
// close observed on row n-offset+1. Failed look-back points are skipped and counted by
// reason. Too few comparisons is not an error: the result reports zero accuracy with a note.
func (e *Evaluator) Run(table model.IndicatorTable) model.BacktestResult {
	res := model.BacktestResult{Skipped: map[string]int{}}
	n := len(table)

	var absErrSum, pctErrSum float64
	for _, offset := range e.cfg.Offsets {
		if offset < 2 || offset >= n-e.cfg.Tail {
			res.Skipped[SkipOutOfRange]++
			continue
		}
		past := table.Prefix(n - offset)
		if len(past) < e.cfg.MinPrefix {
			res.Skipped[SkipShortPrefix]++
			continue
		}
		path, err := e.predict(past, 1)
		if err != nil {
			res.Skipped[classify(err)]++
			continue
		}
		// Row n-offset+1, one past the next day of the prefix: the ledger's recorded accuracy uses this row.
		actual := table[n-offset+1].Close
		if actual <= 0 || math.IsNaN(actual) {
			res.Skipped[SkipInvalidPrice]++
			continue
		}
		absErr := math.Abs(path[0].Price - actual)
		absErrSum += absErr
		pctErrSum += absErr / actual * 100
		res.Samples++
	}

	if res.Samples < e.cfg.MinSamples {
		res.Note = fmt.Sprintf("only %d of %d look-back points evaluated, need %d",
			res.Samples, len(e.cfg.Offsets), e.cfg.MinSamples)
		res.Samples = 0
		return res
	}

	res.MAE = absErrSum / float64(res.Samples)
	res.MAPE = pctErrSum / float64(res.Samples)
	res.AccuracyPct = 100 - res.MAPE
	return res
}

func classify(err error) string {
	switch {
	case errors.Is(err, model.ErrInsufficientHistory):
		return SkipInsufficient
	case errors.Is(err, model.ErrInvalidPrice):
		return SkipInvalidPrice
	default:
		return SkipPredictorError
	}
}
