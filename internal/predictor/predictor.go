// Package predictor produces the short-horizon price forecast: a fixed-weight blend of a
// moving-average estimate, a linear-trend extrapolation and a momentum projection,
// glided day by day from the current price.
package predictor

import (
	"fmt"
	"math"

	"SignalDesk/internal/calculator"
	"SignalDesk/internal/model"
)

const (
	// MinHistory is the number of rows the regression window needs.
	MinHistory = 20

	DefaultHorizon = 7

	weightMA       = 0.4
	weightLinReg   = 0.4
	weightMomentum = 0.2

	momentumScale = 0.3
	pathDamping   = 0.8
)

// Estimate holds the individual estimators and their blend.
type Estimate struct {
	Current  float64
	MA       float64
	LinReg   float64
	Momentum float64
	Final    float64
}

// Ensemble computes the blended target price horizon trading days after the last row.
func Ensemble(table model.IndicatorTable, horizon int) (Estimate, error) {
	if horizon < 1 {
		return Estimate{}, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if len(table) < MinHistory {
		return Estimate{}, fmt.Errorf("%w: need %d rows, have %d", model.ErrInsufficientHistory, MinHistory, len(table))
	}
	closes := table.Closes()
	current := closes[len(closes)-1]
	if current <= 0 || math.IsNaN(current) || math.IsInf(current, 0) {
		return Estimate{}, fmt.Errorf("%w: current close %v", model.ErrInvalidPrice, current)
	}

	sma5, err := calculator.CalculateSMA(closes, 5)
	if err != nil {
		return Estimate{}, err
	}
	sma10, err := calculator.CalculateSMA(closes, 10)
	if err != nil {
		return Estimate{}, err
	}
	ma := (sma5 + sma10) / 2

	slope, intercept := fitLine(closes[len(closes)-MinHistory:])
	linReg := intercept + slope*float64(MinHistory-1+horizon)

	trend5d, err := calculator.PercentChange(closes, 5)
	if err != nil {
		return Estimate{}, err
	}
	momentum := current * (1 + trend5d/100*float64(horizon)*momentumScale)

	return Estimate{
		Current:  current,
		MA:       ma,
		LinReg:   linReg,
		Momentum: momentum,
		Final:    weightMA*ma + weightLinReg*linReg + weightMomentum*momentum,
	}, nil
}

// Predict returns the forecast path of length horizon. Day d sits at
// current + (final - current) * d/horizon * 0.8, so the last day stays short of the
// ensemble target. Dates advance one weekday at a time from the last row.
func Predict(table model.IndicatorTable, horizon int) (model.ForecastPath, error) {
	est, err := Ensemble(table, horizon)
	if err != nil {
		return nil, err
	}
	last, _ := table.Latest()

	path := make(model.ForecastPath, horizon)
	date := last.Date
	for d := 1; d <= horizon; d++ {
		date = model.NextWeekday(date)
		progress := float64(d) / float64(horizon)
		path[d-1] = model.ForecastPoint{
			Date:  date,
			Price: est.Current + (est.Final-est.Current)*progress*pathDamping,
		}
	}
	return path, nil
}

// fitLine is an ordinary least-squares fit of y against x = 0..n-1.
// The x values always vary, so a constant series yields slope 0.
func fitLine(y []float64) (slope, intercept float64) {
	n := float64(len(y))
	meanX := (n - 1) / 2
	meanY := 0.0
	for _, v := range y {
		meanY += v
	}
	meanY /= n

	var sxy, sxx float64
	for i, v := range y {
		dx := float64(i) - meanX
		sxy += dx * (v - meanY)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0, meanY
	}
	slope = sxy / sxx
	return slope, meanY - slope*meanX
}
