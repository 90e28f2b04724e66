// Package risk derives stop-loss, take-profit and sizing guidance from a signal.
package risk

import (
	"fmt"
	"math"

	"SignalDesk/internal/model"
)

// DefaultStopPct is the distance of the stop from the current price, in percent.
const DefaultStopPct = 3.0

// Plan computes the RiskPlan for the signal class. Buy stops sit below the current price,
// sell stops above it; the take-profit is the forecast's final day either way.
func Plan(currentPrice float64, path model.ForecastPath, class model.SignalClass, stopPct float64) (*model.RiskPlan, error) {
	if currentPrice <= 0 || math.IsNaN(currentPrice) || math.IsInf(currentPrice, 0) {
		return nil, fmt.Errorf("%w: current price %v", model.ErrInvalidPrice, currentPrice)
	}
	if class == model.Hold {
		return &model.RiskPlan{
			RiskPerTrade: model.RiskBudgetNone,
			PositionSize: model.PositionNone,
		}, nil
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("empty forecast path for %s signal", class)
	}

	takeProfit := path.Final()
	var stopLoss, reward, risk float64
	switch {
	case class.IsBuy():
		stopLoss = currentPrice * (1 - stopPct/100)
		reward = takeProfit - currentPrice
		risk = currentPrice - stopLoss
	case class.IsSell():
		stopLoss = currentPrice * (1 + stopPct/100)
		reward = stopLoss - currentPrice
		risk = currentPrice - takeProfit
	default:
		return nil, fmt.Errorf("unknown signal class %d", int(class))
	}
	if risk == 0 {
		return nil, fmt.Errorf("%w: zero risk distance (price %.4f, target %.4f)", model.ErrInvalidPrice, currentPrice, takeProfit)
	}
	ratio := reward / risk
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return nil, fmt.Errorf("%w: risk/reward not finite", model.ErrInvalidPrice)
	}

	size := model.PositionModerate
	if class.IsStrong() {
		size = model.PositionHigh
	}
	return &model.RiskPlan{
		StopLoss:     &stopLoss,
		TakeProfit:   &takeProfit,
		RiskReward:   &ratio,
		RiskPerTrade: model.RiskBudgetTraded,
		PositionSize: size,
	}, nil
}
