package ledger

import (
	"strings"

	"SignalDesk/internal/model"
)

func rsiState(rsi float64) string {
	switch {
	case rsi > 70:
		return "overbought"
	case rsi < 30:
		return "oversold"
	default:
		return "neutral"
	}
}

func volumeState(ratio float64) string {
	switch {
	case ratio > 1.2:
		return "high"
	case ratio < 0.8:
		return "low"
	default:
		return "normal"
	}
}

func macdState(macd float64) string {
	if macd > 0 {
		return "bullish"
	}
	return "bearish"
}

func bollingerZone(pos float64) string {
	switch {
	case pos < 0.3:
		return "support"
	case pos > 0.7:
		return "resistance"
	default:
		return "neutral"
	}
}

func trendLabel(changePct, band float64) string {
	switch {
	case changePct > band:
		return "rises"
	case changePct < -band:
		return "falls"
	default:
		return "flat"
	}
}

// buildState snapshots the analysis for current_state.
func buildState(a *model.Analysis, date string) *model.CurrentState {
	label := a.Signal.Class.Label()
	icon := ""
	if fields := strings.Fields(label); len(fields) > 0 {
		icon = fields[0]
	}
	st := &model.CurrentState{
		Date:                 date,
		Price:                a.CurrentPrice,
		RSI:                  a.Tech.RSI,
		RSIState:             rsiState(a.Tech.RSI),
		Trend5dPct:           a.Tech.Trend5d,
		Trend20dPct:          a.Tech.Trend20d,
		VolatilityPct:        a.Tech.Volatility,
		Signal:               a.Signal.Class,
		SignalLabel:          label,
		SignalIcon:           icon,
		Score:                a.Signal.TotalScore,
		Rationale:            a.Signal.Rationale,
		BacktestAccuracyPct:  a.Backtest.AccuracyPct,
		BacktestMAE:          a.Backtest.MAE,
		VolumeState:          volumeState(a.Tech.VolumeRatio),
		MACD:                 a.Tech.MACD,
		MACDState:            macdState(a.Tech.MACD),
		BollingerPositionPct: a.Tech.BandPosition * 100,
		BollingerZone:        bollingerZone(a.Tech.BandPosition),
	}
	if a.Risk != nil {
		st.StopLoss = copyFloat(a.Risk.StopLoss)
		st.TakeProfit = copyFloat(a.Risk.TakeProfit)
		st.RiskReward = copyFloat(a.Risk.RiskReward)
		st.PositionSize = a.Risk.PositionSize
		st.RiskPerTrade = a.Risk.RiskPerTrade
	}
	return st
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
