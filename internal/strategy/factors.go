package strategy

import (
	"fmt"

	"SignalDesk/internal/model"
)

// scoreRSI: oversold readings favour buying, overbought favour selling.
// Range: -2 .. +2
func scoreRSI(rsi float64, th Thresholds) model.FactorScore {
	var score float64
	var commentary string
	switch {
	case rsi < th.RSIOversold:
		score, commentary = 2, "oversold"
	case rsi < th.RSIBuy:
		score, commentary = 1, "leaning oversold"
	case rsi > th.RSIOverbought:
		score, commentary = -2, "overbought"
	case rsi > th.RSISell:
		score, commentary = -1, "leaning overbought"
	default:
		commentary = "neutral"
	}
	return model.FactorScore{
		Name:       FactorRSI,
		Metric:     rsi,
		Score:      score,
		Commentary: fmt.Sprintf("RSI=%.1f %s", rsi, commentary),
	}
}

// scoreForecastTrend scores the percent move from the current price to the forecast final day.
// Range: -3 .. +3
func scoreForecastTrend(changePct float64) model.FactorScore {
	var score float64
	switch {
	case changePct > 5:
		score = 3
	case changePct > 2:
		score = 2
	case changePct > 0.5:
		score = 1
	case changePct < -5:
		score = -3
	case changePct < -2:
		score = -2
	case changePct < -0.5:
		score = -1
	}
	return model.FactorScore{
		Name:       FactorForecast,
		Metric:     changePct,
		Score:      score,
		Commentary: fmt.Sprintf("forecast %+.2f%%", changePct),
	}
}

// scoreVolume: heavy volume confirms the move, thin volume counsels caution.
// Range: -1 .. +2
func scoreVolume(ratio float64, th Thresholds) model.FactorScore {
	var score float64
	switch {
	case ratio > th.VolumeSurge:
		score = 2
	case ratio > th.VolumeHigh:
		score = 1
	case ratio < th.VolumeThin:
		score = -1
	case ratio < th.VolumeLow:
		score = -0.5
	}
	return model.FactorScore{
		Name:       FactorVolume,
		Metric:     ratio,
		Score:      score,
		Commentary: fmt.Sprintf("volume x%.2f", ratio),
	}
}

// scoreMACD compares the MACD line with its signal line, confirmed by the histogram sign.
// Range: -2 .. +2
func scoreMACD(macd, signal, hist float64) model.FactorScore {
	var score float64
	var commentary string
	switch {
	case macd > signal && hist > 0:
		score, commentary = 2, "bullish crossover confirmed"
	case macd > signal:
		score, commentary = 1, "bullish"
	case macd < signal && hist < 0:
		score, commentary = -2, "bearish crossover confirmed"
	case macd < signal:
		score, commentary = -1, "bearish"
	default:
		commentary = "flat"
	}
	return model.FactorScore{
		Name:       FactorMACD,
		Metric:     macd - signal,
		Score:      score,
		Commentary: commentary,
	}
}

// scoreTrend requires the 5-day and 20-day changes to agree.
// Range: -2 .. +2
func scoreTrend(trend5d, trend20d float64) model.FactorScore {
	var score float64
	var commentary string
	switch {
	case trend5d > 2 && trend20d > 1:
		score, commentary = 2, "confirmed uptrend"
	case trend5d > 0 && trend20d > 0:
		score, commentary = 1, "uptrend"
	case trend5d < -2 && trend20d < -1:
		score, commentary = -2, "confirmed downtrend"
	case trend5d < 0 && trend20d < 0:
		score, commentary = -1, "downtrend"
	default:
		commentary = "mixed"
	}
	return model.FactorScore{
		Name:       FactorTrend,
		Metric:     trend5d,
		Score:      score,
		Commentary: fmt.Sprintf("5d %+.2f%% / 20d %+.2f%% %s", trend5d, trend20d, commentary),
	}
}

// scoreBandPosition: near the lower band reads as support, near the upper as resistance.
// Range: -1 .. +1
func scoreBandPosition(pos float64, th Thresholds) model.FactorScore {
	var score float64
	var commentary string
	switch {
	case pos < th.BandSupport:
		score, commentary = 1, "near support"
	case pos > th.BandResistance:
		score, commentary = -1, "near resistance"
	default:
		commentary = "mid-band"
	}
	return model.FactorScore{
		Name:       FactorBands,
		Metric:     pos,
		Score:      score,
		Commentary: fmt.Sprintf("position %.0f%% %s", pos*100, commentary),
	}
}
