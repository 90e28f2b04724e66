package strategy

import (
	"fmt"
	"math"

	"SignalDesk/internal/calculator"
	"SignalDesk/internal/model"
)

// Factor names, in scoring order.
const (
	FactorRSI      = "RSI"
	FactorForecast = "Forecast trend"
	FactorVolume   = "Volume"
	FactorMACD     = "MACD"
	FactorTrend    = "Medium-term trend"
	FactorBands    = "Band position"
)

// Thresholds are the tunable band edges of the RSI, volume and band-position factors.
type Thresholds struct {
	RSIOversold    float64 `yaml:"rsi_oversold"`
	RSIBuy         float64 `yaml:"rsi_buy"`
	RSIOverbought  float64 `yaml:"rsi_overbought"`
	RSISell        float64 `yaml:"rsi_sell"`
	VolumeSurge    float64 `yaml:"volume_surge"`
	VolumeHigh     float64 `yaml:"volume_high"`
	VolumeThin     float64 `yaml:"volume_thin"`
	VolumeLow      float64 `yaml:"volume_low"`
	BandSupport    float64 `yaml:"band_support"`
	BandResistance float64 `yaml:"band_resistance"`
}

// DefaultThresholds returns the standard band edges.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RSIOversold:    30,
		RSIBuy:         45,
		RSIOverbought:  70,
		RSISell:        55,
		VolumeSurge:    1.5,
		VolumeHigh:     1.2,
		VolumeThin:     0.7,
		VolumeLow:      0.9,
		BandSupport:    0.2,
		BandResistance: 0.8,
	}
}

// BuyClasses and SellClasses define the 7-level class mapping. Buy levels are checked
// first, each list top-down; a score matching neither holds.
var BuyClasses = []struct {
	MinScore float64
	Class    model.SignalClass
}{
	{6, model.StrongBuy},
	{4, model.Buy},
	{2, model.WeakBuy},
}

var SellClasses = []struct {
	MaxScore float64
	Class    model.SignalClass
}{
	{-6, model.StrongSell},
	{-4, model.Sell},
	{-2, model.WeakSell},
}

// mapClass maps a total score to its signal class.
func mapClass(totalScore float64) model.SignalClass {
	for _, c := range BuyClasses {
		if totalScore >= c.MinScore {
			return c.Class
		}
	}
	for _, c := range SellClasses {
		if totalScore <= c.MaxScore {
			return c.Class
		}
	}
	return model.Hold
}

// Inputs is what the scorer reads.
type Inputs struct {
	Row           model.IndicatorRow
	CurrentPrice  float64
	ForecastFinal float64
	Trend5d       float64
	Trend20d      float64
}

// Scorer turns the latest indicators and the forecast into a SignalResult.
type Scorer struct {
	Thresholds Thresholds
}

// NewScorer creates a Scorer with the given thresholds.
func NewScorer(th Thresholds) *Scorer {
	return &Scorer{Thresholds: th}
}

// Evaluate computes the six factor scores, their total and the mapped class.
func (s *Scorer) Evaluate(in Inputs) (*model.SignalResult, error) {
	if err := checkRequired(in.Row); err != nil {
		return nil, err
	}
	if in.CurrentPrice <= 0 || math.IsNaN(in.CurrentPrice) || math.IsInf(in.CurrentPrice, 0) {
		return nil, fmt.Errorf("%w: current price %v", model.ErrInvalidPrice, in.CurrentPrice)
	}

	changePct := (in.ForecastFinal - in.CurrentPrice) / in.CurrentPrice * 100
	pos := calculator.BandPosition(in.CurrentPrice, in.Row.BBUpper, in.Row.BBLower)

	factors := []model.FactorScore{
		scoreRSI(in.Row.RSI14, s.Thresholds),
		scoreForecastTrend(changePct),
		scoreVolume(in.Row.VolumeRatio, s.Thresholds),
		scoreMACD(in.Row.MACD, in.Row.MACDSignal, in.Row.MACDHist),
		scoreTrend(in.Trend5d, in.Trend20d),
		scoreBandPosition(pos, s.Thresholds),
	}

	total := 0.0
	for _, f := range factors {
		total += f.Score
	}
	class := mapClass(total)

	return &model.SignalResult{
		Class:      class,
		TotalScore: total,
		Rationale:  class.Rationale(),
		Factors:    factors,
	}, nil
}

func checkRequired(r model.IndicatorRow) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"rsi_14", r.RSI14},
		{"macd", r.MACD},
		{"macd_signal", r.MACDSignal},
		{"macd_histogram", r.MACDHist},
		{"bb_upper", r.BBUpper},
		{"bb_lower", r.BBLower},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s", model.ErrMissingIndicator, f.name)
		}
	}
	return nil
}
