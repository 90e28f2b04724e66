package model

import "fmt"

// SignalClass is the discrete trading action, ordered from strongest sell to strongest buy.
type SignalClass int

const (
	StrongSell SignalClass = iota - 3
	Sell
	WeakSell
	Hold
	WeakBuy
	Buy
	StrongBuy
)

var classNames = map[SignalClass]string{
	StrongSell: "strong-sell",
	Sell:       "sell",
	WeakSell:   "weak-sell",
	Hold:       "hold",
	WeakBuy:    "weak-buy",
	Buy:        "buy",
	StrongBuy:  "strong-buy",
}

var classLabels = map[SignalClass]string{
	StrongSell: "🔴 STRONG SELL",
	Sell:       "🔴 SELL",
	WeakSell:   "🟠 WEAK SELL",
	Hold:       "⚪ HOLD",
	WeakBuy:    "🟡 WEAK BUY",
	Buy:        "🟢 BUY",
	StrongBuy:  "🟢 STRONG BUY",
}

var classRationales = map[SignalClass]string{
	StrongSell: "Multiple bearish indicators and a strong downtrend",
	Sell:       "Moderate bearish signals, consider taking profits",
	WeakSell:   "Mild bearish signals, consider reducing the position",
	Hold:       "Sideways market or conflicting signals, keep the current position",
	WeakBuy:    "Mild bullish signals, consider a small position",
	Buy:        "Moderate bullish signals with good confirmation",
	StrongBuy:  "Multiple bullish indicators, strong trend and good volume",
}

func (c SignalClass) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return fmt.Sprintf("SignalClass(%d)", int(c))
}

// Label is the display label, prefixed with its icon.
func (c SignalClass) Label() string { return classLabels[c] }

// Rationale is the fixed explanation attached to the class.
func (c SignalClass) Rationale() string { return classRationales[c] }

func (c SignalClass) IsBuy() bool    { return c >= WeakBuy && c <= StrongBuy }
func (c SignalClass) IsSell() bool   { return c >= StrongSell && c <= WeakSell }
func (c SignalClass) IsStrong() bool { return c == StrongBuy || c == StrongSell }

// MarshalText encodes the class by name.
func (c SignalClass) MarshalText() ([]byte, error) {
	s, ok := classNames[c]
	if !ok {
		return nil, fmt.Errorf("unknown signal class %d", int(c))
	}
	return []byte(s), nil
}

// UnmarshalText decodes a class name.
func (c *SignalClass) UnmarshalText(b []byte) error {
	for k, v := range classNames {
		if v == string(b) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown signal class %q", string(b))
}

// FactorScore represents a single factor's scoring result.
type FactorScore struct {
	Name       string  `json:"name"`
	Metric     float64 `json:"metric"`
	Score      float64 `json:"score"`
	Commentary string  `json:"commentary"`
}

// SignalResult is the output of the signal scorer.
type SignalResult struct {
	Class      SignalClass   `json:"class"`
	TotalScore float64       `json:"total_score"`
	Rationale  string        `json:"rationale"`
	Factors    []FactorScore `json:"factors"`
}
