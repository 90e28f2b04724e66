package model

// PositionTier is the qualitative position size guidance.
type PositionTier string

const (
	PositionHigh     PositionTier = "high"
	PositionModerate PositionTier = "moderate"
	PositionNone     PositionTier = "none"
)

const (
	RiskBudgetTraded = "2% of capital"
	RiskBudgetNone   = "do not trade"
)

// RiskPlan holds the exit levels for a signal. Prices and ratio are nil for hold.
type RiskPlan struct {
	StopLoss     *float64     `json:"stop_loss"`
	TakeProfit   *float64     `json:"take_profit"`
	RiskReward   *float64     `json:"risk_reward"`
	RiskPerTrade string       `json:"risk_per_trade"`
	PositionSize PositionTier `json:"position_size"`
}

// Traded reports whether the plan carries exit levels.
func (p *RiskPlan) Traded() bool { return p != nil && p.StopLoss != nil }
