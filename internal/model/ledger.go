package model

import "time"

// LedgerDocument is the persisted accuracy ledger for all tickers.
type LedgerDocument struct {
	LastUpdated *time.Time      `json:"last_updated"`
	Companies   []*CompanyEntry `json:"companies"`
}

// CompanyEntry is one ticker's ledger record.
type CompanyEntry struct {
	Ticker          string               `json:"ticker"`
	DisplayName     string               `json:"display_name"`
	History         []VerificationRecord `json:"history"`
	PendingForecast *PendingForecast     `json:"pending_forecast,omitempty"`
	CurrentState    *CurrentState        `json:"current_state,omitempty"`
}

// VerificationRecord compares the forecast made for a date with the price observed on it.
type VerificationRecord struct {
	ExecutionDate string   `json:"execution_date"`
	ObservedPrice float64  `json:"observed_price"`
	ForecastPrice *float64 `json:"forecast_price"`
	ErrorPct      *float64 `json:"error_pct"`
	Hit           *bool    `json:"hit"`
}

// PendingForecast is the outstanding next-day forecast awaiting verification.
type PendingForecast struct {
	TargetDate          string  `json:"target_date"`
	ForecastPrice       float64 `json:"forecast_price"`
	DailyChangePct      float64 `json:"daily_change_pct"`
	CumulativeChangePct float64 `json:"cumulative_change_pct"`
	TrendLabel          string  `json:"trend_label"`
}

// CurrentState is the snapshot of the latest analysis.
type CurrentState struct {
	Date                 string       `json:"date"`
	Price                float64      `json:"price"`
	RSI                  float64      `json:"rsi"`
	RSIState             string       `json:"rsi_state"`
	Trend5dPct           float64      `json:"trend_5d_pct"`
	Trend20dPct          float64      `json:"trend_20d_pct"`
	VolatilityPct        float64      `json:"volatility_pct"`
	Signal               SignalClass  `json:"signal"`
	SignalLabel          string       `json:"signal_label"`
	SignalIcon           string       `json:"signal_icon"`
	Score                float64      `json:"score"`
	Rationale            string       `json:"rationale"`
	BacktestAccuracyPct  float64      `json:"backtest_accuracy_pct"`
	BacktestMAE          float64      `json:"backtest_mae"`
	StopLoss             *float64     `json:"stop_loss"`
	TakeProfit           *float64     `json:"take_profit"`
	RiskReward           *float64     `json:"risk_reward"`
	PositionSize         PositionTier `json:"position_size"`
	RiskPerTrade         string       `json:"risk_per_trade"`
	VolumeState          string       `json:"volume_state"`
	MACD                 float64      `json:"macd"`
	MACDState            string       `json:"macd_state"`
	BollingerPositionPct float64      `json:"bollinger_position_pct"`
	BollingerZone        string       `json:"bollinger_zone"`
}
