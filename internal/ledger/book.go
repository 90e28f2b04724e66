// Package ledger keeps the per-ticker accuracy ledger: an append-only verification history,
// the outstanding next-day forecast and a snapshot of the latest analysis.
package ledger

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"SignalDesk/internal/model"
)

// Config holds the verification tolerances.
type Config struct {
	HitPct         float64 // a forecast within this percent of the observed price is a hit
	TrendLabelBand float64 // percent change treated as flat
}

// DefaultConfig returns the standard tolerances.
func DefaultConfig() Config {
	return Config{HitPct: 2, TrendLabelBand: 0.2}
}

var hundred = decimal.NewFromInt(100)

// Book mutates a loaded ledger document in memory. It is not safe for concurrent use;
// the caller loads the document once, applies every ticker, then saves once.
type Book struct {
	doc *model.LedgerDocument
	cfg Config
}

// NewBook wraps a loaded document.
func NewBook(doc *model.LedgerDocument, cfg Config) *Book {
	if doc.Companies == nil {
		doc.Companies = []*model.CompanyEntry{}
	}
	return &Book{doc: doc, cfg: cfg}
}

// Document returns the underlying document.
func (b *Book) Document() *model.LedgerDocument { return b.doc }

// Entry returns the ticker's entry, or nil if it has never been recorded.
func (b *Book) Entry(ticker string) *model.CompanyEntry {
	for _, e := range b.doc.Companies {
		if e.Ticker == ticker {
			return e
		}
	}
	return nil
}

// Apply closes the loop for one ticker: it verifies the pending forecast against today's
// observed price, appends the verification record, replaces the pending forecast with the
// next-weekday forecast and replaces the current-state snapshot. Everything is validated
// before the entry is touched, so an error leaves the ledger unchanged.
func (b *Book) Apply(a *model.Analysis) (model.VerificationRecord, error) {
	if err := validate(a); err != nil {
		return model.VerificationRecord{}, fmt.Errorf("ledger %s: %w", a.Context.Ticker, err)
	}

	today := a.Context.ExecutionDate()
	todayStr := today.Format(model.DateLayout)
	entry := b.Entry(a.Context.Ticker)

	rec := model.VerificationRecord{
		ExecutionDate: todayStr,
		ObservedPrice: a.CurrentPrice,
	}
	if entry != nil && entry.PendingForecast != nil && entry.PendingForecast.TargetDate == todayStr {
		rec = b.verify(rec, entry.PendingForecast.ForecastPrice)
	}

	next, _ := a.Forecast.First()
	change := (next.Price - a.CurrentPrice) / a.CurrentPrice * 100
	pending := &model.PendingForecast{
		TargetDate:          model.NextWeekday(today).Format(model.DateLayout),
		ForecastPrice:       next.Price,
		DailyChangePct:      change,
		CumulativeChangePct: change,
		TrendLabel:          trendLabel(change, b.cfg.TrendLabelBand),
	}

	if entry == nil {
		entry = &model.CompanyEntry{
			Ticker:  a.Context.Ticker,
			History: []model.VerificationRecord{},
		}
		b.doc.Companies = append(b.doc.Companies, entry)
	}
	switch {
	case a.Context.DisplayName != "":
		entry.DisplayName = a.Context.DisplayName
	case entry.DisplayName == "":
		entry.DisplayName = a.Context.Ticker
	}
	entry.History = append(entry.History, rec)
	entry.PendingForecast = pending
	entry.CurrentState = buildState(a, todayStr)
	return rec, nil
}

// Touch stamps the document's last update time.
func (b *Book) Touch(now time.Time) {
	ts := now.UTC()
	b.doc.LastUpdated = &ts
}

func (b *Book) verify(rec model.VerificationRecord, forecast float64) model.VerificationRecord {
	observed := decimal.NewFromFloat(rec.ObservedPrice)
	errPct := decimal.NewFromFloat(forecast).Sub(observed).Abs().Div(observed).Mul(hundred)
	hit := errPct.LessThanOrEqual(decimal.NewFromFloat(b.cfg.HitPct))

	pct, _ := errPct.Float64()
	rec.ForecastPrice = &forecast
	rec.ErrorPct = &pct
	rec.Hit = &hit
	return rec
}

func validate(a *model.Analysis) error {
	if a.Signal == nil {
		return fmt.Errorf("analysis has no signal")
	}
	if a.CurrentPrice <= 0 || !finite(a.CurrentPrice) {
		return fmt.Errorf("%w: observed price %v", model.ErrInvalidPrice, a.CurrentPrice)
	}
	next, ok := a.Forecast.First()
	if !ok {
		return fmt.Errorf("%w: empty forecast", model.ErrInsufficientHistory)
	}
	numbers := map[string]float64{
		"forecast_price":        next.Price,
		"score":                 a.Signal.TotalScore,
		"rsi":                   a.Tech.RSI,
		"trend_5d":              a.Tech.Trend5d,
		"trend_20d":             a.Tech.Trend20d,
		"volatility":            a.Tech.Volatility,
		"volume_ratio":          a.Tech.VolumeRatio,
		"macd":                  a.Tech.MACD,
		"band_position":         a.Tech.BandPosition,
		"backtest_accuracy_pct": a.Backtest.AccuracyPct,
		"backtest_mae":          a.Backtest.MAE,
	}
	for name, v := range numbers {
		if !finite(v) {
			return fmt.Errorf("%w: %s is not finite", model.ErrMissingIndicator, name)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
