package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"SignalDesk/internal/model"
)

// FormatTickerReport renders one ticker's analysis. It only reads the value objects the
// pipeline produced; nothing is recomputed here except display percentages.
func FormatTickerReport(a *model.Analysis) string {
	var b strings.Builder

	name := a.Context.DisplayName
	if name == "" {
		name = a.Context.Ticker
	}
	b.WriteString(fmt.Sprintf("<b>%s</b> (%s) | %.2f\n", html.EscapeString(name), a.Context.Ticker, a.CurrentPrice))

	if a.Signal != nil {
		b.WriteString(fmt.Sprintf("%s | score %+.1f\n", a.Signal.Class.Label(), a.Signal.TotalScore))
		b.WriteString(fmt.Sprintf("<i>%s</i>\n", html.EscapeString(a.Signal.Rationale)))
		for _, f := range a.Signal.Factors {
			b.WriteString(fmt.Sprintf("  %s: %+.1f (%s)\n", f.Name, f.Score, html.EscapeString(f.Commentary)))
		}
	}

	// Forecast path
	if len(a.Forecast) > 0 {
		b.WriteString(fmt.Sprintf("\n🔮 <b>%d-day forecast:</b>\n", len(a.Forecast)))
		prev := a.CurrentPrice
		for _, p := range a.Forecast {
			daily := (p.Price - prev) / prev * 100
			cumulative := (p.Price - a.CurrentPrice) / a.CurrentPrice * 100
			b.WriteString(fmt.Sprintf("  %s %s: %.2f (%+.2f%% / %+.2f%%)\n",
				p.Date.Format(model.DateLayout), p.Date.Weekday().String()[:3], p.Price, daily, cumulative))
			prev = p.Price
		}
	}

	// Risk plan
	if a.Risk.Traded() {
		b.WriteString(fmt.Sprintf("\n🛡 stop %.2f | target %.2f | R/R %.2f\n",
			*a.Risk.StopLoss, *a.Risk.TakeProfit, *a.Risk.RiskReward))
		b.WriteString(fmt.Sprintf("   size: %s, risk %s\n", a.Risk.PositionSize, a.Risk.RiskPerTrade))
	} else if a.Risk != nil {
		b.WriteString(fmt.Sprintf("\n🛡 %s\n", a.Risk.RiskPerTrade))
	}

	// Key indicators
	t := a.Tech
	b.WriteString(fmt.Sprintf("\nRSI %.1f | 5d %+.2f%% | 20d %+.2f%% | vol %.2f%%\n",
		t.RSI, t.Trend5d, t.Trend20d, t.Volatility))
	b.WriteString(fmt.Sprintf("MACD %.3f/%.3f | volume x%.2f | band %.0f%%\n",
		t.MACD, t.MACDSignal, t.VolumeRatio, t.BandPosition*100))

	if a.Backtest.Samples > 0 {
		b.WriteString(fmt.Sprintf("Backtest: %.1f%% accuracy, MAE %.2f (%d samples)\n",
			a.Backtest.AccuracyPct, a.Backtest.MAE, a.Backtest.Samples))
	} else {
		b.WriteString("Backtest: not enough history\n")
	}
	return b.String()
}

// FormatDailyReport renders the summary of a run plus every analyzed ticker.
func FormatDailyReport(date time.Time, analyses []*model.Analysis, failed []string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>SignalDesk daily report</b> | %s\n", date.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("%d analyzed, %d failed\n", len(analyses), len(failed)))

	if len(analyses) > 0 {
		b.WriteString("\n")
		for _, a := range analyses {
			if a.Signal == nil {
				continue
			}
			b.WriteString(fmt.Sprintf("%-6s %s (%+.1f)\n", a.Context.Ticker, a.Signal.Class.Label(), a.Signal.TotalScore))
		}
	}
	if len(failed) > 0 {
		b.WriteString(fmt.Sprintf("\n❌ failed: %s\n", strings.Join(failed, ", ")))
	}

	for _, a := range analyses {
		b.WriteString("\n────────────\n")
		b.WriteString(FormatTickerReport(a))
	}
	return b.String()
}

// FormatStatus renders a ledger entry: latest state, pending forecast and hit rate.
func FormatStatus(entry *model.CompanyEntry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📦 <b>%s</b> (%s)\n\n", html.EscapeString(entry.DisplayName), entry.Ticker))

	if s := entry.CurrentState; s != nil {
		b.WriteString(fmt.Sprintf("%s: %.2f\n", s.Date, s.Price))
		b.WriteString(fmt.Sprintf("%s | score %+.1f\n", s.SignalLabel, s.Score))
		b.WriteString(fmt.Sprintf("RSI %.1f (%s) | MACD %s | %s\n", s.RSI, s.RSIState, s.MACDState, s.BollingerZone))
	}
	if p := entry.PendingForecast; p != nil {
		b.WriteString(fmt.Sprintf("Next %s: %.2f (%+.2f%%, %s)\n", p.TargetDate, p.ForecastPrice, p.DailyChangePct, p.TrendLabel))
	}

	var checked, hits int
	for _, h := range entry.History {
		if h.Hit == nil {
			continue
		}
		checked++
		if *h.Hit {
			hits++
		}
	}
	if checked > 0 {
		b.WriteString(fmt.Sprintf("Hit rate: %d/%d (%.0f%%) over %d runs\n",
			hits, checked, float64(hits)/float64(checked)*100, len(entry.History)))
	} else {
		b.WriteString(fmt.Sprintf("Hit rate: no verified forecasts yet (%d runs)\n", len(entry.History)))
	}
	return b.String()
}
