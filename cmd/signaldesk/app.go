package main

import (
	"fmt"
	"log"

	"SignalDesk/internal/backtest"
	"SignalDesk/internal/collector"
	"SignalDesk/internal/config"
	"SignalDesk/internal/ledger"
	"SignalDesk/internal/metrics"
	"SignalDesk/internal/notifier"
	"SignalDesk/internal/pipeline"
	"SignalDesk/internal/recorder"
	"SignalDesk/internal/strategy"
)

// app bundles the wired components. close releases the recorder.
type app struct {
	runner  *pipeline.Runner
	sender  notifier.Sender
	tg      *notifier.TelegramNotifier
	metrics *metrics.Metrics
	close   func()
}

func newFetcher(c *config.Config) collector.Fetcher {
	switch c.DataSource.Provider {
	case "financego":
		return collector.NewFinanceGoFetcher()
	case "mock":
		return &collector.MockFetcher{Price: 100, Days: 300}
	default:
		return collector.NewYahooFetcher(c.Proxy)
	}
}

func buildApp(c *config.Config) (*app, error) {
	historyStart, err := c.HistoryStartTime()
	if err != nil {
		return nil, fmt.Errorf("history start: %w", err)
	}

	fetcher := newFetcher(c)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	analyzer := pipeline.NewAnalyzer(
		strategy.NewScorer(c.Thresholds.Thresholds),
		c.Thresholds.StopPct,
		backtest.NewEvaluator(backtest.DefaultConfig()),
	)
	runner := pipeline.NewRunner(
		collector.NewCollector(fetcher, historyStart),
		analyzer,
		c.Ledger.Path,
		ledger.Config{HitPct: c.Thresholds.HitPct, TrendLabelBand: c.Thresholds.TrendLabelPct},
		c.Forecast.Horizon,
	)

	a := &app{runner: runner, sender: notifier.LogSender{}, close: func() {}}

	if c.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(c.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		} else {
			runner.Recorder = sr
			a.close = func() { sr.Close() }
		}
	}

	if c.TelegramEnabled() {
		a.tg = notifier.NewTelegramNotifier(c.Telegram.BotToken, c.Telegram.ChatID, c.Proxy)
		a.sender = a.tg
	}

	a.metrics = metrics.NewMetrics()
	runner.Metrics = a.metrics
	return a, nil
}
