package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"SignalDesk/internal/model"
	"SignalDesk/internal/scheduler"
)

var (
	runTickers []string
	runNotify  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daily analysis once for every ticker and update the ledger",
	RunE:  runOnce,
}

func init() {
	runCmd.Flags().StringSliceVarP(&runTickers, "ticker", "t", nil, "limit the run to these symbols")
	runCmd.Flags().BoolVar(&runNotify, "notify", false, "send the report through Telegram when configured")
}

func selectTickers(all []model.Ticker, only []string) []model.Ticker {
	if len(only) == 0 {
		return all
	}
	bySymbol := make(map[string]model.Ticker, len(all))
	for _, t := range all {
		bySymbol[t.Symbol] = t
	}
	out := make([]model.Ticker, 0, len(only))
	seen := make(map[string]bool, len(only))
	for _, s := range only {
		sym := strings.ToUpper(strings.TrimSpace(s))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		t, ok := bySymbol[sym]
		if !ok {
			t = model.Ticker{Symbol: sym}
		}
		out = append(out, t)
	}
	return out
}

func runOnce(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	tickers := selectTickers(cfg.Tickers, runTickers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := a.runner.Run(ctx, tickers)
	if err != nil {
		return err
	}

	text := scheduler.FormatRunReport(report)
	if runNotify && a.tg != nil {
		if err := a.tg.SendWithRetry(ctx, text, 3); err != nil {
			return fmt.Errorf("send report: %w", err)
		}
	} else {
		fmt.Println(plainText(text))
	}

	if len(report.Succeeded()) == 0 && len(report.Failed()) > 0 {
		return fmt.Errorf("all %d tickers failed", len(report.Failed()))
	}
	return nil
}
