package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"SignalDesk/internal/metrics"
	"SignalDesk/internal/scheduler"
)

var runOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daily analysis on a cron schedule and answer Telegram commands",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "execute a run immediately")
}

func runServe(cmd *cobra.Command, args []string) error {
	log.Println("[INFO] SignalDesk starting...")

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, a.runner, cfg.Tickers, a.sender)
	if err := sched.RegisterAll(cfg.Schedule.DailyCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Metrics.ListenAddr != "" {
		srv := metrics.NewServer(cfg.Metrics.ListenAddr, a.metrics, sched.Health)
		srv.Start()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			srv.Stop(shutdownCtx)
		}()
	}

	if a.tg != nil {
		go a.tg.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	} else {
		log.Println("[WARN] Telegram not configured, reports go to the log")
	}

	if runOnStart {
		log.Println("[INFO] run-on-start enabled, executing daily run now")
		go sched.HandleCommand("/run")
	}

	log.Printf("[INFO] SignalDesk is running (%s). Press Ctrl+C to stop.", cfg.Schedule.DailyCron)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	return nil
}
