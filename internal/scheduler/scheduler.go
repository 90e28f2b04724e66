package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/robfig/cron/v3"

	"SignalDesk/internal/ledger"
	"SignalDesk/internal/metrics"
	"SignalDesk/internal/model"
	"SignalDesk/internal/notifier"
	"SignalDesk/internal/pipeline"
)

// Scheduler manages the cron-driven daily run and the chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *pipeline.Runner
	Tickers  []model.Ticker
	Notifier notifier.Sender
	Health   *metrics.HealthStatus
	Ctx      context.Context

	mu sync.Mutex // held for the duration of a run
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, runner *pipeline.Runner, tickers []model.Ticker, sender notifier.Sender) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Runner:   runner,
		Tickers:  tickers,
		Notifier: sender,
		Health:   metrics.NewHealthStatus(),
		Ctx:      ctx,
	}
}

// RegisterAll registers the daily run.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the daily run immediately. It returns false if a run is already in progress.
func (s *Scheduler) RunNow() (*pipeline.RunReport, bool, error) {
	if !s.mu.TryLock() {
		return nil, false, nil
	}
	defer s.mu.Unlock()

	report, err := s.Runner.Run(s.Ctx, s.Tickers)
	if err != nil {
		return nil, true, err
	}
	s.Health.SetLastRun(report.RunID, report.FinishedAt, len(report.Succeeded()), len(report.Failed()))
	return report, true, nil
}

func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily task")
	report, started, err := s.RunNow()
	switch {
	case !started:
		log.Println("[WARN] daily task skipped: a run is already in progress")
		return
	case err != nil:
		log.Printf("[ERROR] daily run: %v", err)
		s.trySend(fmt.Sprintf("❌ daily run failed: %v", err))
		return
	}
	s.trySend(FormatRunReport(report))
}

// FormatRunReport renders a finished run through the notifier formatter.
func FormatRunReport(report *pipeline.RunReport) string {
	var analyses []*model.Analysis
	for _, res := range report.Succeeded() {
		analyses = append(analyses, res.Analysis)
	}
	var failed []string
	for _, res := range report.Failed() {
		failed = append(failed, res.Ticker.Symbol)
	}
	return notifier.FormatDailyReport(report.StartedAt, analyses, failed)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/run":
		go s.dailyTask()
		return "⏳ run started"
	case "/status":
		if len(fields) < 2 {
			return "usage: /status TICKER"
		}
		return s.status(strings.ToUpper(fields[1]))
	case "/tickers":
		var b strings.Builder
		for _, t := range s.Tickers {
			b.WriteString(fmt.Sprintf("%s %s\n", t.Symbol, t.Name))
		}
		return b.String()
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /run - run the daily analysis now\n• /status TICKER - latest state and hit rate\n• /tickers - list the worklist"

func (s *Scheduler) status(ticker string) string {
	doc, err := ledger.LoadDocument(s.Runner.LedgerPath)
	if err != nil {
		log.Printf("[ERROR] load ledger for status: %v", err)
		return fmt.Sprintf("❌ ledger unavailable: %v", err)
	}
	entry := ledger.NewBook(doc, s.Runner.LedgerCfg).Entry(ticker)
	if entry == nil {
		return fmt.Sprintf("no ledger entry for %s", ticker)
	}
	return notifier.FormatStatus(entry)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
