package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"SignalDesk/internal/ledger"
	"SignalDesk/internal/metrics"
	"SignalDesk/internal/model"
	"SignalDesk/internal/recorder"
)

// Run stages, used to tag failures.
const (
	StageCollect = "collect"
	StageAnalyze = "analyze"
	StageLedger  = "ledger"
)

// Source supplies the indicator table of one ticker.
type Source interface {
	Collect(ctx context.Context, rc model.RunContext) (model.IndicatorTable, error)
}

// TickerResult is the outcome of one worklist item.
type TickerResult struct {
	Ticker       model.Ticker
	Analysis     *model.Analysis
	Verification model.VerificationRecord
	Pending      *model.PendingForecast
	Stage        string
	Err          error
	Duration     time.Duration
}

// RunReport summarizes one pass over the worklist.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []TickerResult
}

// Succeeded returns the tickers that were analyzed and booked.
func (r *RunReport) Succeeded() []TickerResult {
	var out []TickerResult
	for _, res := range r.Results {
		if res.Err == nil {
			out = append(out, res)
		}
	}
	return out
}

// Failed returns the tickers whose run was aborted.
func (r *RunReport) Failed() []TickerResult {
	var out []TickerResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Runner processes the worklist: load the ledger once, run every ticker in order, save once.
type Runner struct {
	Source     Source
	Analyzer   *Analyzer
	LedgerPath string
	LedgerCfg  ledger.Config
	Horizon    int
	Recorder   recorder.Recorder
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

// NewRunner creates a Runner with a no-op recorder and the wall clock.
func NewRunner(src Source, analyzer *Analyzer, ledgerPath string, cfg ledger.Config, horizon int) *Runner {
	return &Runner{
		Source:     src,
		Analyzer:   analyzer,
		LedgerPath: ledgerPath,
		LedgerCfg:  cfg,
		Horizon:    horizon,
		Recorder:   recorder.NewNoopRecorder(),
		Now:        time.Now,
	}
}

// Run processes tickers sequentially. A failing ticker is logged and skipped, leaving its
// ledger entry untouched; a repeated symbol is processed once. Only ledger load and save
// errors abort the run, and nothing reaches the recorder unless the save succeeded.
func (r *Runner) Run(ctx context.Context, tickers []model.Ticker) (*RunReport, error) {
	report := &RunReport{RunID: uuid.NewString(), StartedAt: r.Now()}

	doc, err := ledger.LoadDocument(r.LedgerPath)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	book := ledger.NewBook(doc, r.LedgerCfg)

	log.Printf("[INFO] run %s: %d tickers", report.RunID, len(tickers))
	var (
		runs     []*recorder.RunRecord
		failures []*recorder.FailureRecord
	)
	seen := make(map[string]bool, len(tickers))
	for _, t := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run %s cancelled: %w", report.RunID, err)
		}
		if seen[t.Symbol] {
			log.Printf("[WARN] duplicate ticker %s skipped", t.Symbol)
			continue
		}
		seen[t.Symbol] = true

		res := r.runTicker(ctx, book, t, report.StartedAt)
		report.Results = append(report.Results, res)

		score, accuracy := 0.0, 0.0
		if res.Err == nil {
			score, accuracy = res.Analysis.Signal.TotalScore, res.Analysis.Backtest.AccuracyPct
		}
		r.Metrics.ObserveTicker(t.Symbol, res.Duration, res.Err, score, accuracy)

		if res.Err != nil {
			log.Printf("[ERROR] %s %s: %v", t.Symbol, res.Stage, res.Err)
			failures = append(failures, &recorder.FailureRecord{
				RunID: report.RunID, Ticker: t.Symbol, Stage: res.Stage, Error: res.Err.Error(),
			})
			continue
		}

		r.Metrics.ObserveVerification(res.Verification.Hit)
		runs = append(runs, &recorder.RunRecord{
			RunID:        report.RunID,
			Analysis:     res.Analysis,
			Verification: res.Verification,
			Pending:      res.Pending,
		})
		log.Printf("[INFO] %s: %s score=%+.1f close=%.2f next=%s",
			t.Symbol, res.Analysis.Signal.Class, res.Analysis.Signal.TotalScore,
			res.Analysis.CurrentPrice, res.Pending.TargetDate)
	}

	report.FinishedAt = r.Now()
	book.Touch(report.FinishedAt)

	saveStart := time.Now()
	if err := ledger.SaveDocument(r.LedgerPath, book.Document()); err != nil {
		return nil, fmt.Errorf("save ledger: %w", err)
	}
	r.Metrics.ObserveSave(time.Since(saveStart))
	r.Metrics.RunFinished(report.FinishedAt)

	// The recorder mirrors the ledger, so it only sees runs whose ledger write landed.
	for _, rec := range runs {
		if err := r.Recorder.RecordRun(rec); err != nil {
			log.Printf("[ERROR] record run %s: %v", rec.Analysis.Context.Ticker, err)
		}
	}
	for _, f := range failures {
		if err := r.Recorder.RecordFailure(f); err != nil {
			log.Printf("[ERROR] record failure: %v", err)
		}
	}

	log.Printf("[INFO] run %s done: %d ok, %d failed", report.RunID, len(report.Succeeded()), len(report.Failed()))
	return report, nil
}

func (r *Runner) runTicker(ctx context.Context, book *ledger.Book, t model.Ticker, asOf time.Time) TickerResult {
	start := time.Now()
	res := TickerResult{Ticker: t}

	rc := model.RunContext{
		Ticker:      t.Symbol,
		DisplayName: t.Name,
		Horizon:     r.Horizon,
		AsOf:        asOf,
	}

	table, err := r.Source.Collect(ctx, rc)
	if err != nil {
		res.Stage, res.Err = StageCollect, err
		return finish(res, start)
	}

	a, err := r.Analyzer.Analyze(rc, table)
	if err != nil {
		res.Stage, res.Err = StageAnalyze, err
		return finish(res, start)
	}

	rec, err := book.Apply(a)
	if err != nil {
		res.Stage, res.Err = StageLedger, err
		return finish(res, start)
	}

	res.Analysis = a
	res.Verification = rec
	if entry := book.Entry(t.Symbol); entry != nil {
		res.Pending = entry.PendingForecast
	}
	return finish(res, start)
}

func finish(res TickerResult, start time.Time) TickerResult {
	res.Duration = time.Since(start)
	return res
}
