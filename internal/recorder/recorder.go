package recorder

import "SignalDesk/internal/model"

// RunRecord is everything persisted for one successfully processed ticker.
type RunRecord struct {
	RunID        string
	Analysis     *model.Analysis
	Verification model.VerificationRecord
	Pending      *model.PendingForecast
}

// FailureRecord notes a ticker whose run was aborted.
type FailureRecord struct {
	RunID  string
	Ticker string
	Stage  string // "collect", "analyze", "ledger"
	Error  string
}

// Recorder persists run history for later analysis. It mirrors the JSON ledger and
// is never the source of truth.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	RecordFailure(rec *FailureRecord) error
	Close() error
}
