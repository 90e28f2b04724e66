package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalDesk/internal/model"
)

func sampleRun() *RunRecord {
	fp, errPct, hit := 101.0, 0.99, true
	stop, take, rr := 97.0, 104.0, 1.33
	return &RunRecord{
		RunID: "run-1",
		Analysis: &model.Analysis{
			Context:      model.RunContext{Ticker: "AAPL", Horizon: 7, AsOf: time.Now()},
			CurrentPrice: 100,
			Forecast:     model.ForecastPath{{Price: 101}, {Price: 104}},
			Signal: &model.SignalResult{
				Class:      model.Buy,
				TotalScore: 4.5,
				Factors:    []model.FactorScore{{Name: "RSI", Score: 1}, {Name: "MACD", Score: 2}},
			},
			Risk:     &model.RiskPlan{StopLoss: &stop, TakeProfit: &take, RiskReward: &rr, PositionSize: model.PositionModerate},
			Backtest: model.BacktestResult{AccuracyPct: 98.2, MAE: 1.1, Samples: 7},
		},
		Verification: model.VerificationRecord{
			ExecutionDate: "2025-10-16", ObservedPrice: 100, ForecastPrice: &fp, ErrorPct: &errPct, Hit: &hit,
		},
		Pending: &model.PendingForecast{TargetDate: "2025-10-17", ForecastPrice: 101},
	}
}

func TestSQLiteRecorder_RecordRun(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "signaldesk.db"))
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordRun(sampleRun()))

	var ticker, signal string
	var score, second float64
	err = r.db.QueryRow(`SELECT ticker, signal, total_score, factor_forecast FROM snapshots WHERE run_id = ?`, "run-1").
		Scan(&ticker, &signal, &score, &second)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", ticker)
	assert.Equal(t, "buy", signal)
	assert.Equal(t, 4.5, score)
	assert.Equal(t, 2.0, second)

	var hit int
	var errPct float64
	require.NoError(t, r.db.QueryRow(`SELECT hit, error_pct FROM verifications WHERE ticker = 'AAPL'`).Scan(&hit, &errPct))
	assert.Equal(t, 1, hit)
	assert.Equal(t, 0.99, errPct)
}

func TestSQLiteRecorder_NullableVerification(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "signaldesk.db"))
	require.NoError(t, err)
	defer r.Close()

	rec := sampleRun()
	rec.Verification = model.VerificationRecord{ExecutionDate: "2025-10-16", ObservedPrice: 100}
	rec.Analysis.Risk = &model.RiskPlan{PositionSize: model.PositionNone}
	require.NoError(t, r.RecordRun(rec))

	var hit, fp any
	require.NoError(t, r.db.QueryRow(`SELECT hit, forecast_price FROM verifications`).Scan(&hit, &fp))
	assert.Nil(t, hit)
	assert.Nil(t, fp)
}

func TestSQLiteRecorder_RecordFailure(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "signaldesk.db"))
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordFailure(&FailureRecord{RunID: "run-2", Ticker: "MSFT", Stage: "collect", Error: "timeout"}))

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM failures WHERE run_id = 'run-2'`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(sampleRun()))
	assert.NoError(t, r.RecordFailure(&FailureRecord{}))
	assert.NoError(t, r.Close())
}
