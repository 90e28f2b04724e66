package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS verifications (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			ticker         TEXT NOT NULL,
			execution_date TEXT NOT NULL,
			observed_price REAL,
			forecast_price REAL,
			error_pct      REAL,
			hit            INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verifications_ticker ON verifications(ticker, execution_date)`,

		`CREATE TABLE IF NOT EXISTS snapshots (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id           TEXT NOT NULL,
			timestamp        INTEGER NOT NULL,
			ticker           TEXT NOT NULL,
			execution_date   TEXT NOT NULL,
			price            REAL,
			rsi              REAL,
			trend_5d         REAL,
			trend_20d        REAL,
			volatility       REAL,
			volume_ratio     REAL,
			macd             REAL,
			band_position    REAL,
			factor_rsi       REAL,
			factor_forecast  REAL,
			factor_volume    REAL,
			factor_macd      REAL,
			factor_trend     REAL,
			factor_bands     REAL,
			total_score      REAL,
			signal           TEXT,
			forecast_final   REAL,
			next_target_date TEXT,
			next_forecast    REAL,
			stop_loss        REAL,
			take_profit      REAL,
			risk_reward      REAL,
			position_size    TEXT,
			bt_accuracy      REAL,
			bt_mae           REAL,
			bt_samples       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ticker ON snapshots(ticker, execution_date)`,

		`CREATE TABLE IF NOT EXISTS failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			ticker    TEXT NOT NULL,
			stage     TEXT,
			error     TEXT
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts the verification and snapshot rows for one ticker in a single transaction.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := rec.Analysis
	v := rec.Verification
	now := time.Now().Unix()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var hit any
	if v.Hit != nil {
		hit = *v.Hit
	}
	if _, err := tx.Exec(`INSERT INTO verifications
		(run_id, timestamp, ticker, execution_date, observed_price, forecast_price, error_pct, hit)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.RunID, now, a.Context.Ticker, v.ExecutionDate, v.ObservedPrice,
		nullable(v.ForecastPrice), nullable(v.ErrorPct), hit,
	); err != nil {
		return fmt.Errorf("insert verification: %w", err)
	}

	// Per-factor scores, in scoring order (up to 6).
	factors := make([]float64, 6)
	for i := 0; i < len(a.Signal.Factors) && i < 6; i++ {
		factors[i] = a.Signal.Factors[i].Score
	}

	var targetDate any
	var nextForecast any
	if rec.Pending != nil {
		targetDate = rec.Pending.TargetDate
		nextForecast = rec.Pending.ForecastPrice
	}
	var stop, take, rr any
	var size string
	if a.Risk != nil {
		stop, take, rr = nullable(a.Risk.StopLoss), nullable(a.Risk.TakeProfit), nullable(a.Risk.RiskReward)
		size = string(a.Risk.PositionSize)
	}

	if _, err := tx.Exec(`INSERT INTO snapshots
		(run_id, timestamp, ticker, execution_date, price, rsi, trend_5d, trend_20d, volatility,
		 volume_ratio, macd, band_position,
		 factor_rsi, factor_forecast, factor_volume, factor_macd, factor_trend, factor_bands,
		 total_score, signal, forecast_final, next_target_date, next_forecast,
		 stop_loss, take_profit, risk_reward, position_size,
		 bt_accuracy, bt_mae, bt_samples)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, now, a.Context.Ticker, v.ExecutionDate, a.CurrentPrice,
		a.Tech.RSI, a.Tech.Trend5d, a.Tech.Trend20d, a.Tech.Volatility,
		a.Tech.VolumeRatio, a.Tech.MACD, a.Tech.BandPosition,
		factors[0], factors[1], factors[2], factors[3], factors[4], factors[5],
		a.Signal.TotalScore, a.Signal.Class.String(), a.Forecast.Final(), targetDate, nextForecast,
		stop, take, rr, size,
		a.Backtest.AccuracyPct, a.Backtest.MAE, a.Backtest.Samples,
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordFailure(rec *FailureRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO failures
		(run_id, timestamp, ticker, stage, error)
		VALUES (?,?,?,?,?)`,
		rec.RunID, time.Now().Unix(), rec.Ticker, rec.Stage, rec.Error,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
