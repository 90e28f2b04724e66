package metrics

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus metrics of the daily run. A nil *Metrics is a valid no-op.
type Metrics struct {
	registry *prometheus.Registry

	RunsTotal        *prometheus.CounterVec // labels: result=ok|failed
	TickerDur        prometheus.Histogram
	LastScore        *prometheus.GaugeVec   // labels: ticker
	BacktestAccuracy *prometheus.GaugeVec   // labels: ticker
	VerifiedTotal    *prometheus.CounterVec // labels: outcome=hit|miss
	LedgerSaveDur    prometheus.Histogram
	LastRunTimestamp prometheus.Gauge
}

// NewMetrics creates the metrics on their own registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signaldesk_ticker_runs_total",
			Help: "Ticker runs by result",
		}, []string{"result"}),
		TickerDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signaldesk_ticker_duration_seconds",
			Help:    "Fetch + analysis + ledger update latency per ticker",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LastScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "signaldesk_signal_score",
			Help: "Total signal score of the latest run",
		}, []string{"ticker"}),
		BacktestAccuracy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "signaldesk_backtest_accuracy_pct",
			Help: "Backtest accuracy of the latest run",
		}, []string{"ticker"}),
		VerifiedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signaldesk_forecasts_verified_total",
			Help: "Pending forecasts verified against the observed close",
		}, []string{"outcome"}),
		LedgerSaveDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signaldesk_ledger_save_duration_seconds",
			Help:    "Ledger document write latency",
			Buckets: prometheus.DefBuckets,
		}),
		LastRunTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signaldesk_last_run_timestamp_seconds",
			Help: "Unix time the last worklist run finished",
		}),
	}

	m.registry.MustRegister(
		m.RunsTotal,
		m.TickerDur,
		m.LastScore,
		m.BacktestAccuracy,
		m.VerifiedTotal,
		m.LedgerSaveDur,
		m.LastRunTimestamp,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTicker records one ticker run.
func (m *Metrics) ObserveTicker(ticker string, dur time.Duration, err error, score, accuracy float64) {
	if m == nil {
		return
	}
	m.TickerDur.Observe(dur.Seconds())
	if err != nil {
		m.RunsTotal.WithLabelValues("failed").Inc()
		return
	}
	m.RunsTotal.WithLabelValues("ok").Inc()
	m.LastScore.WithLabelValues(ticker).Set(score)
	m.BacktestAccuracy.WithLabelValues(ticker).Set(accuracy)
}

// ObserveVerification counts a verified forecast. hit is nil when nothing was due.
func (m *Metrics) ObserveVerification(hit *bool) {
	if m == nil || hit == nil {
		return
	}
	if *hit {
		m.VerifiedTotal.WithLabelValues("hit").Inc()
	} else {
		m.VerifiedTotal.WithLabelValues("miss").Inc()
	}
}

// ObserveSave records the ledger write latency.
func (m *Metrics) ObserveSave(dur time.Duration) {
	if m == nil {
		return
	}
	m.LedgerSaveDur.Observe(dur.Seconds())
}

// RunFinished stamps the end of a worklist run.
func (m *Metrics) RunFinished(t time.Time) {
	if m == nil {
		return
	}
	m.LastRunTimestamp.Set(float64(t.Unix()))
}

// HealthStatus reports the outcome of the last run on /healthz.
type HealthStatus struct {
	mu        sync.RWMutex
	StartedAt time.Time
	LastRunAt time.Time
	LastRunID string
	Succeeded int
	Failed    int
}

func NewHealthStatus() *HealthStatus {
	return &HealthStatus{StartedAt: time.Now()}
}

// SetLastRun records the summary of a finished run.
func (h *HealthStatus) SetLastRun(runID string, at time.Time, succeeded, failed int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastRunID = runID
	h.LastRunAt = at
	h.Succeeded = succeeded
	h.Failed = failed
}

// ServeHTTP handles the /healthz endpoint.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	overall := "healthy"
	if h.Failed > 0 {
		overall = "degraded"
	}
	if !h.LastRunAt.IsZero() && h.Succeeded == 0 && h.Failed > 0 {
		overall = "unhealthy"
	}

	lastRun := ""
	if !h.LastRunAt.IsZero() {
		lastRun = h.LastRunAt.Format(time.RFC3339)
	}

	status := struct {
		Status    string `json:"status"`
		Uptime    string `json:"uptime"`
		LastRunID string `json:"last_run_id"`
		LastRunAt string `json:"last_run_at"`
		Succeeded int    `json:"succeeded"`
		Failed    int    `json:"failed"`
	}{
		Status:    overall,
		Uptime:    time.Since(h.StartedAt).Round(time.Second).String(),
		LastRunID: h.LastRunID,
		LastRunAt: lastRun,
		Succeeded: h.Succeeded,
		Failed:    h.Failed,
	}

	w.Header().Set("Content-Type", "application/json")
	if overall == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics and health server.
func NewServer(addr string, m *Metrics, health *HealthStatus) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/healthz", health)

	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[INFO] metrics server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[ERROR] metrics server: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
