package metrics

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	}
	return 0
}

func TestObserveTicker(t *testing.T) {
	m := NewMetrics()
	m.ObserveTicker("AAPL", time.Second, nil, 7, 98.5)
	m.ObserveTicker("MSFT", time.Second, errors.New("boom"), 0, 0)

	assert.Equal(t, 1.0, value(t, m.RunsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, value(t, m.RunsTotal.WithLabelValues("failed")))
	assert.Equal(t, 7.0, value(t, m.LastScore.WithLabelValues("AAPL")))
	assert.Equal(t, 98.5, value(t, m.BacktestAccuracy.WithLabelValues("AAPL")))
}

func TestObserveVerification(t *testing.T) {
	m := NewMetrics()
	hit, miss := true, false
	m.ObserveVerification(&hit)
	m.ObserveVerification(&miss)
	m.ObserveVerification(nil)

	assert.Equal(t, 1.0, value(t, m.VerifiedTotal.WithLabelValues("hit")))
	assert.Equal(t, 1.0, value(t, m.VerifiedTotal.WithLabelValues("miss")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTicker("AAPL", time.Second, nil, 1, 1)
		m.ObserveVerification(nil)
		m.ObserveSave(time.Second)
		m.RunFinished(time.Now())
	})
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveTicker("AAPL", time.Second, nil, 3, 97)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `signaldesk_signal_score{ticker="AAPL"} 3`)
}

func TestHealthStatus(t *testing.T) {
	h := NewHealthStatus()
	h.SetLastRun("run-1", time.Now(), 0, 2)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unhealthy", body["status"])
	assert.Equal(t, "run-1", body["last_run_id"])
}
