package collector

import (
	"context"
	"fmt"
	"log"
	"time"

	"SignalDesk/internal/calculator"
	"SignalDesk/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	Days      int
	DailyData map[string][]model.OHLCV
	Err       map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, _, end time.Time) ([]model.OHLCV, error) {
	if err, ok := m.Err[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.DailyData[symbol]; ok {
		return bars, nil
	}
	days := m.Days
	if days == 0 {
		days = 120
	}
	// end is exclusive
	return GenerateMockBars(m.Price, days, end.AddDate(0, 0, -1)), nil
}

// GenerateMockBars builds a gently rising weekday series ending on or before end.
func GenerateMockBars(basePrice float64, count int, end time.Time) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	day := end.UTC().Truncate(24 * time.Hour)
	for i := count - 1; i >= 0; i-- {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, -1)
		}
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   day,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000 + float64(i%5)*50000,
		}
		day = day.AddDate(0, 0, -1)
	}
	return bars
}

// Collector turns fetched bars into the indicator table the pipeline consumes.
type Collector struct {
	Fetcher      Fetcher
	HistoryStart time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, historyStart time.Time) *Collector {
	return &Collector{Fetcher: fetcher, HistoryStart: historyStart}
}

// Collect fetches daily bars from HistoryStart up to the run date and computes all indicators.
func (c *Collector) Collect(ctx context.Context, rc model.RunContext) (model.IndicatorTable, error) {
	end := rc.ExecutionDate().AddDate(0, 0, 1)
	bars, err := c.Fetcher.FetchDailyBars(ctx, rc.Ticker, c.HistoryStart, end)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}

	table := calculator.BuildTable(bars)
	if len(table) == 0 {
		return nil, fmt.Errorf("%s: %d bars, no complete indicator rows: %w",
			rc.Ticker, len(bars), model.ErrInsufficientHistory)
	}
	log.Printf("[INFO] %s: %d bars from %s, %d indicator rows", rc.Ticker, len(bars), c.Fetcher.Name(), len(table))
	return table, nil
}
