package calculator

import (
	"math"
	"testing"
	"time"

	"SignalDesk/internal/model"
)

func makeBars(closes []float64, volume float64) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	d := start
	for i, c := range closes {
		bars[i] = model.OHLCV{Time: d, Open: c, High: c * 1.01, Low: c * 0.99, Close: c, Volume: volume}
		d = model.NextWeekday(d)
	}
	return bars
}

func TestCalculateSMA(t *testing.T) {
	got, err := CalculateSMA([]float64{1, 2, 3, 4, 5}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 4.5 {
		t.Errorf("expected 4.5, got %f", got)
	}
	if _, err := CalculateSMA([]float64{1}, 2); err == nil {
		t.Error("expected error for short input")
	}
	if _, err := CalculateSMA([]float64{1}, 0); err == nil {
		t.Error("expected error for zero period")
	}
}

func TestSMASeries_WarmUp(t *testing.T) {
	s := SMASeries([]float64{2, 4, 6, 8}, 3)
	if !math.IsNaN(s[0]) || !math.IsNaN(s[1]) {
		t.Errorf("expected NaN warm-up, got %v", s[:2])
	}
	if s[2] != 4 || s[3] != 6 {
		t.Errorf("unexpected SMA values %v", s)
	}
}

func TestEMASeries_ConstantInput(t *testing.T) {
	vals := make([]float64, 40)
	for i := range vals {
		vals[i] = 10
	}
	s := EMASeries(vals, 12)
	if !math.IsNaN(s[10]) {
		t.Errorf("expected NaN before seed, got %f", s[10])
	}
	for i := 11; i < len(s); i++ {
		if s[i] != 10 {
			t.Fatalf("index %d: expected 10, got %f", i, s[i])
		}
	}
}

func TestEMASeries_LinearInput(t *testing.T) {
	// values 1..10, period 3: seed SMA(1,2,3)=2, then each step lags the input by one.
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	s := EMASeries(vals, 3)
	for i := 2; i < len(vals); i++ {
		if math.Abs(s[i]-float64(i)) > 1e-9 {
			t.Errorf("index %d: expected %d, got %f", i, i, s[i])
		}
	}
}

func TestEMASeries_SkipsLeadingNaN(t *testing.T) {
	vals := []float64{math.NaN(), math.NaN(), 1, 2, 3, 4}
	s := EMASeries(vals, 3)
	for i := 0; i < 4; i++ {
		if !math.IsNaN(s[i]) {
			t.Errorf("index %d: expected NaN, got %f", i, s[i])
		}
	}
	if math.Abs(s[4]-2) > 1e-9 || math.Abs(s[5]-3) > 1e-9 {
		t.Errorf("unexpected EMA tail %v", s[4:])
	}
	if got := EMASeries([]float64{1, 2}, 3); !math.IsNaN(got[1]) {
		t.Errorf("short input should be all NaN, got %v", got)
	}
}

func TestBollingerSeries(t *testing.T) {
	upper, middle, lower := BollingerSeries([]float64{1, 2, 3, 4, 5}, 5, 2)
	for i := 0; i < 4; i++ {
		if !math.IsNaN(upper[i]) || !math.IsNaN(middle[i]) || !math.IsNaN(lower[i]) {
			t.Errorf("index %d: expected NaN warm-up", i)
		}
	}
	// population std of 1..5 is sqrt(2)
	if math.Abs(middle[4]-3) > 1e-9 {
		t.Errorf("middle = %f, want 3", middle[4])
	}
	if math.Abs(upper[4]-(3+2*math.Sqrt2)) > 1e-9 || math.Abs(lower[4]-(3-2*math.Sqrt2)) > 1e-9 {
		t.Errorf("bands = %f/%f", upper[4], lower[4])
	}

	flatU, _, flatL := BollingerSeries([]float64{7, 7, 7, 7}, 4, 2)
	if flatU[3] != flatL[3] {
		t.Errorf("flat series should collapse the bands, got %f/%f", flatU[3], flatL[3])
	}
	if u, _, _ := BollingerSeries([]float64{1, 2}, 5, 2); !math.IsNaN(u[1]) {
		t.Error("short input should be all NaN")
	}
}

func TestMACDSeries_WarmUp(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	macd, sig, hist := MACDSeries(closes, MACDFast, MACDSlow, MACDSignal)
	if !math.IsNaN(macd[24]) || math.IsNaN(macd[25]) {
		t.Errorf("MACD line should start at index 25")
	}
	if !math.IsNaN(sig[32]) || math.IsNaN(sig[33]) {
		t.Errorf("signal line should start at index 33")
	}
	if math.Abs(hist[59]-(macd[59]-sig[59])) > 1e-12 {
		t.Errorf("histogram must equal MACD - signal")
	}
}

func TestRSI_Extremes(t *testing.T) {
	up := make([]float64, 30)
	flat := make([]float64, 30)
	for i := range up {
		up[i] = float64(100 + i)
		flat[i] = 100
	}
	if rsi, _ := CalculateRSI(up, 14); rsi != 100 {
		t.Errorf("rising series: expected RSI 100, got %f", rsi)
	}
	if rsi, _ := CalculateRSI(flat, 14); rsi != 50 {
		t.Errorf("flat series: expected RSI 50, got %f", rsi)
	}
	if rsi, _ := CalculateRSI(flat[:5], 14); rsi != 50 {
		t.Errorf("short series: expected default 50, got %f", rsi)
	}
}

func TestBandPosition(t *testing.T) {
	tests := []struct {
		price, upper, lower, want float64
	}{
		{100, 110, 90, 0.5},
		{90, 110, 90, 0},
		{110, 110, 90, 1},
		{100, 100, 100, 0.5},
		{80, 110, 90, -0.5},
	}
	for _, tt := range tests {
		if got := BandPosition(tt.price, tt.upper, tt.lower); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("BandPosition(%v,%v,%v) = %v, want %v", tt.price, tt.upper, tt.lower, got, tt.want)
		}
	}
}

func TestPercentChange(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 110}
	got, err := PercentChange(closes, 5)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-10) > 1e-9 {
		t.Errorf("expected 10%%, got %f", got)
	}
	if _, err := PercentChange(closes, 6); err == nil {
		t.Error("expected insufficient history error")
	}
	if _, err := PercentChange([]float64{0, 1}, 2); err == nil {
		t.Error("expected invalid price error")
	}
}

func TestBuildTable_DropsWarmUp(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i)/3)*5
	}
	table := BuildTable(makeBars(closes, 1_000_000))

	// MA50 is the longest window: the first complete row is bar 49.
	if len(table) != 31 {
		t.Fatalf("expected 31 rows, got %d", len(table))
	}
	for i, r := range table {
		if !RowComplete(r) {
			t.Fatalf("row %d incomplete: %+v", i, r)
		}
		if i > 0 && !r.Date.After(table[i-1].Date) {
			t.Fatalf("row %d not in date order", i)
		}
	}
	last := table[len(table)-1]
	if math.Abs(last.VolumeRatio-1) > 1e-9 {
		t.Errorf("constant volume should give ratio 1, got %f", last.VolumeRatio)
	}
	if last.BBUpper < last.BBMiddle || last.BBMiddle < last.BBLower {
		t.Errorf("bands out of order: %f %f %f", last.BBUpper, last.BBMiddle, last.BBLower)
	}
	if math.Abs(last.MACDHist-(last.MACD-last.MACDSignal)) > 1e-9 {
		t.Errorf("histogram must equal MACD - signal")
	}
}

func TestBuildTable_TooShort(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 50
	}
	if table := BuildTable(makeBars(closes, 10)); len(table) != 0 {
		t.Errorf("expected empty table, got %d rows", len(table))
	}
}
