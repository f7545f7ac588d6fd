package ta

import (
	"math"
	"testing"
)

func TestSMA(t *testing.T) {
	if got := SMA([]float64{1, 2, 3, 4, 5}, 3); got != 4 {
		t.Errorf("SMA = %f, want 4", got)
	}
	if !math.IsNaN(SMA([]float64{1, 2}, 3)) {
		t.Error("SMA with short input should be NaN")
	}
}

func TestRSIExtremes(t *testing.T) {
	allGains := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	if got := RSI(allGains, 14); got != 100 {
		t.Errorf("RSI of all gains = %f, want 100", got)
	}

	allLosses := make([]float64, 15)
	for i := range allLosses {
		allLosses[i] = 100 - float64(i)
	}
	if got := RSI(allLosses, 14); got != 0 {
		t.Errorf("RSI of all losses = %f, want 0", got)
	}

	if !math.IsNaN(RSI([]float64{1, 2, 3}, 14)) {
		t.Error("RSI with short input should be NaN")
	}
}

func TestROC(t *testing.T) {
	closes := []float64{100, 0, 0, 0, 0, 0, 0, 0, 0, 0, 110}
	if got := ROC(closes, 10); math.Abs(got-10) > 1e-9 {
		t.Errorf("ROC = %f, want 10", got)
	}
	if !math.IsNaN(ROC([]float64{100, 110}, 10)) {
		t.Error("ROC with short input should be NaN")
	}
}

func TestEMASeries(t *testing.T) {
	out := EMASeries([]float64{1, 2, 3, 4, 5}, 3)

	for i := 0; i < 2; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("out[%d] = %f, want NaN before the seed", i, out[i])
		}
	}
	if out[2] != 2 {
		t.Errorf("seed = %f, want SMA 2", out[2])
	}
	// k = 0.5: 4*0.5 + 2*0.5 = 3, then 5*0.5 + 3*0.5 = 4
	if out[3] != 3 || out[4] != 4 {
		t.Errorf("series = %v, want ... 3, 4", out)
	}
}

func TestMACDNeedsHistory(t *testing.T) {
	line, signal, hist := MACD(make([]float64, 25))
	if !math.IsNaN(line) || !math.IsNaN(signal) || !math.IsNaN(hist) {
		t.Error("MACD under 26 bars should be NaN")
	}
}

func TestMACDOnTrendingSeries(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	line, signal, hist := MACD(closes)

	if math.IsNaN(line) || line <= 0 {
		t.Errorf("line = %f, want positive on an uptrend", line)
	}
	if math.IsNaN(signal) {
		t.Error("signal should be available with 60 bars")
	}
	if math.Abs(hist-(line-signal)) > 1e-12 {
		t.Errorf("hist = %f, want line-signal %f", hist, line-signal)
	}
}

func TestStochasticBounds(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		c := 100 + float64(i)
		highs[i], lows[i], closes[i] = c+1, c-1, c
	}

	k, d := Stochastic(highs, lows, closes, 14)
	if k < 0 || k > 100 || d < 0 || d > 100 {
		t.Errorf("%%K/%%D = %f/%f, want within [0,100]", k, d)
	}
	if k < 80 {
		t.Errorf("%%K = %f, want near the top of an uptrend window", k)
	}
}

func TestWilliamsR(t *testing.T) {
	highs := []float64{10, 11, 12}
	lows := []float64{8, 9, 10}
	closes := []float64{9, 10, 12}

	if got := WilliamsR(highs, lows, closes, 3); got != 0 {
		t.Errorf("close at the high = %f, want 0", got)
	}

	flat := []float64{10, 10, 10}
	if got := WilliamsR(flat, flat, flat, 3); got != -50 {
		t.Errorf("flat window = %f, want -50 midpoint", got)
	}
}

func TestATR(t *testing.T) {
	highs := []float64{0, 12, 12, 12}
	lows := []float64{0, 10, 10, 10}
	closes := []float64{11, 11, 11, 11}

	if got := ATR(highs, lows, closes, 3); got != 2 {
		t.Errorf("ATR = %f, want 2", got)
	}
	if !math.IsNaN(ATR(highs, lows, closes, 4)) {
		t.Error("ATR with short input should be NaN")
	}
}
