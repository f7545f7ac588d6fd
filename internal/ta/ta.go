package ta

import "math"

func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

// ROC is the percentage rate of change over the last n bars.
func ROC(closes []float64, n int) float64 {
	if len(closes) < n+1 || n <= 0 {
		return math.NaN()
	}
	prev := closes[len(closes)-1-n]
	if prev == 0 {
		return math.NaN()
	}
	return (closes[len(closes)-1] - prev) / prev * 100.0
}

// EMASeries returns the exponential moving average at every index.
// Entries before index n-1 are NaN; the seed is the SMA of the first n.
func EMASeries(vals []float64, n int) []float64 {
	out := make([]float64, len(vals))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(vals) < n || n <= 0 {
		return out
	}
	seed := 0.0
	for i := 0; i < n; i++ {
		seed += vals[i]
	}
	seed /= float64(n)
	out[n-1] = seed
	k := 2.0 / float64(n+1)
	for i := n; i < len(vals); i++ {
		out[i] = vals[i]*k + out[i-1]*(1-k)
	}
	return out
}

// MACD returns the latest MACD line (EMA12-EMA26), its 9-period signal
// line, and the histogram.
func MACD(closes []float64) (line, signal, hist float64) {
	line, signal, hist = math.NaN(), math.NaN(), math.NaN()
	if len(closes) < 26 {
		return
	}
	fast := EMASeries(closes, 12)
	slow := EMASeries(closes, 26)
	macd := make([]float64, 0, len(closes)-25)
	for i := 25; i < len(closes); i++ {
		macd = append(macd, fast[i]-slow[i])
	}
	line = macd[len(macd)-1]
	sig := EMASeries(macd, 9)
	signal = sig[len(sig)-1]
	if !math.IsNaN(signal) {
		hist = line - signal
	}
	return
}

// Stochastic returns the latest %K over an n-bar window and %D, the
// 3-period SMA of %K.
func Stochastic(highs, lows, closes []float64, n int) (k, d float64) {
	k, d = math.NaN(), math.NaN()
	if len(highs) != len(lows) || len(lows) != len(closes) || len(closes) < n || n <= 0 {
		return
	}
	ks := make([]float64, 0, 3)
	for j := 2; j >= 0; j-- {
		end := len(closes) - j
		if end < n {
			continue
		}
		hh, ll := highestLowest(highs[:end], lows[:end], n)
		if hh == ll {
			ks = append(ks, 50.0)
			continue
		}
		ks = append(ks, (closes[end-1]-ll)/(hh-ll)*100.0)
	}
	if len(ks) == 0 {
		return
	}
	k = ks[len(ks)-1]
	sum := 0.0
	for _, v := range ks {
		sum += v
	}
	d = sum / float64(len(ks))
	return
}

// WilliamsR returns the latest Williams %R over an n-bar window.
func WilliamsR(highs, lows, closes []float64, n int) float64 {
	if len(highs) != len(lows) || len(lows) != len(closes) || len(closes) < n || n <= 0 {
		return math.NaN()
	}
	hh, ll := highestLowest(highs, lows, n)
	if hh == ll {
		return -50.0
	}
	return -100.0 * (hh - closes[len(closes)-1]) / (hh - ll)
}

func ATR(highs, lows, closes []float64, period int) float64 {
	if len(highs) != len(lows) || len(lows) != len(closes) {
		return math.NaN()
	}
	n := period
	if len(closes) < n+1 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		tr1 := highs[i] - lows[i]
		tr2 := math.Abs(highs[i] - closes[i-1])
		tr3 := math.Abs(lows[i] - closes[i-1])
		sum += math.Max(tr1, math.Max(tr2, tr3))
	}
	return sum / float64(n)
}

func highestLowest(highs, lows []float64, n int) (hh, ll float64) {
	hh = math.Inf(-1)
	ll = math.Inf(1)
	for i := len(highs) - n; i < len(highs); i++ {
		hh = math.Max(hh, highs[i])
		ll = math.Min(ll, lows[i])
	}
	return
}
