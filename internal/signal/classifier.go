// Package signal computes technical indicators from a candle series and
// tags each one Bullish, Bearish, or Neutral using fixed thresholds.
package signal

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"quant-agent/internal/ta"
	"quant-agent/internal/types"
)

// Classification thresholds.
const (
	rsiOverbought   = 70.0
	rsiOversold     = 30.0
	rocBullish      = 2.0
	rocBearish      = -2.0
	stochOverbought = 80.0
	stochOversold   = 20.0
	willrOverbought = -20.0
	willrOversold   = -80.0
)

type Classifier struct {
	rsiPeriod   int
	rocPeriod   int
	stochPeriod int
}

func NewClassifier() *Classifier {
	return &Classifier{rsiPeriod: 14, rocPeriod: 10, stochPeriod: 14}
}

// Analyze computes the indicator set for the series and classifies each
// signal. Indicators without enough history fall back to their neutral
// defaults rather than failing.
func (c *Classifier) Analyze(candles []types.Candle) types.IndicatorReport {
	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, cd := range candles {
		closes[i] = cd.Close
		highs[i] = cd.High
		lows[i] = cd.Low
	}

	macdLine, macdSignal, macdHist := ta.MACD(closes)
	stochK, stochD := ta.Stochastic(highs, lows, closes, c.stochPeriod)

	inds := map[string]float64{
		"rsi":            orDefault(ta.RSI(closes, c.rsiPeriod), 50.0),
		"macd_line":      orDefault(macdLine, 0.0),
		"macd_signal":    orDefault(macdSignal, 0.0),
		"macd_histogram": orDefault(macdHist, 0.0),
		"roc":            orDefault(ta.ROC(closes, c.rocPeriod), 0.0),
		"stoch_k":        orDefault(stochK, 50.0),
		"stoch_d":        orDefault(stochD, 50.0),
		"willr":          orDefault(ta.WilliamsR(highs, lows, closes, c.stochPeriod), -50.0),
	}

	signals := c.classify(inds)

	return types.IndicatorReport{
		Indicators: inds,
		Signals:    signals,
		Summary:    buildSummary(inds, signals),
		Forecast:   forecast(signals),
		Evidence:   evidence(inds, signals),
		Trigger:    trigger(signals),
	}
}

func (c *Classifier) classify(inds map[string]float64) map[string]string {
	signals := make(map[string]string, 5)

	switch {
	case inds["rsi"] > rsiOverbought:
		signals["rsi"] = types.DirBearish
	case inds["rsi"] < rsiOversold:
		signals["rsi"] = types.DirBullish
	default:
		signals["rsi"] = types.DirNeutral
	}

	switch {
	case inds["macd_line"] > inds["macd_signal"]:
		signals["macd"] = types.DirBullish
	case inds["macd_line"] < inds["macd_signal"]:
		signals["macd"] = types.DirBearish
	default:
		signals["macd"] = types.DirNeutral
	}

	switch {
	case inds["roc"] > rocBullish:
		signals["roc"] = types.DirBullish
	case inds["roc"] < rocBearish:
		signals["roc"] = types.DirBearish
	default:
		signals["roc"] = types.DirNeutral
	}

	switch {
	case inds["stoch_k"] > stochOverbought:
		signals["stoch"] = types.DirBearish
	case inds["stoch_k"] < stochOversold:
		signals["stoch"] = types.DirBullish
	default:
		signals["stoch"] = types.DirNeutral
	}

	switch {
	case inds["willr"] > willrOverbought:
		signals["willr"] = types.DirBearish
	case inds["willr"] < willrOversold:
		signals["willr"] = types.DirBullish
	default:
		signals["willr"] = types.DirNeutral
	}

	return signals
}

func countSignals(signals map[string]string) (bullish, bearish, neutral int) {
	for _, s := range signals {
		switch s {
		case types.DirBullish:
			bullish++
		case types.DirBearish:
			bearish++
		default:
			neutral++
		}
	}
	return
}

func buildSummary(inds map[string]float64, signals map[string]string) string {
	bullish, bearish, neutral := countSignals(signals)

	var b strings.Builder
	b.WriteString("Technical Analysis Summary:\n")
	fmt.Fprintf(&b, "- RSI (%.2f): %s\n", inds["rsi"], signals["rsi"])
	fmt.Fprintf(&b, "- MACD (%.4f): %s\n", inds["macd_line"], signals["macd"])
	fmt.Fprintf(&b, "- Rate of Change (%.2f%%): %s\n", inds["roc"], signals["roc"])
	fmt.Fprintf(&b, "- Stochastic (%.2f): %s\n", inds["stoch_k"], signals["stoch"])
	fmt.Fprintf(&b, "- Williams %%R (%.2f): %s\n\n", inds["willr"], signals["willr"])
	fmt.Fprintf(&b, "Signal Distribution: %d Bullish, %d Bearish, %d Neutral", bullish, bearish, neutral)
	return b.String()
}

func forecast(signals map[string]string) string {
	bullish, bearish, _ := countSignals(signals)
	if bullish > bearish {
		return types.DirBullish
	}
	if bearish > bullish {
		return types.DirBearish
	}
	return types.DirNeutral
}

func evidence(inds map[string]float64, signals map[string]string) string {
	names := make([]string, 0, len(signals))
	for name := range signals {
		names = append(names, name)
	}
	sort.Strings(names)

	points := make([]string, 0, len(names))
	for _, name := range names {
		sig := signals[name]
		if sig == types.DirNeutral {
			continue
		}
		value, ok := inds[name]
		if !ok {
			value = inds[name+"_line"]
		}
		points = append(points, fmt.Sprintf("%s: %s (%.2f)", strings.ToUpper(name), sig, value))
	}
	if len(points) == 0 {
		return "Mixed signals with no clear direction"
	}
	return strings.Join(points, "; ")
}

func trigger(signals map[string]string) string {
	var triggers []string
	if s := signals["rsi"]; s == types.DirBullish || s == types.DirBearish {
		triggers = append(triggers, fmt.Sprintf("RSI %s condition", strings.ToLower(s)))
	}
	if s := signals["macd"]; s == types.DirBullish || s == types.DirBearish {
		triggers = append(triggers, fmt.Sprintf("MACD %s crossover", strings.ToLower(s)))
	}
	if len(triggers) == 0 {
		return "No clear trigger identified"
	}
	return strings.Join(triggers, "; ")
}

func orDefault(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return v
}
