// Package pattern produces the textual chart-pattern report: overall
// trend shape, volatility, recent price action, and support/resistance
// levels. It describes what a chart would show without rendering one.
package pattern

import (
	"fmt"
	"math"
	"strings"

	"quant-agent/internal/types"
)

const levelWindow = 20

type Describer struct{}

func NewDescriber() *Describer {
	return &Describer{}
}

func (d *Describer) Analyze(candles []types.Candle) types.PatternReport {
	report := types.PatternReport{
		Trend:       identifyTrend(candles),
		Volatility:  volatility(candles),
		PriceAction: priceAction(candles),
	}

	if len(candles) >= levelWindow {
		report.Support, report.Resistance = supportResistance(candles)
		report.HasLevels = true
	}

	report.Description = buildDescription(candles, report)
	report.VisualSummary = buildVisualSummary(report)
	report.ChartAnalysis = buildChartAnalysis(candles, report)
	return report
}

// identifyTrend compares the most recent 10 bars' highs and lows with
// the first 10 bars'.
func identifyTrend(candles []types.Candle) string {
	if len(candles) < 20 {
		return types.DirInsufficient
	}

	recentHigh, recentLow := extremes(candles[len(candles)-10:])
	earlierHigh, earlierLow := extremes(candles[:10])

	if recentHigh > earlierHigh && recentLow > earlierLow {
		return "Uptrend"
	}
	if recentHigh < earlierHigh && recentLow < earlierLow {
		return "Downtrend"
	}
	return "Sideways"
}

func extremes(candles []types.Candle) (high, low float64) {
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, c := range candles {
		high = math.Max(high, c.High)
		low = math.Min(low, c.Low)
	}
	return
}

// volatility is the sample standard deviation of close-to-close
// returns, in percent.
func volatility(candles []types.Candle) float64 {
	if len(candles) < 3 {
		return 0
	}
	returns := make([]float64, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		returns = append(returns, candles[i].Close/candles[i-1].Close-1)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)
	return math.Sqrt(variance) * 100.0
}

func priceAction(candles []types.Candle) types.PriceAction {
	if len(candles) < 5 {
		return types.PriceAction{Pattern: types.DirInsufficient}
	}

	recent := candles[len(candles)-5:]
	rising, falling := true, true
	for i := 1; i < len(recent); i++ {
		if recent[i].Close <= recent[i-1].Close {
			rising = false
		}
		if recent[i].Close >= recent[i-1].Close {
			falling = false
		}
	}

	first := recent[0].Close
	last := recent[len(recent)-1].Close

	pattern := types.DirNeutral
	switch {
	case rising:
		pattern = "Strong Bullish"
	case falling:
		pattern = "Strong Bearish"
	case last > first:
		pattern = types.DirBullish
	case last < first:
		pattern = types.DirBearish
	}

	return types.PriceAction{
		Pattern:     pattern,
		PriceChange: (last - first) / first * 100.0,
	}
}

func supportResistance(candles []types.Candle) (support, resistance float64) {
	recent := candles[len(candles)-levelWindow:]
	resistance, support = extremes(recent)
	return
}

func buildDescription(candles []types.Candle, r types.PatternReport) string {
	var b strings.Builder
	b.WriteString("Chart Pattern Analysis:\n")
	fmt.Fprintf(&b, "- Overall Trend: %s\n", r.Trend)
	fmt.Fprintf(&b, "- Volatility: %.2f%%\n", r.Volatility)
	fmt.Fprintf(&b, "- Recent Price Action: %s\n", r.PriceAction.Pattern)

	if r.HasLevels {
		fmt.Fprintf(&b, "- Support Level: %.2f\n", r.Support)
		fmt.Fprintf(&b, "- Resistance Level: %.2f\n", r.Resistance)

		current := candles[len(candles)-1].Close
		if r.Resistance > r.Support {
			position := (current - r.Support) / (r.Resistance - r.Support) * 100.0
			fmt.Fprintf(&b, "- Current price is %.1f%% within the support-resistance range", position)
		}
	}
	return b.String()
}

func buildVisualSummary(r types.PatternReport) string {
	return fmt.Sprintf("Visual Chart Summary: The chart shows a %s pattern with %.1f%% volatility. Recent price action indicates %s momentum.",
		strings.ToLower(r.Trend), r.Volatility, strings.ToLower(r.PriceAction.Pattern))
}

func buildChartAnalysis(candles []types.Candle, r types.PatternReport) string {
	var b strings.Builder
	b.WriteString("Detailed Chart Analysis: ")
	fmt.Fprintf(&b, "Recent price action shows %s momentum with %.2f%% change. ",
		strings.ToLower(r.PriceAction.Pattern), r.PriceAction.PriceChange)
	fmt.Fprintf(&b, "Overall trend direction is %s. ", strings.ToLower(r.Trend))

	volDesc := "low"
	if r.Volatility > 3 {
		volDesc = "high"
	} else if r.Volatility > 1.5 {
		volDesc = "moderate"
	}
	fmt.Fprintf(&b, "Market volatility is %s at %.2f%%. ", volDesc, r.Volatility)

	if r.HasLevels && len(candles) > 0 {
		current := candles[len(candles)-1].Close
		supportDist := (current - r.Support) / r.Support * 100.0
		resistanceDist := (r.Resistance - current) / current * 100.0
		fmt.Fprintf(&b, "Current price is %.1f%% above support and %.1f%% below resistance.",
			supportDist, resistanceDist)
	}
	return b.String()
}
