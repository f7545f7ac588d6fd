// Package report merges the per-agent analyses and the synthesized
// decision into one result record with a human-readable summary.
package report

import (
	"fmt"
	"strings"
	"time"

	"quant-agent/internal/types"
)

func Assemble(symbol string, bars int, ind types.IndicatorReport, pat types.PatternReport, tr types.TrendReport, dec types.DecisionRecord) *types.AnalysisResult {
	return &types.AnalysisResult{
		Symbol:    symbol,
		Bars:      bars,
		Indicator: ind,
		Pattern:   pat,
		Trend:     tr,
		Decision:  dec,
		Summary:   decisionSummary(dec),
		Time:      time.Now().Unix(),
	}
}

func decisionSummary(dec types.DecisionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trading Decision: %s\n", dec.Decision)
	fmt.Fprintf(&b, "Confidence: %.1f%%\n", dec.Confidence*100)
	fmt.Fprintf(&b, "Risk Level: %s\n", dec.RiskLevel)
	fmt.Fprintf(&b, "Justification: %s\n", dec.Justification)

	if len(dec.KeyFactors) > 0 {
		fmt.Fprintf(&b, "Key Factors: %s\n", strings.Join(dec.KeyFactors, ", "))
	}
	if dec.StopLoss > 0 {
		fmt.Fprintf(&b, "Suggested Stop Loss: %.2f\n", dec.StopLoss)
	}
	if dec.TakeProfit > 0 {
		fmt.Fprintf(&b, "Suggested Take Profit: %.2f", dec.TakeProfit)
	}
	return b.String()
}
