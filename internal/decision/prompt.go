package decision

import (
	"fmt"
	"strings"

	"quant-agent/internal/types"
)

const systemPrompt = "You are a professional quantitative trading analyst. Always respond with valid JSON only."

// buildPrompt assembles the reasoning request: the three analysis
// summaries, the blending weights, and the required output schema.
func buildPrompt(ind types.IndicatorReport, pat types.PatternReport, tr types.TrendReport, symbol string, weights Weights) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a professional quantitative trading analyst making high-frequency trading decisions.\n")
	fmt.Fprintf(&b, "Analyze the following comprehensive market data for %s and provide a structured trading decision.\n\n", symbol)

	b.WriteString("=== TECHNICAL INDICATORS ANALYSIS ===\n")
	b.WriteString(orUnavailable(ind.Summary, "No indicator analysis available"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Indicator Forecast: %s\n", orUnavailable(ind.Forecast, "Unknown"))
	fmt.Fprintf(&b, "Evidence: %s\n", orUnavailable(ind.Evidence, "No evidence"))
	fmt.Fprintf(&b, "Trigger: %s\n\n", orUnavailable(ind.Trigger, "No trigger"))

	b.WriteString("=== CHART PATTERN ANALYSIS ===\n")
	b.WriteString(orUnavailable(pat.Description, "No pattern analysis available"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Visual Summary: %s\n\n", orUnavailable(pat.VisualSummary, "No visual summary"))

	b.WriteString("=== TREND ANALYSIS ===\n")
	b.WriteString(orUnavailable(tr.Summary, "No trend analysis available"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Overall Direction: %s\n", orUnavailable(tr.Direction, "Unknown"))
	fmt.Fprintf(&b, "Confidence: %.2f\n\n", tr.Confidence)

	b.WriteString("=== DECISION REQUIREMENTS ===\n")
	b.WriteString("Based on the above analysis, provide a trading decision following these guidelines:\n\n")
	b.WriteString("1. Consider all three analyses with appropriate weights:\n")
	fmt.Fprintf(&b, "   - Technical Indicators: %.0f%%\n", weights.Indicators*100)
	fmt.Fprintf(&b, "   - Chart Patterns: %.0f%%\n", weights.Patterns*100)
	fmt.Fprintf(&b, "   - Trend Analysis: %.0f%%\n\n", weights.Trend*100)
	b.WriteString("2. Account for risk management:\n")
	b.WriteString("   - Only recommend LONG/SHORT if confidence is reasonable\n")
	b.WriteString("   - Consider conflicting signals\n")
	b.WriteString("   - Evaluate market volatility\n\n")
	b.WriteString("3. Provide clear justification for your decision\n\n")

	b.WriteString("Respond ONLY with a valid JSON object in this exact format:\n")
	b.WriteString(`{
    "decision": "LONG" | "SHORT" | "HOLD",
    "confidence": 0.0-1.0,
    "justification": "Clear explanation of the decision reasoning",
    "risk_level": "LOW" | "MEDIUM" | "HIGH",
    "key_factors": ["factor1", "factor2", "factor3"],
    "stop_loss_suggestion": number,
    "take_profit_suggestion": number
}

Ensure the JSON is valid and complete.`)

	return b.String()
}

func orUnavailable(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
