// Package decision synthesizes the three upstream analyses into a final
// trading decision via an external reasoning service, with strict
// output validation and a deterministic HOLD fallback on any failure.
package decision

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"quant-agent/internal/interfaces"
	"quant-agent/internal/logger"
	"quant-agent/internal/store"
	"quant-agent/internal/trace"
	"quant-agent/internal/types"
)

// Failure tags carried in the key_factors of fallback records.
const (
	factorAPIError     = "API_ERROR"
	factorDecommission = "MODEL_DECOMMISSIONED"
	factorParsingError = "PARSING_ERROR"
	rawExcerptLimit    = 200
)

// Weights is the blending guidance handed to the reasoning service.
type Weights struct {
	Indicators float64
	Patterns   float64
	Trend      float64
}

type Synthesizer struct {
	reasoner     interfaces.Reasoner
	weights      Weights
	defaultModel string
}

var _ interfaces.Synthesizer = (*Synthesizer)(nil)

func New(r interfaces.Reasoner, cfg *store.Config) *Synthesizer {
	return &Synthesizer{
		reasoner: r,
		weights: Weights{
			Indicators: cfg.Weights.Indicators,
			Patterns:   cfg.Weights.Patterns,
			Trend:      cfg.Weights.Trend,
		},
		defaultModel: cfg.LLM.DefaultModel,
	}
}

// Synthesize builds the reasoning request, invokes the service, and
// validates the reply. It never fails: transport errors, malformed
// output, and missing fields all resolve to a HOLD record with HIGH
// risk so a recommendation is always producible.
func (s *Synthesizer) Synthesize(ctx context.Context, ind types.IndicatorReport, pat types.PatternReport, tr types.TrendReport, symbol string) types.DecisionRecord {
	ctx, span := trace.StartSpan(ctx, "decision.Synthesize")
	defer span.End()

	prompt := buildPrompt(ind, pat, tr, symbol, s.weights)

	var record types.DecisionRecord
	response, err := s.reasoner.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		logger.ErrorWithErr(ctx, "Reasoning service call failed", err, "symbol", symbol)
		record = s.serviceFailureRecord(err)
	} else {
		record, err = parseResponse(response)
		if err != nil {
			logger.Warn(ctx, "Reasoning response rejected", "symbol", symbol, "error", err)
			record = parseFailureRecord(err, response)
		}
	}

	record.Symbol = symbol
	record.Inputs = &types.DecisionInputs{Indicator: &ind, Pattern: &pat, Trend: &tr}
	return record
}

// serviceFailureRecord converts a transport or service error into the
// safe fallback decision. A decommissioned-model error gets its own tag
// and a justification naming the currently supported default.
func (s *Synthesizer) serviceFailureRecord(err error) types.DecisionRecord {
	message := err.Error()
	factors := []string{factorAPIError}

	if strings.Contains(message, "model_decommissioned") || strings.Contains(message, "decommissioned") {
		message = fmt.Sprintf(
			"Reasoning service error: The selected model is no longer available. Update your configuration to use '%s'.",
			s.defaultModel)
		factors = append(factors, factorDecommission)
	} else {
		message = "Reasoning service error: " + message
	}

	return types.DecisionRecord{
		Decision:      types.DecisionHold,
		Confidence:    0.0,
		Justification: message,
		RiskLevel:     types.RiskHigh,
		KeyFactors:    factors,
	}
}

// parseFailureRecord converts an unparseable or invalid response into
// the safe fallback, keeping a truncated excerpt of the raw text for
// diagnosis.
func parseFailureRecord(err error, raw string) types.DecisionRecord {
	return types.DecisionRecord{
		Decision:      types.DecisionHold,
		Confidence:    0.0,
		Justification: fmt.Sprintf("Failed to parse reasoning response: %v. Response: %s...", err, truncate(raw, rawExcerptLimit)),
		RiskLevel:     types.RiskHigh,
		KeyFactors:    []string{factorParsingError},
	}
}

// parseResponse strips optional code fences, parses the JSON, and
// enforces the output contract: required fields present, decision and
// risk level within their enums, confidence clamped to [0,1].
func parseResponse(response string) (types.DecisionRecord, error) {
	cleaned := stripFences(response)

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return types.DecisionRecord{}, err
	}

	for _, required := range []string{"decision", "confidence", "justification", "risk_level"} {
		if _, ok := fields[required]; !ok {
			return types.DecisionRecord{}, fmt.Errorf("missing required field: %s", required)
		}
	}

	confidence, err := toFloat(fields["confidence"])
	if err != nil {
		return types.DecisionRecord{}, fmt.Errorf("invalid confidence: %w", err)
	}

	record := types.DecisionRecord{
		Decision:      asString(fields["decision"]),
		Confidence:    clamp01(confidence),
		Justification: asString(fields["justification"]),
		RiskLevel:     asString(fields["risk_level"]),
		KeyFactors:    asStringList(fields["key_factors"]),
		StopLoss:      asNonNegative(fields["stop_loss_suggestion"]),
		TakeProfit:    asNonNegative(fields["take_profit_suggestion"]),
	}

	switch record.Decision {
	case types.DecisionLong, types.DecisionShort, types.DecisionHold:
	default:
		record.Decision = types.DecisionHold
	}

	switch record.RiskLevel {
	case types.RiskLow, types.RiskMedium, types.RiskHigh:
	default:
		record.RiskLevel = types.RiskMedium
	}

	return record, nil
}

// stripFences removes a leading ```json (or bare ```) fence and the
// trailing ``` so fenced replies still parse.
func stripFences(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "```json") {
		t = t[len("```json"):]
	} else if strings.HasPrefix(t, "```") {
		t = t[len("```"):]
	}
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asNonNegative(v any) float64 {
	f, err := toFloat(v)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
