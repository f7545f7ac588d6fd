package decision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"quant-agent/internal/store"
	"quant-agent/internal/types"
)

type stubReasoner struct {
	response string
	err      error
}

func (s *stubReasoner) Complete(ctx context.Context, system, user string) (string, error) {
	return s.response, s.err
}

func newTestSynthesizer(r *stubReasoner) *Synthesizer {
	cfg := &store.Config{}
	cfg.Weights.Indicators = 0.30
	cfg.Weights.Patterns = 0.25
	cfg.Weights.Trend = 0.45
	cfg.LLM.DefaultModel = "moonshotai/kimi-k2-instruct-0905"
	return New(r, cfg)
}

func synthesize(t *testing.T, r *stubReasoner) types.DecisionRecord {
	t.Helper()
	s := newTestSynthesizer(r)
	return s.Synthesize(context.Background(), types.IndicatorReport{}, types.PatternReport{}, types.TrendReport{}, "RELIANCE")
}

func hasFactor(record types.DecisionRecord, factor string) bool {
	for _, f := range record.KeyFactors {
		if f == factor {
			return true
		}
	}
	return false
}

func TestValidResponsePassesThrough(t *testing.T) {
	rec := synthesize(t, &stubReasoner{response: `{
		"decision": "LONG",
		"confidence": 0.82,
		"justification": "Momentum and trend agree.",
		"risk_level": "LOW",
		"key_factors": ["RSI oversold bounce"],
		"stop_loss_suggestion": 98.5,
		"take_profit_suggestion": 112.0
	}`})

	if rec.Decision != types.DecisionLong {
		t.Errorf("decision = %q, want LONG", rec.Decision)
	}
	if rec.Confidence != 0.82 {
		t.Errorf("confidence = %f, want 0.82", rec.Confidence)
	}
	if rec.RiskLevel != types.RiskLow {
		t.Errorf("risk level = %q, want LOW", rec.RiskLevel)
	}
	if len(rec.KeyFactors) != 1 || rec.KeyFactors[0] != "RSI oversold bounce" {
		t.Errorf("key factors = %v", rec.KeyFactors)
	}
	if rec.StopLoss != 98.5 || rec.TakeProfit != 112.0 {
		t.Errorf("levels = %f/%f, want 98.5/112.0", rec.StopLoss, rec.TakeProfit)
	}
	if rec.Symbol != "RELIANCE" {
		t.Errorf("symbol = %q, want RELIANCE", rec.Symbol)
	}
	if rec.Inputs == nil || rec.Inputs.Trend == nil {
		t.Error("input analyses not attached to record")
	}
}

func TestUnknownDecisionCoercesToHold(t *testing.T) {
	rec := synthesize(t, &stubReasoner{response: `{
		"decision": "BUY",
		"confidence": 0.8,
		"justification": "x",
		"risk_level": "LOW"
	}`})

	if rec.Decision != types.DecisionHold {
		t.Errorf("decision = %q, want HOLD", rec.Decision)
	}
	if rec.RiskLevel != types.RiskLow {
		t.Errorf("risk level = %q, want LOW preserved", rec.RiskLevel)
	}
}

func TestUnknownRiskCoercesToMedium(t *testing.T) {
	rec := synthesize(t, &stubReasoner{response: `{
		"decision": "SHORT",
		"confidence": 0.5,
		"justification": "x",
		"risk_level": "EXTREME"
	}`})

	if rec.RiskLevel != types.RiskMedium {
		t.Errorf("risk level = %q, want MEDIUM", rec.RiskLevel)
	}
	if rec.Decision != types.DecisionShort {
		t.Errorf("decision = %q, want SHORT preserved", rec.Decision)
	}
}

func TestConfidenceIsClamped(t *testing.T) {
	high := synthesize(t, &stubReasoner{response: `{"decision":"HOLD","confidence":1.7,"justification":"x","risk_level":"MEDIUM"}`})
	if high.Confidence != 1.0 {
		t.Errorf("confidence = %f, want clamped to 1.0", high.Confidence)
	}

	low := synthesize(t, &stubReasoner{response: `{"decision":"HOLD","confidence":-0.5,"justification":"x","risk_level":"MEDIUM"}`})
	if low.Confidence != 0.0 {
		t.Errorf("confidence = %f, want clamped to 0.0", low.Confidence)
	}
}

func TestStringConfidenceIsCoerced(t *testing.T) {
	rec := synthesize(t, &stubReasoner{response: `{"decision":"LONG","confidence":"0.65","justification":"x","risk_level":"LOW"}`})
	if rec.Confidence != 0.65 {
		t.Errorf("confidence = %f, want 0.65 from string", rec.Confidence)
	}
}

func TestFencedResponseStillParses(t *testing.T) {
	rec := synthesize(t, &stubReasoner{response: "```json\n{\"decision\":\"LONG\",\"confidence\":0.7,\"justification\":\"x\",\"risk_level\":\"LOW\"}\n```"})
	if rec.Decision != types.DecisionLong {
		t.Errorf("decision = %q, want LONG from fenced reply", rec.Decision)
	}
}

func TestMalformedResponseFallsBack(t *testing.T) {
	rec := synthesize(t, &stubReasoner{response: "not json {broken"})

	if rec.Decision != types.DecisionHold || rec.Confidence != 0 || rec.RiskLevel != types.RiskHigh {
		t.Errorf("fallback = %q/%f/%q, want HOLD/0/HIGH", rec.Decision, rec.Confidence, rec.RiskLevel)
	}
	if !hasFactor(rec, factorParsingError) {
		t.Errorf("key factors = %v, want %s", rec.KeyFactors, factorParsingError)
	}
	if !strings.Contains(rec.Justification, "not json {broken") {
		t.Errorf("justification %q missing raw excerpt", rec.Justification)
	}
}

func TestMissingRequiredFieldFallsBack(t *testing.T) {
	rec := synthesize(t, &stubReasoner{response: `{"decision":"LONG","confidence":0.7,"justification":"x"}`})

	if rec.Decision != types.DecisionHold || !hasFactor(rec, factorParsingError) {
		t.Errorf("record = %+v, want HOLD with %s", rec, factorParsingError)
	}
	if !strings.Contains(rec.Justification, "risk_level") {
		t.Errorf("justification %q does not name the missing field", rec.Justification)
	}
}

func TestRawExcerptIsTruncated(t *testing.T) {
	raw := strings.Repeat("z", 500)
	rec := synthesize(t, &stubReasoner{response: raw})

	if !strings.Contains(rec.Justification, raw[:rawExcerptLimit]) {
		t.Error("justification missing the leading excerpt")
	}
	if strings.Contains(rec.Justification, raw) {
		t.Error("justification carries the full raw response")
	}
}

func TestServiceErrorFallsBack(t *testing.T) {
	rec := synthesize(t, &stubReasoner{err: errors.New("connection refused")})

	if rec.Decision != types.DecisionHold || rec.Confidence != 0 || rec.RiskLevel != types.RiskHigh {
		t.Errorf("fallback = %q/%f/%q, want HOLD/0/HIGH", rec.Decision, rec.Confidence, rec.RiskLevel)
	}
	if !hasFactor(rec, factorAPIError) {
		t.Errorf("key factors = %v, want %s", rec.KeyFactors, factorAPIError)
	}
	if !strings.Contains(rec.Justification, "connection refused") {
		t.Errorf("justification %q missing the service error", rec.Justification)
	}
}

func TestDecommissionedModelIsTagged(t *testing.T) {
	rec := synthesize(t, &stubReasoner{err: errors.New(`status 400: {"error":{"code":"model_decommissioned"}}`)})

	if !hasFactor(rec, factorAPIError) || !hasFactor(rec, factorDecommission) {
		t.Errorf("key factors = %v, want both %s and %s", rec.KeyFactors, factorAPIError, factorDecommission)
	}
	if !strings.Contains(rec.Justification, "moonshotai/kimi-k2-instruct-0905") {
		t.Errorf("justification %q does not name the supported model", rec.Justification)
	}
}

func TestOptionalFieldsDefault(t *testing.T) {
	rec := synthesize(t, &stubReasoner{response: `{"decision":"HOLD","confidence":0.4,"justification":"x","risk_level":"MEDIUM"}`})

	if rec.KeyFactors == nil || len(rec.KeyFactors) != 0 {
		t.Errorf("key factors = %#v, want empty non-nil list", rec.KeyFactors)
	}
	if rec.StopLoss != 0 || rec.TakeProfit != 0 {
		t.Errorf("levels = %f/%f, want 0/0", rec.StopLoss, rec.TakeProfit)
	}
}

func TestNegativeLevelsRejected(t *testing.T) {
	rec := synthesize(t, &stubReasoner{response: `{"decision":"HOLD","confidence":0.4,"justification":"x","risk_level":"MEDIUM","stop_loss_suggestion":-5,"take_profit_suggestion":-1}`})

	if rec.StopLoss != 0 || rec.TakeProfit != 0 {
		t.Errorf("levels = %f/%f, want negatives zeroed", rec.StopLoss, rec.TakeProfit)
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		`{"a":1}`:                 `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Errorf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
