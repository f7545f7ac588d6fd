package noop

import (
	"context"
	"encoding/json"

	"quant-agent/internal/logger"
)

// NoopReasoner is used when no reasoning service is configured. It
// returns a deterministic HOLD reply in the expected schema so the
// validator and downstream plumbing behave exactly as in the live path.
type NoopReasoner struct{}

func NewNoopReasoner() *NoopReasoner {
	return &NoopReasoner{}
}

func (n *NoopReasoner) Complete(ctx context.Context, system, user string) (string, error) {
	logger.Debug(ctx, "Noop reasoner called - always returns HOLD")
	reply, _ := json.Marshal(map[string]any{
		"decision":               "HOLD",
		"confidence":             0.0,
		"justification":          "Reasoning service not configured. Set GROQ_API_KEY and llm.provider to GROQ.",
		"risk_level":             "HIGH",
		"key_factors":            []string{"NO_REASONER"},
		"stop_loss_suggestion":   0,
		"take_profit_suggestion": 0,
	})
	return string(reply), nil
}
