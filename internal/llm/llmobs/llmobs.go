package llmobs

import (
	"context"

	"quant-agent/internal/interfaces"
	"quant-agent/internal/logger"
	"quant-agent/internal/trace"
)

// observableReasoner wraps a Reasoner with logging and tracing
type observableReasoner struct {
	reasoner interfaces.Reasoner
}

// Compile-time interface check
var _ interfaces.Reasoner = (*observableReasoner)(nil)

// Wrap wraps a reasoner with observability middleware
func Wrap(r interfaces.Reasoner) interfaces.Reasoner {
	return &observableReasoner{reasoner: r}
}

func (or *observableReasoner) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Complete")
	defer span.End()

	// Skip(1) so the log lines report the actual caller, not this wrapper
	logger.DebugSkip(ctx, 1, "Requesting reasoning completion", "prompt_bytes", len(user))

	response, err := or.reasoner.Complete(ctx, system, user)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Reasoning completion failed", err)
		return "", err
	}

	logger.DebugSkip(ctx, 1, "Reasoning completion received", "response_bytes", len(response))
	return response, nil
}
