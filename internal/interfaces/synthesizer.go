package interfaces

import (
	"context"

	"quant-agent/internal/types"
)

// Synthesizer turns the three upstream reports into a final decision
// record. It never fails: every error path inside an implementation
// resolves to a HOLD record with reduced confidence.
type Synthesizer interface {
	Synthesize(ctx context.Context, ind types.IndicatorReport, pat types.PatternReport, tr types.TrendReport, symbol string) types.DecisionRecord
}
