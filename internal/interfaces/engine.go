package interfaces

import (
	"context"

	"quant-agent/internal/types"
)

type Engine interface {
	Analyze(ctx context.Context, symbol string) (*types.AnalysisResult, error)
}
