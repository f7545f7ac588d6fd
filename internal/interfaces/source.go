package interfaces

import (
	"context"

	"quant-agent/internal/types"
)

// CandleSource supplies recent OHLCV bars for a symbol, oldest first.
type CandleSource interface {
	RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error)
}
