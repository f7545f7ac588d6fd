package market

import (
	"context"
	"time"

	"quant-agent/internal/interfaces"
	"quant-agent/internal/logger"
	"quant-agent/internal/types"

	"github.com/cenkalti/backoff/v4"
)

// RetrySource retries transient fetch failures with exponential
// backoff. Retrying lives here, at the data-fetching edge; the
// analysis core never retries anything.
type RetrySource struct {
	src        interfaces.CandleSource
	maxRetries uint
	maxElapsed time.Duration
}

var _ interfaces.CandleSource = (*RetrySource)(nil)

func NewRetrySource(src interfaces.CandleSource, maxRetries uint, maxElapsed time.Duration) *RetrySource {
	return &RetrySource{src: src, maxRetries: maxRetries, maxElapsed: maxElapsed}
}

func (r *RetrySource) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	var candles []types.Candle

	operation := func() error {
		cs, err := r.src.RecentCandles(ctx, symbol, n)
		if err != nil {
			logger.Warn(ctx, "Candle fetch failed, will retry", "symbol", symbol, "error", err)
			return err
		}
		candles = cs
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = r.maxElapsed

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(strategy, uint64(r.maxRetries)), ctx)); err != nil {
		return nil, err
	}
	return candles, nil
}
