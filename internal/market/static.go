// Package market supplies candle series to the analyzers: a synthetic
// generator for dry runs, a Zerodha Kite historical source, a
// time-bounded read-through cache, and a retry wrapper for the live
// source.
package market

import (
	"context"
	"math/rand"
	"time"

	"quant-agent/internal/interfaces"
	"quant-agent/internal/types"
)

// StaticSource generates a random-walk series for testing without a
// market data connection.
type StaticSource struct{}

var _ interfaces.CandleSource = (*StaticSource)(nil)

func NewStaticSource() *StaticSource {
	return &StaticSource{}
}

func (s *StaticSource) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	cs := make([]types.Candle, 0, n)
	base := 1000.0
	now := time.Now().Unix()

	for i := n; i > 0; i-- {
		c := base + float64(i) + (rand.Float64()-0.5)*5
		h := c + rand.Float64()*3
		l := c - rand.Float64()*3
		cs = append(cs, types.Candle{
			Ts:    now - int64(i*60),
			Open:  c - 0.5,
			High:  h,
			Low:   l,
			Close: c,
			Vol:   rand.Float64() * 1000,
		})
	}

	return cs, nil
}
