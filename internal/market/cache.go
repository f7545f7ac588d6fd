package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quant-agent/internal/interfaces"
	"quant-agent/internal/logger"
	"quant-agent/internal/types"
)

// CachedSource is a time-bounded read-through cache over another
// candle source. Entries expire after the configured TTL.
type CachedSource struct {
	src interfaces.CandleSource
	ttl time.Duration

	mu   sync.RWMutex
	data map[string]cacheEntry
}

type cacheEntry struct {
	candles   []types.Candle
	fetchedAt time.Time
}

var _ interfaces.CandleSource = (*CachedSource)(nil)

func NewCachedSource(src interfaces.CandleSource, ttl time.Duration) *CachedSource {
	return &CachedSource{
		src:  src,
		ttl:  ttl,
		data: make(map[string]cacheEntry),
	}
}

func (c *CachedSource) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	key := fmt.Sprintf("%s:%d", symbol, n)

	c.mu.RLock()
	entry, ok := c.data[key]
	c.mu.RUnlock()

	if ok && time.Since(entry.fetchedAt) < c.ttl {
		logger.Debug(ctx, "Candle cache hit", "symbol", symbol, "count", len(entry.candles))
		return entry.candles, nil
	}

	candles, err := c.src.RecentCandles(ctx, symbol, n)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.data[key] = cacheEntry{candles: candles, fetchedAt: time.Now()}
	c.mu.Unlock()

	return candles, nil
}

// Clear drops all cached entries.
func (c *CachedSource) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]cacheEntry)
}
