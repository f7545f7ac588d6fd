package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quant-agent/internal/interfaces"
	"quant-agent/internal/logger"
	"quant-agent/internal/types"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// KiteSource fetches historical candles from the Zerodha Kite API.
type KiteSource struct {
	kc       *kiteconnect.Client
	exchange string
	interval string

	mu     sync.RWMutex
	tokens map[string]int
}

var _ interfaces.CandleSource = (*KiteSource)(nil)

type KiteParams struct {
	APIKey      string
	AccessToken string
	Exchange    string
	Interval    string
}

func NewKiteSource(p KiteParams) *KiteSource {
	kc := kiteconnect.New(p.APIKey)
	kc.SetAccessToken(p.AccessToken)
	return &KiteSource{
		kc:       kc,
		exchange: p.Exchange,
		interval: p.Interval,
		tokens:   make(map[string]int),
	}
}

func (k *KiteSource) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	token, err := k.instrumentToken(ctx, symbol)
	if err != nil {
		return nil, err
	}

	to := time.Now()
	from := to.Add(-lookbackSpan(k.interval, n))

	data, err := k.kc.GetHistoricalData(token, k.interval, from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("historical data for %s: %w", symbol, err)
	}

	candles := make([]types.Candle, 0, len(data))
	for _, d := range data {
		candles = append(candles, types.Candle{
			Ts:    d.Date.Unix(),
			Open:  d.Open,
			High:  d.High,
			Low:   d.Low,
			Close: d.Close,
			Vol:   float64(d.Volume),
		})
	}

	if len(candles) > n {
		candles = candles[len(candles)-n:]
	}
	return candles, nil
}

// instrumentToken resolves the symbol to its Kite instrument token,
// loading the exchange instrument dump on first use.
func (k *KiteSource) instrumentToken(ctx context.Context, symbol string) (int, error) {
	k.mu.RLock()
	token, ok := k.tokens[symbol]
	k.mu.RUnlock()
	if ok {
		return token, nil
	}

	instruments, err := k.kc.GetInstrumentsByExchange(k.exchange)
	if err != nil {
		return 0, fmt.Errorf("instrument lookup on %s: %w", k.exchange, err)
	}

	k.mu.Lock()
	for _, inst := range instruments {
		k.tokens[inst.Tradingsymbol] = inst.InstrumentToken
	}
	token, ok = k.tokens[symbol]
	k.mu.Unlock()

	logger.Debug(ctx, "Instrument dump loaded", "exchange", k.exchange, "instruments", len(instruments))

	if !ok {
		return 0, fmt.Errorf("symbol %s not found on %s", symbol, k.exchange)
	}
	return token, nil
}

// lookbackSpan estimates how far back to request so at least n bars of
// the given interval are returned, padded for closed market hours.
func lookbackSpan(interval string, n int) time.Duration {
	var per time.Duration
	switch interval {
	case "minute":
		per = time.Minute
	case "5minute":
		per = 5 * time.Minute
	case "15minute":
		per = 15 * time.Minute
	case "60minute":
		per = time.Hour
	default: // day
		per = 24 * time.Hour
	}
	return time.Duration(n) * per * 3
}
