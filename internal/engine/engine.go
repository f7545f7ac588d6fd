// Package engine orchestrates one analysis pass: fetch the series, run
// the independent analyzers, synthesize the decision, assemble the
// result. Each invocation builds and discards its own intermediate
// state, so an engine can serve many symbols concurrently.
package engine

import (
	"context"
	"fmt"

	"quant-agent/internal/interfaces"
	"quant-agent/internal/logger"
	"quant-agent/internal/pattern"
	"quant-agent/internal/report"
	"quant-agent/internal/signal"
	"quant-agent/internal/store"
	"quant-agent/internal/trace"
	"quant-agent/internal/trend"
	"quant-agent/internal/types"
)

// minBars is the floor below which no analysis is attempted at all.
// Individual analyzers degrade gracefully above it.
const minBars = 10

type Engine struct {
	cfg        *store.Config
	src        interfaces.CandleSource
	classifier *signal.Classifier
	describer  *pattern.Describer
	analyzer   *trend.Analyzer
	synth      interfaces.Synthesizer
}

var _ interfaces.Engine = (*Engine)(nil)

func newEngine(cfg *store.Config, src interfaces.CandleSource, synth interfaces.Synthesizer) *Engine {
	return &Engine{
		cfg:        cfg,
		src:        src,
		classifier: signal.NewClassifier(),
		describer:  pattern.NewDescriber(),
		analyzer:   trend.NewAnalyzer(),
		synth:      synth,
	}
}

func (e *Engine) Analyze(ctx context.Context, symbol string) (*types.AnalysisResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Analyze")
	defer span.End()

	logger.Debug(ctx, "Starting analysis", "symbol", symbol)

	candles, err := e.src.RecentCandles(ctx, symbol, e.cfg.LookbackBars)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch candles", err, "symbol", symbol)
		return nil, err
	}
	if len(candles) < minBars {
		return nil, fmt.Errorf("insufficient data for %s: %d bars, need %d", symbol, len(candles), minBars)
	}
	logger.Debug(ctx, "Candles fetched", "symbol", symbol, "count", len(candles))

	ind := e.classifier.Analyze(candles)
	logger.Debug(ctx, "Indicator signals classified",
		"symbol", symbol,
		"forecast", ind.Forecast,
		"rsi", ind.Indicators["rsi"],
		"macd", ind.Indicators["macd_line"],
	)

	pat := e.describer.Analyze(candles)
	logger.Debug(ctx, "Pattern analysis complete",
		"symbol", symbol,
		"trend", pat.Trend,
		"volatility", pat.Volatility,
	)

	tr := e.analyzer.Analyze(candles)
	logger.Debug(ctx, "Trend analysis complete",
		"symbol", symbol,
		"direction", tr.Direction,
		"confidence", tr.Confidence,
		"strength", tr.Strength.Classification,
		"breakout", tr.Breakout.Status,
	)

	dec := e.synth.Synthesize(ctx, ind, pat, tr, symbol)
	logger.Decision(ctx, symbol, dec.Decision, dec.Confidence, dec.RiskLevel)

	return report.Assemble(symbol, len(candles), ind, pat, tr, dec), nil
}
