package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"quant-agent/internal/decision"
	"quant-agent/internal/engine"
	"quant-agent/internal/interfaces"
	"quant-agent/internal/llm/groq"
	"quant-agent/internal/llm/llmobs"
	"quant-agent/internal/llm/noop"
	"quant-agent/internal/logger"
	"quant-agent/internal/market"
	"quant-agent/internal/store"
	"quant-agent/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem loads the environment and sets up logging and tracing
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeSource builds the candle source: live Kite data behind
// retry and cache wrappers, or the synthetic generator.
func initializeSource(ctx context.Context, cfg *store.Config) interfaces.CandleSource {
	var src interfaces.CandleSource

	if cfg.DataSource == "KITE" {
		logger.Info(ctx, "Using live candle data from Zerodha Kite", "exchange", cfg.Exchange)
		src = market.NewKiteSource(market.KiteParams{
			APIKey:      os.Getenv("KITE_API_KEY"),
			AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
			Exchange:    cfg.Exchange,
			Interval:    cfg.Interval,
		})
		src = market.NewRetrySource(src, cfg.Fetch.MaxRetries, time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second)
	} else {
		logger.Info(ctx, "Using synthetic candle data")
		src = market.NewStaticSource()
	}

	if cfg.Cache.Enabled {
		src = market.NewCachedSource(src, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	}

	return src
}

// initializeReasoner selects the reasoning backend and wraps it with
// observability middleware.
func initializeReasoner(ctx context.Context, cfg *store.Config) interfaces.Reasoner {
	var reasoner interfaces.Reasoner

	if cfg.LLM.Provider == "GROQ" {
		logger.Info(ctx, "Using Groq reasoning service", "model", cfg.LLM.Model)
		reasoner = groq.NewGroqReasoner(cfg)
	} else {
		logger.Warn(ctx, "No reasoning service configured - decisions will be HOLD")
		reasoner = noop.NewNoopReasoner()
	}

	return llmobs.Wrap(reasoner)
}

func buildEngine(cfg *store.Config, src interfaces.CandleSource, reasoner interfaces.Reasoner) interfaces.Engine {
	return engine.New(cfg, src, decision.New(reasoner, cfg))
}
