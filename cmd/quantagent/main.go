package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quant-agent/internal/interfaces"
	"quant-agent/internal/logger"
	"quant-agent/internal/trace"
)

func main() {
	if err := initializeSystem(); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	src := initializeSource(ctx, cfg)
	reasoner := initializeReasoner(ctx, cfg)
	eng := buildEngine(cfg, src, reasoner)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	logger.Info(ctx, "Analysis engine started", "symbols", len(cfg.Symbols), "run_once", cfg.RunOnce)

	runPass(ctx, eng, cfg.Symbols)
	if cfg.RunOnce {
		shutdown(ctx)
		return
	}

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			runPass(ctx, eng, cfg.Symbols)
		case <-sigc:
			logger.Info(ctx, "Shutdown signal received")
			cancel()
			shutdown(context.Background())
			return
		}
	}
}

func runPass(ctx context.Context, eng interfaces.Engine, symbols []string) {
	for _, sym := range symbols {
		result, err := eng.Analyze(ctx, sym)
		if err != nil {
			logger.ErrorWithErr(ctx, "Analysis failed", err, "symbol", sym)
			continue
		}
		b, _ := json.Marshal(result)
		fmt.Println(string(b))
	}
}

func shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.Warn(shutdownCtx, "Tracer shutdown failed", "error", err)
	}
}
