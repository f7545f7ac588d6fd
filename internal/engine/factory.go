package engine

import (
	"quant-agent/internal/interfaces"
	"quant-agent/internal/store"
)

func New(cfg *store.Config, src interfaces.CandleSource, synth interfaces.Synthesizer) interfaces.Engine {
	return newEngine(cfg, src, synth)
}
