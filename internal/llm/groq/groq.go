// Package groq implements the Reasoner interface against the Groq
// OpenAI-compatible chat completions API.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"quant-agent/internal/store"
	"quant-agent/internal/trace"
)

const defaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"

type GroqReasoner struct {
	cfg      *store.Config
	endpoint string
	client   *http.Client
}

// NewGroqReasoner creates a Groq-backed reasoner. The endpoint can be
// overridden with GROQ_API_ENDPOINT for proxies.
func NewGroqReasoner(cfg *store.Config) *GroqReasoner {
	endpoint := defaultEndpoint
	if ep := os.Getenv("GROQ_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &GroqReasoner{
		cfg:      cfg,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Complete sends the system instruction and user prompt and returns the
// model's raw text reply. Generation is low-temperature and bounded by
// the configured token budget.
func (g *GroqReasoner) Complete(ctx context.Context, system, user string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "groq-api-call")
	defer span.End()

	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return "", errors.New("GROQ_API_KEY missing")
	}

	body := map[string]any{
		"model": g.cfg.LLM.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": g.cfg.LLM.Temperature,
		"max_tokens":  g.cfg.LLM.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", g.endpoint, bytes.NewReader(bb))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		// The body carries the API error code; model_decommissioned
		// in particular must stay visible to the synthesizer.
		errBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("groq http %d: %s", resp.StatusCode, string(errBody))
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}

	if len(r.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}
