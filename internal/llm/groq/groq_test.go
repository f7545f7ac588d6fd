package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quant-agent/internal/store"
)

func testConfig() *store.Config {
	cfg := &store.Config{}
	cfg.LLM.Model = "moonshotai/kimi-k2-instruct-0905"
	cfg.LLM.MaxTokens = 1000
	cfg.LLM.Temperature = 0.1
	return cfg
}

func TestCompleteRoundTrip(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  {\"decision\":\"HOLD\"}  "}},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_API_ENDPOINT", srv.URL)

	r := NewGroqReasoner(testConfig())
	reply, err := r.Complete(context.Background(), "system text", "user text")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if reply != `{"decision":"HOLD"}` {
		t.Errorf("reply = %q, want trimmed content", reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody["model"] != "moonshotai/kimi-k2-instruct-0905" {
		t.Errorf("model = %v", gotBody["model"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("messages = %v, want system and user", gotBody["messages"])
	}
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")

	r := NewGroqReasoner(testConfig())
	if _, err := r.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error without GROQ_API_KEY")
	}
}

func TestCompleteSurfacesAPIErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"model_decommissioned"}}`))
	}))
	defer srv.Close()

	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_API_ENDPOINT", srv.URL)

	r := NewGroqReasoner(testConfig())
	_, err := r.Complete(context.Background(), "s", "u")
	if err == nil || !strings.Contains(err.Error(), "model_decommissioned") {
		t.Fatalf("err = %v, want the API error code preserved", err)
	}
}

func TestCompleteRejectsEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_API_ENDPOINT", srv.URL)

	r := NewGroqReasoner(testConfig())
	if _, err := r.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
