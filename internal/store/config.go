package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Symbols      []string `yaml:"symbols"`
	DataSource   string   `yaml:"data_source"` // STATIC or KITE
	Exchange     string   `yaml:"exchange"`
	Interval     string   `yaml:"interval"`
	LookbackBars int      `yaml:"lookback_bars"`
	PollSeconds  int      `yaml:"poll_seconds"`
	RunOnce      bool     `yaml:"run_once"`

	Cache struct {
		Enabled    bool `yaml:"enabled"`
		TTLSeconds int  `yaml:"ttl_seconds"`
	} `yaml:"cache"`

	Fetch struct {
		MaxRetries     uint `yaml:"max_retries"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"fetch"`

	// Weights are the guidance given to the reasoning service for
	// combining the three analyses.
	Weights struct {
		Indicators float64 `yaml:"indicators"`
		Patterns   float64 `yaml:"patterns"`
		Trend      float64 `yaml:"trend"`
	} `yaml:"weights"`

	LLM struct {
		Provider string `yaml:"provider"` // GROQ or NOOP
		Model    string `yaml:"model"`
		// DefaultModel is the replacement named when the configured
		// model has been decommissioned by the service.
		DefaultModel string  `yaml:"default_model"`
		MaxTokens    int     `yaml:"max_tokens"`
		Temperature  float32 `yaml:"temperature"`
	} `yaml:"llm"`
}

func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("symbols cannot be empty")
	}
	if c.DataSource != "STATIC" && c.DataSource != "KITE" {
		return fmt.Errorf("invalid data_source '%s': must be 'STATIC' or 'KITE'", c.DataSource)
	}
	if c.LLM.Provider != "GROQ" && c.LLM.Provider != "NOOP" {
		return fmt.Errorf("invalid llm.provider '%s': must be 'GROQ' or 'NOOP'", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0-2, got %.2f", c.LLM.Temperature)
	}
	if c.Weights.Indicators < 0 || c.Weights.Patterns < 0 || c.Weights.Trend < 0 {
		return errors.New("analysis weights must be non-negative")
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.DataSource == "" {
		c.DataSource = "STATIC"
	}
	if c.Interval == "" {
		c.Interval = "day"
	}
	if c.LookbackBars == 0 {
		c.LookbackBars = 250
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = 300
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
	if c.Fetch.MaxRetries == 0 {
		c.Fetch.MaxRetries = 3
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = 30
	}
	if c.Weights.Indicators == 0 && c.Weights.Patterns == 0 && c.Weights.Trend == 0 {
		c.Weights.Indicators = 0.30
		c.Weights.Patterns = 0.25
		c.Weights.Trend = 0.45
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "NOOP"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "moonshotai/kimi-k2-instruct-0905"
	}
	if c.LLM.DefaultModel == "" {
		c.LLM.DefaultModel = "moonshotai/kimi-k2-instruct-0905"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1000
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.1
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
