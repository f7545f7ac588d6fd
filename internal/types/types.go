package types

// Candle is a single OHLCV bar. Series handed to the analyzers are
// time-ordered with strictly increasing timestamps.
type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// Direction labels shared across the analyzers.
const (
	DirBullish      = "Bullish"
	DirBearish      = "Bearish"
	DirNeutral      = "Neutral"
	DirInsufficient = "Insufficient data"
)

// TrendReading is the linear-fit trend for one timeframe window.
type TrendReading struct {
	Direction string  `json:"direction"`
	Slope     float64 `json:"slope"`
	RSquared  float64 `json:"r_squared"`
	Strength  string  `json:"strength"`
}

// PriceMomentum holds rate-of-change over 1/5/10 bar windows. Windows
// without enough history report 0.
type PriceMomentum struct {
	OneBar  float64 `json:"1_period"`
	FiveBar float64 `json:"5_period"`
	TenBar  float64 `json:"10_period"`
	Overall string  `json:"overall"`
}

// VolumeMomentum compares mean volume of the last 5 bars against the
// mean of all earlier bars.
type VolumeMomentum struct {
	Trend string  `json:"trend"`
	Ratio float64 `json:"ratio"`
}

// Acceleration is the latest second difference of the close series.
type Acceleration struct {
	Value     float64 `json:"value"`
	Direction string  `json:"direction"`
}

type MomentumReading struct {
	Price        PriceMomentum  `json:"price_momentum"`
	Volume       VolumeMomentum `json:"volume_momentum"`
	Acceleration Acceleration   `json:"acceleration"`
}

// TrendStrength is the ADX-style directional strength score.
type TrendStrength struct {
	Score          float64 `json:"score"`
	Classification string  `json:"classification"`
}

// Breakout status values.
const (
	BreakoutNone       = "None"
	BreakoutResistance = "Resistance Breakout"
	BreakoutSupport    = "Support Breakdown"
)

type BreakoutState struct {
	Status       string  `json:"status"`
	Strength     float64 `json:"strength"`
	Support      float64 `json:"support_level"`
	Resistance   float64 `json:"resistance_level"`
	CurrentPrice float64 `json:"current_price"`
}

// TrendReport aggregates everything the trend analyzer derives from a
// series. It is passed downstream by value and never mutated.
type TrendReport struct {
	ShortTerm  TrendReading    `json:"short_term"`
	MediumTerm TrendReading    `json:"medium_term"`
	LongTerm   TrendReading    `json:"long_term"`
	Momentum   MomentumReading `json:"momentum"`
	Strength   TrendStrength   `json:"trend_strength"`
	Breakout   BreakoutState   `json:"breakout"`
	Direction  string          `json:"direction"`
	Confidence float64         `json:"confidence"`
	Summary    string          `json:"summary"`
}

// IndicatorReport is the signal classifier's output: raw indicator
// values plus their Bullish/Bearish/Neutral tags.
type IndicatorReport struct {
	Indicators map[string]float64 `json:"indicators"`
	Signals    map[string]string  `json:"signals"`
	Summary    string             `json:"summary"`
	Forecast   string             `json:"forecast"`
	Evidence   string             `json:"evidence"`
	Trigger    string             `json:"trigger"`
}

// PriceAction describes the last five closes.
type PriceAction struct {
	Pattern     string  `json:"pattern"`
	PriceChange float64 `json:"price_change"`
}

// PatternReport is the text-only visual/pattern analysis fed into the
// decision prompt.
type PatternReport struct {
	Trend         string      `json:"trend"`
	Volatility    float64     `json:"volatility"`
	PriceAction   PriceAction `json:"price_action"`
	Support       float64     `json:"support_level"`
	Resistance    float64     `json:"resistance_level"`
	HasLevels     bool        `json:"has_levels"`
	Description   string      `json:"pattern_description"`
	VisualSummary string      `json:"visual_summary"`
	ChartAnalysis string      `json:"chart_analysis"`
}

// Decision enum values enforced by the response validator.
const (
	DecisionLong  = "LONG"
	DecisionShort = "SHORT"
	DecisionHold  = "HOLD"

	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// DecisionInputs references the three reports a decision was derived
// from, kept on the record for audit.
type DecisionInputs struct {
	Indicator *IndicatorReport `json:"indicator,omitempty"`
	Pattern   *PatternReport   `json:"pattern,omitempty"`
	Trend     *TrendReport     `json:"trend,omitempty"`
}

// DecisionRecord is the synthesizer's single output. The JSON field
// names are the wire contract the reasoning service is asked to emit.
// A record is built once per synthesis call and never mutated after.
type DecisionRecord struct {
	Decision      string          `json:"decision"`
	Confidence    float64         `json:"confidence"`
	Justification string          `json:"justification"`
	RiskLevel     string          `json:"risk_level"`
	KeyFactors    []string        `json:"key_factors"`
	StopLoss      float64         `json:"stop_loss_suggestion"`
	TakeProfit    float64         `json:"take_profit_suggestion"`
	Symbol        string          `json:"symbol,omitempty"`
	Inputs        *DecisionInputs `json:"input_analyses,omitempty"`
}

// AnalysisResult is the assembled output of one full analysis pass.
type AnalysisResult struct {
	Symbol    string          `json:"symbol"`
	Bars      int             `json:"bars"`
	Indicator IndicatorReport `json:"indicator_analysis"`
	Pattern   PatternReport   `json:"pattern_analysis"`
	Trend     TrendReport     `json:"trend_analysis"`
	Decision  DecisionRecord  `json:"decision"`
	Summary   string          `json:"summary"`
	Time      int64           `json:"time"`
}
