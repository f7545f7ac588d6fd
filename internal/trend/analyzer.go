// Package trend derives multi-timeframe trend direction, momentum,
// directional strength, and breakout state from a candle series and
// combines them into one weighted directional confidence score.
package trend

import (
	"fmt"
	"math"
	"strings"

	"quant-agent/internal/types"
)

// Timeframe windows and direction weights.
const (
	shortWindow  = 10
	mediumWindow = 20

	shortWeight    = 0.5
	mediumWeight   = 0.3
	longWeight     = 0.2
	momentumWeight = 0.2

	smoothingPeriod = 14
	breakoutWindow  = 20
	breakoutBuffer  = 0.001
)

// Analyzer is a pure function over an immutable series. It holds no
// state and is safe to share across goroutines.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze produces the full trend report. Short input never fails; the
// affected sub-results degrade to their "Insufficient data" form.
func (a *Analyzer) Analyze(candles []types.Candle) types.TrendReport {
	short := computeTrend(tail(candles, shortWindow))
	medium := computeTrend(tail(candles, mediumWindow))
	long := computeTrend(candles)

	momentum := analyzeMomentum(candles)
	strength := analyzeStrength(candles)
	breakout := analyzeBreakout(candles)

	report := types.TrendReport{
		ShortTerm:  short,
		MediumTerm: medium,
		LongTerm:   long,
		Momentum:   momentum,
		Strength:   strength,
		Breakout:   breakout,
		Direction:  overallDirection(short, medium, long, momentum),
		Confidence: confidence(short, medium, long, momentum, strength),
	}
	report.Summary = buildSummary(report)
	return report
}

// computeTrend fits close against bar index with ordinary least squares.
func computeTrend(window []types.Candle) types.TrendReading {
	if len(window) < 3 {
		return types.TrendReading{Direction: types.DirInsufficient}
	}

	n := float64(len(window))
	var sumX, sumY, sumXX, sumYY, sumXY float64
	for i, c := range window {
		x := float64(i)
		y := c.Close
		sumX += x
		sumY += y
		sumXX += x * x
		sumYY += y * y
		sumXY += x * y
	}

	covXY := sumXY - sumX*sumY/n
	varX := sumXX - sumX*sumX/n
	varY := sumYY - sumY*sumY/n

	slope := covXY / varX
	rSquared := 0.0
	if varY > 0 {
		r := covXY / math.Sqrt(varX*varY)
		rSquared = r * r
	} else {
		slope = 0
	}

	direction := types.DirNeutral
	if slope > 0.01 {
		direction = types.DirBullish
	} else if slope < -0.01 {
		direction = types.DirBearish
	}

	return types.TrendReading{
		Direction: direction,
		Slope:     slope,
		RSquared:  rSquared,
		Strength:  classifyFit(rSquared),
	}
}

func classifyFit(rSquared float64) string {
	switch {
	case rSquared < 0.3:
		return "Weak"
	case rSquared < 0.6:
		return "Moderate"
	default:
		return "Strong"
	}
}

func analyzeMomentum(candles []types.Candle) types.MomentumReading {
	return types.MomentumReading{
		Price:        priceMomentum(candles),
		Volume:       volumeMomentum(candles),
		Acceleration: acceleration(candles),
	}
}

func priceMomentum(candles []types.Candle) types.PriceMomentum {
	m := types.PriceMomentum{
		OneBar:  change(candles, 1),
		FiveBar: change(candles, 5),
		TenBar:  change(candles, 10),
	}
	m.Overall = classifyMomentum(m.FiveBar)
	return m
}

// change returns the percentage move over the last n bars, or 0 when
// there is not enough history.
func change(candles []types.Candle, n int) float64 {
	if len(candles) < n+1 {
		return 0
	}
	prev := candles[len(candles)-1-n].Close
	return (candles[len(candles)-1].Close - prev) / prev * 100.0
}

func classifyMomentum(momentum float64) string {
	side := types.DirBullish
	if momentum <= 0 {
		side = types.DirBearish
	}
	switch {
	case math.Abs(momentum) > 5:
		return "Strong " + side
	case math.Abs(momentum) > 2:
		return "Moderate " + side
	default:
		return "Weak"
	}
}

// volumeMomentum compares the last five bars' mean volume against the
// mean of all earlier bars. The earlier window is deliberately
// open-ended, unlike the fixed 20-bar strength and breakout windows.
func volumeMomentum(candles []types.Candle) types.VolumeMomentum {
	if len(candles) < 10 {
		return types.VolumeMomentum{Trend: types.DirInsufficient, Ratio: 1.0}
	}

	recent := meanVolume(candles[len(candles)-5:])
	historical := recent
	if len(candles) > 10 {
		historical = meanVolume(candles[:len(candles)-5])
	}

	ratio := 1.0
	if historical > 0 {
		ratio = recent / historical
	}

	trend := "Stable"
	if ratio > 1.5 {
		trend = "Increasing"
	} else if ratio < 0.7 {
		trend = "Decreasing"
	}

	return types.VolumeMomentum{Trend: trend, Ratio: ratio}
}

func meanVolume(candles []types.Candle) float64 {
	sum := 0.0
	for _, c := range candles {
		sum += c.Vol
	}
	return sum / float64(len(candles))
}

// acceleration is the latest second finite difference of the closes.
func acceleration(candles []types.Candle) types.Acceleration {
	if len(candles) < 3 {
		return types.Acceleration{Direction: types.DirInsufficient}
	}
	n := len(candles)
	value := candles[n-1].Close - 2*candles[n-2].Close + candles[n-3].Close

	direction := "Constant Velocity"
	if value > 0 {
		direction = "Accelerating Up"
	} else if value < 0 {
		direction = "Accelerating Down"
	}
	return types.Acceleration{Value: value, Direction: direction}
}

// analyzeStrength computes the ADX-style directional strength score:
// smoothed +DI/-DI from directional movement over average true range,
// then the 14-period mean of DX.
func analyzeStrength(candles []types.Candle) types.TrendStrength {
	n := len(candles)
	if n < 20 {
		return types.TrendStrength{Score: 0, Classification: types.DirInsufficient}
	}

	trueRange := make([]float64, n)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	trueRange[0] = candles[0].High - candles[0].Low
	for i := 1; i < n; i++ {
		highLow := candles[i].High - candles[i].Low
		highClose := math.Abs(candles[i].High - candles[i-1].Close)
		lowClose := math.Abs(candles[i].Low - candles[i-1].Close)
		trueRange[i] = math.Max(highLow, math.Max(highClose, lowClose))

		upMove := candles[i].High - candles[i-1].High
		downMove := candles[i-1].Low - candles[i].Low
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
	}

	atr := rollingMean(trueRange, smoothingPeriod)
	plusSmoothed := rollingMean(plusDM, smoothingPeriod)
	minusSmoothed := rollingMean(minusDM, smoothingPeriod)

	dx := make([]float64, n)
	for i := 0; i < n; i++ {
		plusDI := 100 * plusSmoothed[i] / atr[i]
		minusDI := 100 * minusSmoothed[i] / atr[i]
		dx[i] = 100 * math.Abs(plusDI-minusDI) / (plusDI + minusDI)
	}

	adx := rollingMean(dx, smoothingPeriod)
	score := adx[n-1]
	if math.IsNaN(score) || math.IsInf(score, 0) {
		score = 0
	}

	return types.TrendStrength{Score: score, Classification: classifyStrength(score)}
}

func classifyStrength(score float64) string {
	switch {
	case score > 50:
		return "Very Strong"
	case score > 25:
		return "Strong"
	case score > 15:
		return "Moderate"
	default:
		return "Weak"
	}
}

// rollingMean returns the w-period mean at each index; positions
// without a full window are NaN, and NaN inputs poison their windows.
func rollingMean(vals []float64, w int) []float64 {
	out := make([]float64, len(vals))
	for i := range vals {
		if i < w-1 {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := i - w + 1; j <= i; j++ {
			sum += vals[j]
		}
		out[i] = sum / float64(w)
	}
	return out
}

// analyzeBreakout checks the latest close against the rolling 20-bar
// support/resistance band with a 0.1% buffer.
func analyzeBreakout(candles []types.Candle) types.BreakoutState {
	if len(candles) < breakoutWindow {
		return types.BreakoutState{Status: types.DirInsufficient}
	}

	recent := candles[len(candles)-breakoutWindow:]
	support := math.Inf(1)
	resistance := math.Inf(-1)
	for _, c := range recent {
		support = math.Min(support, c.Low)
		resistance = math.Max(resistance, c.High)
	}
	current := candles[len(candles)-1].Close

	state := types.BreakoutState{
		Status:       types.BreakoutNone,
		Support:      support,
		Resistance:   resistance,
		CurrentPrice: current,
	}

	if current > resistance*(1+breakoutBuffer) {
		state.Status = types.BreakoutResistance
		state.Strength = (current - resistance) / resistance * 100.0
	} else if current < support*(1-breakoutBuffer) {
		state.Status = types.BreakoutSupport
		state.Strength = (support - current) / support * 100.0
	}
	return state
}

// overallDirection is a weighted vote over the timeframe directions
// plus a flat bonus to whichever side the 5-bar momentum label favors.
// Ties resolve to Neutral.
func overallDirection(short, medium, long types.TrendReading, momentum types.MomentumReading) string {
	bullish, bearish := 0.0, 0.0

	for _, tf := range []struct {
		direction string
		weight    float64
	}{
		{short.Direction, shortWeight},
		{medium.Direction, mediumWeight},
		{long.Direction, longWeight},
	} {
		switch tf.direction {
		case types.DirBullish:
			bullish += tf.weight
		case types.DirBearish:
			bearish += tf.weight
		}
	}

	if strings.Contains(momentum.Price.Overall, types.DirBullish) {
		bullish += momentumWeight
	} else if strings.Contains(momentum.Price.Overall, types.DirBearish) {
		bearish += momentumWeight
	}

	if bullish > bearish {
		return types.DirBullish
	}
	if bearish > bullish {
		return types.DirBearish
	}
	return types.DirNeutral
}

// confidence sums three bounded factors: timeframe agreement (0.4 when
// all three directions match, 0.2 when two do), strength score scaled
// to 0.3, and 1-vs-5 bar momentum consistency scaled to 0.3. The sum is
// clamped to [0,1].
func confidence(short, medium, long types.TrendReading, momentum types.MomentumReading, strength types.TrendStrength) float64 {
	distinct := map[string]struct{}{
		short.Direction:  {},
		medium.Direction: {},
		long.Direction:   {},
	}

	agreement := 0.0
	switch len(distinct) {
	case 1:
		agreement = 0.4
	case 2:
		agreement = 0.2
	}

	strengthTerm := strength.Score / 100.0 * 0.3

	consistency := 1.0 - math.Abs(momentum.Price.OneBar-momentum.Price.FiveBar)/10.0
	momentumTerm := math.Max(0, consistency) * 0.3

	return clamp01(agreement + strengthTerm + momentumTerm)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func buildSummary(r types.TrendReport) string {
	var b strings.Builder
	b.WriteString("Trend Analysis Summary:\n")
	fmt.Fprintf(&b, "- Short-term trend: %s (%s)\n", r.ShortTerm.Direction, r.ShortTerm.Strength)
	fmt.Fprintf(&b, "- Medium-term trend: %s (%s)\n", r.MediumTerm.Direction, r.MediumTerm.Strength)
	fmt.Fprintf(&b, "- Long-term trend: %s (%s)\n", r.LongTerm.Direction, r.LongTerm.Strength)
	fmt.Fprintf(&b, "- Price momentum: %s\n", r.Momentum.Price.Overall)
	fmt.Fprintf(&b, "- Volume momentum: %s\n", r.Momentum.Volume.Trend)
	fmt.Fprintf(&b, "- Price acceleration: %s\n", r.Momentum.Acceleration.Direction)
	fmt.Fprintf(&b, "- Trend strength: %s (Score: %.1f)\n", r.Strength.Classification, r.Strength.Score)
	fmt.Fprintf(&b, "- Breakout status: %s", r.Breakout.Status)
	if r.Breakout.Status != types.BreakoutNone && r.Breakout.Status != types.DirInsufficient {
		fmt.Fprintf(&b, " (Strength: %.2f%%)", r.Breakout.Strength)
	}
	return b.String()
}

func tail(candles []types.Candle, n int) []types.Candle {
	if len(candles) <= n {
		return candles
	}
	return candles[len(candles)-n:]
}
