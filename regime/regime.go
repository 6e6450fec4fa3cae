// Package regime classifies the market as BULL/BEAR/RANGE from EMA50/EMA200
// separation and computes the composite entry-quality score. The scorer is
// context only: it never emits orders and never overrides the entry
// engine's verdict.
package regime

import "math"

type Regime int

const (
	Range Regime = iota
	Bull
	Bear
)

func (r Regime) String() string {
	switch r {
	case Bull:
		return "BULL"
	case Bear:
		return "BEAR"
	default:
		return "RANGE"
	}
}

// Snapshot is the regime classification plus confidence and the two gap
// ratios it was derived from.
type Snapshot struct {
	Regime           Regime
	Confidence       float64
	EmaGapPct        float64
	PriceEma50GapPct float64
}

// Evaluate classifies close/ema50/ema200 per the spec: BULL iff
// close > ema50 > ema200, BEAR iff close < ema50 < ema200, otherwise RANGE
// with confidence 0. Confidence blends EMA separation and price-to-EMA50
// distance, each capped at 1.
func Evaluate(close, ema50, ema200 float64) Snapshot {
	emaGapPct := math.Abs(ema50-ema200) / ema200
	priceGapPct := math.Abs(close-ema50) / ema50

	var r Regime
	switch {
	case close > ema50 && ema50 > ema200:
		r = Bull
	case close < ema50 && ema50 < ema200:
		r = Bear
	default:
		return Snapshot{Regime: Range, EmaGapPct: emaGapPct, PriceEma50GapPct: priceGapPct}
	}

	confidence := 0.6*math.Min(emaGapPct/0.01, 1) + 0.4*math.Min(priceGapPct/0.02, 1)
	return Snapshot{
		Regime:           r,
		Confidence:       confidence,
		EmaGapPct:        emaGapPct,
		PriceEma50GapPct: priceGapPct,
	}
}

// QualityInputs feeds the composite entry-quality score.
type QualityInputs struct {
	PatternQuality             float64 // 0..10
	MomentumScore              float64 // 0..10
	EmaAlignmentScore          float64 // 0..10
	VolatilityAppropriateness  float64 // 0..10
}

// QualityThreshold is the minimum composite score for the quality gate.
const QualityThreshold = 6.5

// CompositeQuality computes 0.35·pattern + 0.25·momentum + 0.25·ema_alignment
// + 0.15·volatility, in [0,10].
func CompositeQuality(in QualityInputs) float64 {
	return 0.35*in.PatternQuality +
		0.25*in.MomentumScore +
		0.25*in.EmaAlignmentScore +
		0.15*in.VolatilityAppropriateness
}

// PassesQualityGate reports whether score >= 6.5 and the regime is BULL or
// RANGE (RANGE is admitted "with caveat" per the spec; BEAR never passes).
func PassesQualityGate(score float64, r Regime) bool {
	return score >= QualityThreshold && r != Bear
}
