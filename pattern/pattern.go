// Package pattern detects Double-Bottom chart patterns: two pivot lows of
// near-equal depth separated by a neckline, confirmed by a later close
// breaking above the neckline. Grounded on the two-phase "accumulate a
// pending candidate, confirm on a later bar" idiom from
// strategies/ema_cross_adx.go's pendingDir/pendingSignal handling,
// generalized from a single-bar pending signal to a multi-bar pattern
// candidate.
package pattern

import "github.com/evdnx/goldcore/market"

const (
	pivotWindow  = 2  // bars on each side of a pivot low (symmetric 5-bar window)
	minPivotGap  = 10 // minimum bars between the two pivot lows
	minPipSize   = 0.0001
)

// Pattern is immutable once emitted by Detect.
type Pattern struct {
	LeftLowIndex         int
	RightLowIndex        int
	NecklinePrice        float64
	NecklineIndex        int
	EqualityToleranceP   float64
	QualityScore         float64
	BreakoutIndex        int
}

// Detect scans closedBars for a Double-Bottom pattern, using atr14 to scale
// the pivot-equality tolerance. It returns at most one pattern: the most
// recently confirmed one. Detect carries no hidden state across calls —
// every call rescans from scratch, so replaying identical input is
// idempotent.
func Detect(closedBars []market.Bar, atr14 float64) (*Pattern, bool) {
	pivots := pivotLows(closedBars)
	if len(pivots) < 2 {
		return nil, false
	}

	tolerance := 2 * minPipSize
	if atrTol := 0.15 * atr14; atrTol > tolerance {
		tolerance = atrTol
	}

	var best *Pattern
	for i := 0; i < len(pivots); i++ {
		for j := i + 1; j < len(pivots); j++ {
			p1, p2 := pivots[i], pivots[j]
			if p2-p1 < minPivotGap {
				continue
			}
			low1 := closedBars[p1].Low
			low2 := closedBars[p2].Low
			diff := low1 - low2
			if diff < 0 {
				diff = -diff
			}
			if diff > tolerance {
				continue
			}

			necklineIdx, necklinePrice := maxHighBetween(closedBars, p1, p2)
			breakoutIdx, ok := breakoutAfter(closedBars, p2, necklinePrice)
			if !ok {
				continue
			}

			cand := &Pattern{
				LeftLowIndex:       p1,
				RightLowIndex:      p2,
				NecklinePrice:      necklinePrice,
				NecklineIndex:      necklineIdx,
				EqualityToleranceP: tolerance,
				BreakoutIndex:      breakoutIdx,
			}
			cand.QualityScore = quality(closedBars, cand, atr14, diff, tolerance)

			// A later-confirmed pattern supersedes an earlier stale one.
			if best == nil || cand.BreakoutIndex >= best.BreakoutIndex {
				best = cand
			}
		}
	}

	if best == nil {
		return nil, false
	}
	return best, true
}

// pivotLows returns the indices of bars whose low is strictly less than the
// low of the pivotWindow bars on each side (a symmetric 5-bar window).
func pivotLows(bars []market.Bar) []int {
	var out []int
	for i := pivotWindow; i < len(bars)-pivotWindow; i++ {
		isPivot := true
		for k := 1; k <= pivotWindow; k++ {
			if bars[i].Low >= bars[i-k].Low || bars[i].Low >= bars[i+k].Low {
				isPivot = false
				break
			}
		}
		if isPivot {
			out = append(out, i)
		}
	}
	return out
}

func maxHighBetween(bars []market.Bar, from, to int) (int, float64) {
	idx := from
	high := bars[from].High
	for i := from + 1; i < to; i++ {
		if bars[i].High > high {
			high = bars[i].High
			idx = i
		}
	}
	return idx, high
}

func breakoutAfter(bars []market.Bar, from int, neckline float64) (int, bool) {
	for i := from + 1; i < len(bars); i++ {
		if bars[i].Close > neckline {
			return i, true
		}
	}
	return 0, false
}

// quality scores the pattern in [0,10]: weighted sum of equality tightness,
// neckline clearance, time symmetry, and drop depth.
func quality(bars []market.Bar, p *Pattern, atr14, equalityDiff, tolerance float64) float64 {
	tightness := 1.0
	if tolerance > 0 {
		tightness = 1 - (equalityDiff / tolerance)
	}
	if tightness < 0 {
		tightness = 0
	}

	clearance := 0.0
	if atr14 > 0 {
		clearance = (bars[p.BreakoutIndex].Close - p.NecklinePrice) / atr14
		if clearance > 1 {
			clearance = 1
		}
		if clearance < 0 {
			clearance = 0
		}
	}

	leftSpan := p.NecklineIndex - p.LeftLowIndex
	rightSpan := p.RightLowIndex - p.NecklineIndex
	symmetry := 1.0
	if leftSpan+rightSpan > 0 {
		diff := leftSpan - rightSpan
		if diff < 0 {
			diff = -diff
		}
		symmetry = 1 - float64(diff)/float64(leftSpan+rightSpan)
	}

	depth := 0.0
	if atr14 > 0 {
		depth = (p.NecklinePrice - bars[p.LeftLowIndex].Low) / atr14
		if depth > 1 {
			depth = 1
		}
		if depth < 0 {
			depth = 0
		}
	}

	return 10 * (0.35*tightness + 0.3*clearance + 0.15*symmetry + 0.2*depth)
}
