// Package exitengine implements the stateless TP1 and TP2 post-touch exit
// decision rules. Every function takes its full context as a value
// parameter rather than reading from strategy state, grounded on
// evdnx-gots's stateless trailingStopLevel/applyTrailingStop helpers.
package exitengine

import (
	"math"

	"github.com/evdnx/goldcore/momentum"
	"github.com/evdnx/goldcore/regime"
	"github.com/evdnx/goldcore/structure"
)

// Verdict is the outcome of a TP1/TP2 evaluation.
type Verdict int

const (
	Hold Verdict = iota
	WaitNextBar
	ExitTrade
)

func (v Verdict) String() string {
	switch v {
	case WaitNextBar:
		return "WAIT_NEXT_BAR"
	case ExitTrade:
		return "EXIT_TRADE"
	default:
		return "HOLD"
	}
}

// TP1Context carries every input EvaluateTP1 needs.
type TP1Context struct {
	CurrentPrice    float64
	Entry           float64
	TP1             float64
	ATR14           float64
	Regime          regime.Regime
	Momentum        momentum.Momentum
	LastClosedBar   float64 // close of the most recent closed bar
	PriorClosedBar  float64 // close of the bar before that
	BarsSinceTP1    int
}

// TP1Outcome bundles the verdict with the proposed stop-loss.
type TP1Outcome struct {
	Verdict         Verdict
	ProposedStopLoss float64
}

// EvaluateTP1 applies the priority-ordered TP1 rules.
func EvaluateTP1(ctx TP1Context) TP1Outcome {
	proposedSL := math.Max(ctx.Entry+0.2*ctx.ATR14, ctx.Entry)

	outcome := TP1Outcome{ProposedStopLoss: proposedSL}

	// 1. Never exit on the bar that first touched TP1.
	if ctx.BarsSinceTP1 == 0 {
		outcome.Verdict = Hold
		return outcome
	}

	// 2. EXIT conditions.
	twoConsecutiveBelow := ctx.LastClosedBar < ctx.TP1 && ctx.PriorClosedBar < ctx.TP1
	deepRetrace := (ctx.TP1 - ctx.CurrentPrice) >= 0.5*ctx.ATR14
	if twoConsecutiveBelow ||
		ctx.Momentum == momentum.Broken ||
		ctx.Regime == regime.Range || ctx.Regime == regime.Bear ||
		deepRetrace {
		outcome.Verdict = ExitTrade
		return outcome
	}

	// 3. HOLD conditions.
	microPullback := (ctx.TP1 - ctx.CurrentPrice) <= 0.25*ctx.ATR14
	if microPullback || ctx.LastClosedBar >= ctx.TP1 || ctx.Regime == regime.Bull {
		outcome.Verdict = Hold
		return outcome
	}

	// 4. WAIT_NEXT_BAR conditions.
	singleBarPullbackAboveEntry := ctx.LastClosedBar < ctx.TP1 && ctx.LastClosedBar > ctx.Entry
	if singleBarPullbackAboveEntry || ctx.Momentum == momentum.Strong || ctx.Momentum == momentum.Moderate {
		outcome.Verdict = WaitNextBar
		return outcome
	}

	// 5. Default.
	outcome.Verdict = Hold
	return outcome
}

// TP2Context carries every input EvaluateTP2 needs, with a tighter
// threshold set than TP1 plus a structure-state input.
type TP2Context struct {
	CurrentPrice     float64
	Entry            float64
	TP2              float64
	ATR14            float64
	Regime           regime.Regime
	Momentum         momentum.Momentum
	Structure        structure.Structure
	LastClosedBar    float64
	PriorClosedBar   float64
	BarsSinceTP2     int
	CurrentStopLoss  float64
	SwingLow         float64
}

// TP2Outcome bundles the verdict with the trailing-SL proposal, already
// merged monotonically against the position's current stop-loss.
type TP2Outcome struct {
	Verdict        Verdict
	TrailingSL     float64
}

// EvaluateTP2 applies the priority-ordered TP2 rules, tighter than TP1's.
func EvaluateTP2(ctx TP2Context) TP2Outcome {
	atrSL := ctx.CurrentPrice - 0.3*ctx.ATR14
	swingSL := ctx.SwingLow - 0.1*ctx.ATR14
	floorSL := ctx.Entry + 0.1*ctx.ATR14
	proposed := math.Max(atrSL, math.Max(swingSL, floorSL))

	// The trailing SL is monotone non-decreasing: proposals below the
	// stored level are ignored.
	trailing := math.Max(proposed, ctx.CurrentStopLoss)

	outcome := TP2Outcome{TrailingSL: trailing}

	if ctx.BarsSinceTP2 == 0 {
		outcome.Verdict = Hold
		return outcome
	}

	twoConsecutiveBelow := ctx.LastClosedBar < ctx.TP2 && ctx.PriorClosedBar < ctx.TP2
	deepRetrace := (ctx.TP2 - ctx.CurrentPrice) >= 0.35*ctx.ATR14
	if twoConsecutiveBelow ||
		ctx.Momentum == momentum.Broken ||
		ctx.Regime == regime.Range || ctx.Regime == regime.Bear ||
		ctx.Structure == structure.LowerLow ||
		deepRetrace {
		outcome.Verdict = ExitTrade
		return outcome
	}

	microPullback := (ctx.TP2 - ctx.CurrentPrice) <= 0.20*ctx.ATR14
	if microPullback || ctx.LastClosedBar >= ctx.TP2 || ctx.Regime == regime.Bull {
		outcome.Verdict = Hold
		return outcome
	}

	singleBarPullbackAboveEntry := ctx.LastClosedBar < ctx.TP2 && ctx.LastClosedBar > ctx.Entry
	if singleBarPullbackAboveEntry || ctx.Momentum == momentum.Strong || ctx.Momentum == momentum.Moderate {
		outcome.Verdict = WaitNextBar
		return outcome
	}

	outcome.Verdict = Hold
	return outcome
}
