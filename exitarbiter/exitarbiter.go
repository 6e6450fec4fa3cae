// Package exitarbiter runs the priority-ordered exit evaluation for an open
// position on every bar-close: stop-loss first, then the TP ladder, then
// the TP1/TP2 engines, then a mandatory NO_EXIT log line. Grounded directly
// on sim/triggers.go's hitStopLoss branch preceding hitTakeProfit in the
// same switch, and on the priority-ordered ExitReason enum idiom from
// the sawpanic-cryptorun exits-logic reference file.
package exitarbiter

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/evdnx/goldcore/exitengine"
	"github.com/evdnx/goldcore/indicators"
	"github.com/evdnx/goldcore/market"
	"github.com/evdnx/goldcore/momentum"
	"github.com/evdnx/goldcore/position"
	"github.com/evdnx/goldcore/regime"
	"github.com/evdnx/goldcore/structure"
	"github.com/evdnx/goldcore/tpladder"
)

// ExitOutcome is the arbiter's verdict for a single bar-close evaluation of
// one open position.
type ExitOutcome struct {
	Exit       bool
	ExitPrice  float64
	ExitReason string
	// NewStopLoss, when non-zero, is the updated stop-loss the caller must
	// persist even when Exit is false (breakeven lock, trailing advance).
	NewStopLoss float64
	// NoExitReason is populated whenever Exit is false, for observability
	// — silent no-exits are forbidden.
	NoExitReason string
}

// Evaluate runs the five-step priority procedure for one open position on
// one closed bar. bars is the full closed-bar history available to the
// caller, ending with the bar currently being evaluated; the arbiter needs
// more than the single latest bar to find the prior close (TP1/TP2 "two
// consecutive closes below" rule) and real swing pivots (trailing-stop
// swing_sl term).
func Evaluate(pos *position.Position, bars []market.Bar, ind indicators.Snapshot, reg regime.Snapshot, mom momentum.Momentum, struc structure.Structure) (*ExitOutcome, error) {
	bar := bars[len(bars)-1]
	priorClose := bar.Close
	if len(bars) >= 2 {
		priorClose = bars[len(bars)-2].Close
	}

	// 1. Stop-loss check — uninterruptible, can never be preempted by TP
	// logic.
	if bar.Close <= pos.CurrentStopLoss {
		return &ExitOutcome{Exit: true, ExitPrice: bar.Close, ExitReason: "Stop Loss"}, nil
	}

	// 2. Advance the TP ladder.
	tr := tpladder.Advance(pos, bar.Close, bar.Time)
	if tr.Occurred && tr.To == position.TP3Reached {
		reason := "TP3 Hit"
		if bar.Close < pos.TP3Price {
			reason = "Protective Exit"
		}
		return &ExitOutcome{Exit: true, ExitPrice: bar.Close, ExitReason: reason}, nil
	}
	if tr.Occurred && tr.To == position.Exited {
		return &ExitOutcome{Exit: true, ExitPrice: tr.ExitPrice, ExitReason: tr.ExitReason}, nil
	}

	// 3. TP1 engine, only when in TP1_REACHED and the ladder did not just
	// advance.
	if pos.TPState == position.TP1Reached && !tr.Occurred {
		out := exitengine.EvaluateTP1(exitengine.TP1Context{
			CurrentPrice:   bar.Close,
			Entry:          pos.EntryPrice,
			TP1:            pos.TP1Price,
			ATR14:          ind.ATR14,
			Regime:         reg.Regime,
			Momentum:       mom,
			LastClosedBar:  bar.Close,
			PriorClosedBar: priorClose,
			BarsSinceTP1:   pos.BarsHeldAfterTP1,
		})
		pos.CurrentStopLoss = math.Max(pos.CurrentStopLoss, out.ProposedStopLoss)
		pos.PostTP1Decision = out.Verdict.String()
		if out.Verdict == exitengine.ExitTrade {
			pos.TP1ExitReason = "TP1 Hit"
			return &ExitOutcome{Exit: true, ExitPrice: bar.Close, ExitReason: "TP1 Hit", NewStopLoss: pos.CurrentStopLoss}, nil
		}
		return &ExitOutcome{Exit: false, NewStopLoss: pos.CurrentStopLoss, NoExitReason: "TP1_" + out.Verdict.String()}, nil
	}

	// 4. TP2 engine, symmetrically.
	if pos.TPState == position.TP2Reached && !tr.Occurred {
		swingLow, _ := structure.SwingLow(bars)
		out := exitengine.EvaluateTP2(exitengine.TP2Context{
			CurrentPrice:    bar.Close,
			Entry:           pos.EntryPrice,
			TP2:             pos.TP2Price,
			ATR14:           ind.ATR14,
			Regime:          reg.Regime,
			Momentum:        mom,
			Structure:       struc,
			LastClosedBar:   bar.Close,
			PriorClosedBar:  priorClose,
			BarsSinceTP2:    pos.BarsHeldAfterTP2,
			CurrentStopLoss: pos.TrailingSLLevel,
			SwingLow:        swingLow,
		})
		pos.TrailingSLLevel = out.TrailingSL
		pos.CurrentStopLoss = math.Max(pos.CurrentStopLoss, out.TrailingSL)
		pos.PostTP2Decision = out.Verdict.String()
		if out.Verdict == exitengine.ExitTrade {
			pos.TP2ExitReason = "TP2 Hit"
			return &ExitOutcome{Exit: true, ExitPrice: bar.Close, ExitReason: "TP2 Hit", NewStopLoss: pos.CurrentStopLoss}, nil
		}
		return &ExitOutcome{Exit: false, NewStopLoss: pos.CurrentStopLoss, NoExitReason: "TP2_" + out.Verdict.String()}, nil
	}

	// 5. No exit emitted: record an explicit, observable reason. A ladder
	// advance on this bar (breakeven lock at TP1, trailing seed at TP2) is
	// reported through NewStopLoss so the caller persists the new state.
	out := &ExitOutcome{
		Exit:         false,
		NoExitReason: "NO_EXIT regime=" + reg.Regime.String() + " momentum=" + mom.String() + " state=" + pos.TPState.String(),
	}
	if tr.Occurred {
		out.NewStopLoss = pos.CurrentStopLoss
	}
	return out, nil
}

// ValidateReason is the mandatory integrity pass before an exit outcome is
// handed to the state store.
func ValidateReason(outcome *ExitOutcome, tp3Price, currentStopLoss float64, now time.Time) {
	if !outcome.Exit {
		return
	}
	if strings.TrimSpace(outcome.ExitReason) == "" || isNumeric(outcome.ExitReason) {
		outcome.ExitReason = "Unknown Closure"
		return
	}
	if containsTP3(outcome.ExitReason) && outcome.ExitPrice < tp3Price {
		outcome.ExitReason = "Protective Exit"
		return
	}
	if math.Abs(outcome.ExitPrice-currentStopLoss) <= 1e-9 && outcome.ExitReason != "Stop Loss" {
		outcome.ExitReason = "Stop Loss"
	}
}

// isNumeric reports whether reason parses as a number, which is never a
// valid exit label.
func isNumeric(reason string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(reason), 64)
	return err == nil
}

func containsTP3(reason string) bool {
	return strings.Contains(reason, "TP3")
}
