// Package tpladder computes the three-level take-profit ladder from an
// entry/stop pair and drives the Position's TP state-machine transitions
// on bar-close.
package tpladder

import (
	"math"
	"time"

	"github.com/evdnx/goldcore/position"
	"github.com/evdnx/goldcore/xerr"
)

// TPLevels holds the computed TP1/TP2/TP3 prices and the risk unit R they
// were derived from.
type TPLevels struct {
	RiskUnit float64
	TP1      float64
	TP2      float64
	TP3      float64
}

// CalculateTPLevels computes TPi = entry + rri*R where R = entry-stopLoss.
// Fails fast with xerr.ErrTpConfigurationInvalid if R <= 0 or the resulting
// levels are not strictly monotonic; the caller must refuse to open the
// position on error.
func CalculateTPLevels(entry, stopLoss float64, rr [3]float64) (TPLevels, error) {
	r := entry - stopLoss
	if r <= 0 {
		return TPLevels{}, xerr.ErrTpConfigurationInvalid
	}

	tp1 := entry + rr[0]*r
	tp2 := entry + rr[1]*r
	tp3 := entry + rr[2]*r

	if !(tp1 < tp2 && tp2 < tp3) {
		return TPLevels{}, xerr.ErrTpConfigurationInvalid
	}

	return TPLevels{RiskUnit: r, TP1: tp1, TP2: tp2, TP3: tp3}, nil
}

// Transition describes the state-machine move Advance applied, if any.
type Transition struct {
	Occurred bool
	From     position.TPState
	To       position.TPState
	ExitPrice float64
	// ExitReason is set only when To is position.Exited or
	// position.TP3Reached.
	ExitReason string
}

// Advance evaluates the TP ladder against closePrice for a single
// bar-close, per the spec's transition table. The Position's
// current_stop_loss, bar counters, and tp_state are mutated atomically —
// the whole transition is a single struct mutation, matching the state
// store's "all commit or none" guarantee.
func Advance(pos *position.Position, closePrice float64, now time.Time) Transition {
	if pos.TPState != position.Exited && closePrice <= pos.CurrentStopLoss {
		from := pos.TPState
		pos.TPState = position.Exited
		pos.TPStateChangedAt = now
		return Transition{Occurred: true, From: from, To: position.Exited, ExitPrice: closePrice, ExitReason: "Stop Loss"}
	}

	switch pos.TPState {
	case position.InTrade:
		if closePrice >= pos.TP1Price {
			pos.CurrentStopLoss = math.Max(pos.CurrentStopLoss, pos.EntryPrice)
			pos.TPState = position.TP1Reached
			pos.TPStateChangedAt = now
			return Transition{Occurred: true, From: position.InTrade, To: position.TP1Reached}
		}
	case position.TP1Reached:
		pos.BarsHeldAfterTP1++
		if closePrice >= pos.TP2Price {
			pos.TrailingSLEnabled = true
			if pos.TrailingSLLevel <= 0 {
				pos.TrailingSLLevel = pos.CurrentStopLoss
			}
			pos.TPState = position.TP2Reached
			pos.TPStateChangedAt = now
			return Transition{Occurred: true, From: position.TP1Reached, To: position.TP2Reached}
		}
	case position.TP2Reached:
		pos.BarsHeldAfterTP2++
		if closePrice >= pos.TP3Price {
			pos.TPState = position.TP3Reached
			pos.TPStateChangedAt = now
			return Transition{Occurred: true, From: position.TP2Reached, To: position.TP3Reached, ExitPrice: closePrice, ExitReason: "TP3 Hit"}
		}
	}

	return Transition{}
}
