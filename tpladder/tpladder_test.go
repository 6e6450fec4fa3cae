package tpladder

import (
	"errors"
	"testing"
	"time"

	"github.com/evdnx/goldcore/position"
	"github.com/evdnx/goldcore/xerr"
	"github.com/stretchr/testify/assert"
)

func TestCalculateTPLevels_Valid(t *testing.T) {
	levels, err := CalculateTPLevels(2000, 1990, [3]float64{1.4, 1.9, 2.5})
	assert.NoError(t, err)
	assert.Equal(t, 10.0, levels.RiskUnit)
	assert.InDelta(t, 2014.0, levels.TP1, 1e-9)
	assert.InDelta(t, 2019.0, levels.TP2, 1e-9)
	assert.InDelta(t, 2025.0, levels.TP3, 1e-9)
}

func TestCalculateTPLevels_NonPositiveRisk(t *testing.T) {
	_, err := CalculateTPLevels(1990, 2000, [3]float64{1.4, 1.9, 2.5})
	assert.True(t, errors.Is(err, xerr.ErrTpConfigurationInvalid))
}

func TestAdvance_Tp1BreakevenLock(t *testing.T) {
	pos := &position.Position{
		EntryPrice:      2000,
		CurrentStopLoss: 1990,
		TP1Price:        2010,
		TP2Price:        2015,
		TP3Price:        2020,
		TPState:         position.InTrade,
	}
	tr := Advance(pos, 2011, time.Now())
	assert.True(t, tr.Occurred)
	assert.Equal(t, position.TP1Reached, pos.TPState)
	assert.Equal(t, 2000.0, pos.CurrentStopLoss)
}

func TestAdvance_StopLossTerminal(t *testing.T) {
	pos := &position.Position{
		EntryPrice:      2000,
		CurrentStopLoss: 1990,
		TP1Price:        2010,
		TP2Price:        2015,
		TP3Price:        2020,
		TPState:         position.InTrade,
	}
	tr := Advance(pos, 1985, time.Now())
	assert.True(t, tr.Occurred)
	assert.Equal(t, position.Exited, pos.TPState)
	assert.Equal(t, "Stop Loss", tr.ExitReason)
}

func TestAdvance_Tp3Exit(t *testing.T) {
	pos := &position.Position{
		EntryPrice:      2000,
		CurrentStopLoss: 2015,
		TP1Price:        2010,
		TP2Price:        2015,
		TP3Price:        2020,
		TPState:         position.TP2Reached,
	}
	tr := Advance(pos, 2021, time.Now())
	assert.True(t, tr.Occurred)
	assert.Equal(t, position.TP3Reached, pos.TPState)
	assert.Equal(t, "TP3 Hit", tr.ExitReason)
}

// TestAdvance_BarsHeldAfterTP1StopsIncrementingAtTP2 guards the
// bars_held_after_tp1 invariant: it must only increment while
// tp_state == TP1_REACHED, not after the position has moved on to
// TP2_REACHED.
func TestAdvance_BarsHeldAfterTP1StopsIncrementingAtTP2(t *testing.T) {
	pos := &position.Position{
		EntryPrice:        2000,
		CurrentStopLoss:   2000,
		TP1Price:          2010,
		TP2Price:          2015,
		TP3Price:          2020,
		TPState:           position.TP2Reached,
		BarsHeldAfterTP1:  3,
		BarsHeldAfterTP2:  1,
	}
	tr := Advance(pos, 2016, time.Now())
	assert.False(t, tr.Occurred)
	assert.Equal(t, 3, pos.BarsHeldAfterTP1)
	assert.Equal(t, 2, pos.BarsHeldAfterTP2)
}
