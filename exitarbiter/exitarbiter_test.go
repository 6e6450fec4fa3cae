package exitarbiter

import (
	"testing"
	"time"

	"github.com/evdnx/goldcore/indicators"
	"github.com/evdnx/goldcore/market"
	"github.com/evdnx/goldcore/momentum"
	"github.com/evdnx/goldcore/position"
	"github.com/evdnx/goldcore/regime"
	"github.com/evdnx/goldcore/structure"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate_StopLossTakesPriorityOverTP(t *testing.T) {
	pos := &position.Position{
		EntryPrice:      2000,
		CurrentStopLoss: 2005, // above TP1 would-be trigger, to prove SL wins
		TP1Price:        2001,
		TP2Price:        2010,
		TP3Price:        2020,
		TPState:         position.InTrade,
	}
	bars := []market.Bar{{Time: time.Now(), Close: 2002, Open: 2002, High: 2003, Low: 2001}}

	out, err := Evaluate(pos, bars, indicators.Snapshot{ATR14: 1}, regime.Snapshot{Regime: regime.Bull}, momentum.Strong, structure.HigherLows)
	assert.NoError(t, err)
	assert.True(t, out.Exit)
	assert.Equal(t, "Stop Loss", out.ExitReason)
}

func TestEvaluate_NoExitIsObservable(t *testing.T) {
	pos := &position.Position{
		EntryPrice:      2000,
		CurrentStopLoss: 1990,
		TP1Price:        2010,
		TP2Price:        2015,
		TP3Price:        2020,
		TPState:         position.InTrade,
	}
	bars := []market.Bar{{Time: time.Now(), Close: 2005, Open: 2004, High: 2006, Low: 2003}}

	out, err := Evaluate(pos, bars, indicators.Snapshot{ATR14: 1}, regime.Snapshot{Regime: regime.Bull}, momentum.Strong, structure.HigherLows)
	assert.NoError(t, err)
	assert.False(t, out.Exit)
	assert.NotEmpty(t, out.NoExitReason)
}

// TestEvaluate_SingleCloseBelowTP1DoesNotExit guards against S3 (a single
// micro-pullback close under TP1 must HOLD, not EXIT_TRADE): PriorClosedBar
// must come from actual prior-bar history, not default to zero.
func TestEvaluate_SingleCloseBelowTP1DoesNotExit(t *testing.T) {
	pos := &position.Position{
		EntryPrice:        2000,
		CurrentStopLoss:   1990,
		TP1Price:          2010,
		TP2Price:          2020,
		TP3Price:          2030,
		TPState:           position.TP1Reached,
		BarsHeldAfterTP1:  2,
	}
	bars := []market.Bar{
		{Time: time.Now().Add(-time.Hour), Close: 2011, Open: 2010, High: 2012, Low: 2009},
		{Time: time.Now(), Close: 2009, Open: 2011, High: 2011, Low: 2008},
	}

	out, err := Evaluate(pos, bars, indicators.Snapshot{ATR14: 3}, regime.Snapshot{Regime: regime.Bull}, momentum.Strong, structure.HigherLows)
	assert.NoError(t, err)
	assert.False(t, out.Exit)
}

func TestValidateReason_RewritesMislabeledTP3(t *testing.T) {
	out := &ExitOutcome{Exit: true, ExitPrice: 2018, ExitReason: "TP3 Hit"}
	ValidateReason(out, 2020, 1990, time.Now())
	assert.Equal(t, "Protective Exit", out.ExitReason)
}

func TestValidateReason_EmptyBecomesUnknown(t *testing.T) {
	out := &ExitOutcome{Exit: true, ExitPrice: 2000, ExitReason: ""}
	ValidateReason(out, 2020, 1990, time.Now())
	assert.Equal(t, "Unknown Closure", out.ExitReason)
}
