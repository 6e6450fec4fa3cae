package exitengine

import (
	"testing"

	"github.com/evdnx/goldcore/momentum"
	"github.com/evdnx/goldcore/regime"
	"github.com/evdnx/goldcore/structure"
	"github.com/stretchr/testify/assert"
)

func TestEvaluateTP1_HoldOnFirstTouch(t *testing.T) {
	out := EvaluateTP1(TP1Context{
		CurrentPrice: 2010, Entry: 2000, TP1: 2010, ATR14: 5,
		BarsSinceTP1: 0,
	})
	assert.Equal(t, Hold, out.Verdict)
}

func TestEvaluateTP1_ExitOnDeepRetrace(t *testing.T) {
	out := EvaluateTP1(TP1Context{
		CurrentPrice: 2005, Entry: 2000, TP1: 2010, ATR14: 5,
		BarsSinceTP1: 2, Regime: regime.Bull, Momentum: momentum.Strong,
		LastClosedBar: 2011, PriorClosedBar: 2011,
	})
	assert.Equal(t, ExitTrade, out.Verdict)
}

func TestEvaluateTP1_ExitOnBrokenMomentum(t *testing.T) {
	out := EvaluateTP1(TP1Context{
		CurrentPrice: 2009, Entry: 2000, TP1: 2010, ATR14: 5,
		BarsSinceTP1: 1, Regime: regime.Bull, Momentum: momentum.Broken,
		LastClosedBar: 2011, PriorClosedBar: 2011,
	})
	assert.Equal(t, ExitTrade, out.Verdict)
}

func TestEvaluateTP2_TrailingSLMonotone(t *testing.T) {
	out := EvaluateTP2(TP2Context{
		CurrentPrice: 2020, Entry: 2000, TP2: 2015, ATR14: 5,
		BarsSinceTP2: 1, Regime: regime.Bull, Momentum: momentum.Strong,
		LastClosedBar: 2021, PriorClosedBar: 2021,
		CurrentStopLoss: 2018, SwingLow: 2010,
	})
	assert.GreaterOrEqual(t, out.TrailingSL, 2018.0)
}

func TestEvaluateTP2_ExitOnLowerLowStructure(t *testing.T) {
	out := EvaluateTP2(TP2Context{
		CurrentPrice: 2016, Entry: 2000, TP2: 2015, ATR14: 5,
		BarsSinceTP2: 1, Regime: regime.Bull, Momentum: momentum.Strong,
		Structure: structure.LowerLow,
		LastClosedBar: 2017, PriorClosedBar: 2017,
		CurrentStopLoss: 2010, SwingLow: 2005,
	})
	assert.Equal(t, ExitTrade, out.Verdict)
}
