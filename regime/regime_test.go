package regime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_Bull(t *testing.T) {
	snap := Evaluate(105, 100, 95)
	assert.Equal(t, Bull, snap.Regime)
	assert.Greater(t, snap.Confidence, 0.0)
}

func TestEvaluate_Bear(t *testing.T) {
	snap := Evaluate(90, 95, 100)
	assert.Equal(t, Bear, snap.Regime)
}

func TestEvaluate_Range(t *testing.T) {
	snap := Evaluate(100, 95, 105)
	assert.Equal(t, Range, snap.Regime)
	assert.Equal(t, 0.0, snap.Confidence)
}

func TestPassesQualityGate(t *testing.T) {
	assert.True(t, PassesQualityGate(7.0, Bull))
	assert.True(t, PassesQualityGate(6.5, Range))
	assert.False(t, PassesQualityGate(6.4, Bull))
	assert.False(t, PassesQualityGate(9.0, Bear))
}

func TestCompositeQuality(t *testing.T) {
	score := CompositeQuality(QualityInputs{
		PatternQuality:            10,
		MomentumScore:             10,
		EmaAlignmentScore:         10,
		VolatilityAppropriateness: 10,
	})
	assert.InDelta(t, 10.0, score, 1e-9)
}
