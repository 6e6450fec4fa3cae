package barguard

import (
	"testing"
	"time"

	"github.com/evdnx/goldcore/market"
	"github.com/stretchr/testify/assert"
)

func TestValidate_OK(t *testing.T) {
	now := time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC)
	bar := market.Bar{Time: now.Add(-time.Hour), Open: 100, High: 102, Low: 99, Close: 101}
	assert.NoError(t, Validate(bar, now, time.Hour))
}

func TestValidate_NotClosed(t *testing.T) {
	now := time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC)
	bar := market.Bar{Time: now.Add(-30 * time.Minute), Open: 100, High: 102, Low: 99, Close: 101}
	assert.Error(t, Validate(bar, now, time.Hour))
}

func TestValidate_BadOHLC(t *testing.T) {
	now := time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC)
	bar := market.Bar{Time: now.Add(-time.Hour), Open: 100, High: 99, Low: 99, Close: 101}
	assert.Error(t, Validate(bar, now, time.Hour))
}

func TestTickNoiseFilter(t *testing.T) {
	bar := market.Bar{Open: 100, Close: 100.05}
	assert.True(t, TickNoiseFilter(bar, 0, 0.01))
	assert.False(t, TickNoiseFilter(bar, 10, 0.01))
}

func TestAntiFOMOWarn(t *testing.T) {
	assert.False(t, AntiFOMOWarn(2, 0))
	assert.True(t, AntiFOMOWarn(1, 5))
	assert.False(t, AntiFOMOWarn(10, 5))
}
