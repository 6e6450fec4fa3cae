package indicators

import (
	"testing"
	"time"

	"github.com/evdnx/goldcore/market"
	"github.com/stretchr/testify/assert"
)

func barAt(t time.Time, close float64) market.Bar {
	return market.Bar{Time: t, Open: close, High: close + 1, Low: close - 1, Close: close}
}

func TestEMA_SeedsFromFirstClose(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ema := NewEMA(3)
	assert.Equal(t, "EMA(3)", ema.Name())
	assert.Equal(t, 1, ema.Warmup())
	assert.False(t, ema.Ready())

	ema.Update(barAt(base, 100))
	assert.True(t, ema.Ready(), "EMA must be ready after a single bar, no SMA warmup plateau")
	assert.Equal(t, 100.0, ema.Value())

	ema.Update(barAt(base.Add(time.Hour), 110))
	multiplier := 2.0 / 4.0
	expected := (110.0-100.0)*multiplier + 100.0
	assert.InDelta(t, expected, ema.Value(), 1e-9)
}

func TestEMA_Reset(t *testing.T) {
	ema := NewEMA(5)
	ema.Update(barAt(time.Now(), 50))
	assert.True(t, ema.Ready())
	ema.Reset()
	assert.False(t, ema.Ready())
	assert.Equal(t, 0.0, ema.Value())
}
