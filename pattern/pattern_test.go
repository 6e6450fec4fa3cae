package pattern

import (
	"testing"
	"time"

	"github.com/evdnx/goldcore/market"
	"github.com/stretchr/testify/assert"
)

// vShape builds a symmetric V of `arms` bars on each side of a pivot low,
// each bar monotonically stepping away from the low by `step`.
func vShape(center float64, arms int, step float64) []float64 {
	var lows []float64
	for i := arms; i >= 1; i-- {
		lows = append(lows, center+float64(i)*step)
	}
	lows = append(lows, center)
	for i := 1; i <= arms; i++ {
		lows = append(lows, center+float64(i)*step)
	}
	return lows
}

func barsFromLows(lows []float64) []market.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, len(lows))
	for i, l := range lows {
		bars[i] = market.Bar{
			Time:  base.Add(time.Duration(i) * time.Hour),
			Open:  l + 0.5,
			High:  l + 1.0,
			Low:   l,
			Close: l + 0.5,
		}
	}
	return bars
}

func buildDoubleBottom() []market.Bar {
	var lows []float64
	lows = append(lows, vShape(95.0, 6, 1.0)...)  // first pivot low at 95
	lows = append(lows, 101, 102, 103, 104, 105, 104, 103, 102) // neckline rally to 105
	lows = append(lows, vShape(95.1, 6, 1.0)...)  // second pivot low, near-equal
	lows = append(lows, 100, 102, 104, 106, 108)  // breakout above neckline (high 106)
	return barsFromLows(lows)
}

func TestDetect_FindsDoubleBottom(t *testing.T) {
	bars := buildDoubleBottom()
	p, ok := Detect(bars, 1.0)
	assert.True(t, ok)
	assert.NotNil(t, p)
	assert.Less(t, p.LeftLowIndex, p.NecklineIndex)
	assert.Less(t, p.NecklineIndex, p.RightLowIndex)
	assert.Greater(t, p.BreakoutIndex, p.RightLowIndex)
	assert.Greater(t, p.QualityScore, 0.0)
}

func TestDetect_NoPatternInTrendingData(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, 40)
	price := 100.0
	for i := range bars {
		price += 0.5
		bars[i] = market.Bar{Time: base.Add(time.Duration(i) * time.Hour), Open: price, High: price + 1, Low: price - 1, Close: price + 0.3}
	}
	_, ok := Detect(bars, 1.0)
	assert.False(t, ok)
}
