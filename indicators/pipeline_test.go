package indicators

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/evdnx/goldcore/market"
	"github.com/evdnx/goldcore/xerr"
	"github.com/stretchr/testify/assert"
)

func genBars(n int) []market.Bar {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, 0, n)
	price := 1900.0
	for i := 0; i < n; i++ {
		price += 0.25
		bars = append(bars, market.Bar{
			Time:  base.Add(time.Duration(i) * time.Hour),
			Open:  price - 0.1,
			High:  price + 0.5,
			Low:   price - 0.5,
			Close: price,
		})
	}
	return bars
}

func TestPipeline_InsufficientHistory(t *testing.T) {
	p := NewPipeline()
	_, err := p.Compute(genBars(50))
	assert.True(t, errors.Is(err, xerr.ErrInsufficientHistory))
}

func TestPipeline_ComputeIsDeterministic(t *testing.T) {
	p := NewPipeline()
	bars := genBars(250)

	snap1, err := p.Compute(bars)
	assert.NoError(t, err)

	snap2, err := p.Compute(bars)
	assert.NoError(t, err)

	assert.Equal(t, snap1, snap2)
	assert.Greater(t, snap1.EMA50, 0.0)
	assert.Greater(t, snap1.ATR14, 0.0)
}

func TestPipeline_RejectsInvalidBar(t *testing.T) {
	p := NewPipeline()
	bars := genBars(250)
	bars[100].Close = math.NaN()

	_, err := p.Compute(bars)
	assert.True(t, errors.Is(err, xerr.ErrInvalidInputData))
}
