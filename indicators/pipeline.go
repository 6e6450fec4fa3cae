package indicators

import (
	"math"

	"github.com/evdnx/goldcore/market"
	"github.com/evdnx/goldcore/xerr"
)

// MinBarsRequired is the minimum closed-bar history the pipeline needs
// before it will produce a usable snapshot.
const MinBarsRequired = 220

// Snapshot is the indicator state as of the most recently closed bar.
type Snapshot struct {
	EMA50  float64
	EMA200 float64
	ATR14  float64
	ADX14  float64
}

// Pipeline drives the EMA50/EMA200/ATR14 (and ADX14) streaming indicators
// over a closed-bar series. Compute is a pure function of its input slice:
// each call rebuilds fresh accumulators, so replaying the same bars twice
// yields an identical Snapshot.
type Pipeline struct {
	MinBars int
}

func NewPipeline() *Pipeline {
	return &Pipeline{MinBars: MinBarsRequired}
}

// Compute consumes the full closed-bar series in order and returns the
// indicator snapshot as of the last bar. It fails with
// xerr.ErrInsufficientHistory when fewer than MinBars bars are supplied,
// and xerr.ErrInvalidInputData when any bar carries a NaN or non-finite
// OHLC value.
func (p *Pipeline) Compute(bars []market.Bar) (Snapshot, error) {
	min := p.MinBars
	if min <= 0 {
		min = MinBarsRequired
	}
	if len(bars) < min {
		return Snapshot{}, xerr.ErrInsufficientHistory
	}

	ema50 := NewEMA(50)
	ema200 := NewEMA(200)
	atr14 := NewATR(14)
	adx14 := NewADX(14)

	for _, b := range bars {
		if !validBar(b) {
			return Snapshot{}, xerr.ErrInvalidInputData
		}
		ema50.Update(b)
		ema200.Update(b)
		atr14.Update(b)
		adx14.Update(b)
	}

	if !ema50.Ready() || !ema200.Ready() || !atr14.Ready() {
		return Snapshot{}, xerr.ErrInsufficientHistory
	}

	return Snapshot{
		EMA50:  ema50.Value(),
		EMA200: ema200.Value(),
		ATR14:  atr14.Value(),
		ADX14:  adx14.Value(),
	}, nil
}

func validBar(b market.Bar) bool {
	vals := []float64{b.Open, b.High, b.Low, b.Close}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return false
		}
	}
	return true
}
