package indicators

import (
	"fmt"
	"math"

	"github.com/evdnx/goldcore/market"
)

// ATR is a streaming Wilder-smoothed Average True Range. Grounded on
// streaming.go's ATR/calculateTrueRange, generalized from market.Candle to
// market.Bar.
type ATR struct {
	period int

	prev     market.Bar
	havePrev bool

	sum   float64
	count int

	atr   float64
	ready bool
}

func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string { return fmt.Sprintf("ATR(%d)", a.period) }

func (a *ATR) Warmup() int { return a.period + 1 }

func (a *ATR) Reset() {
	*a = ATR{period: a.period}
}

func (a *ATR) Ready() bool { return a.ready }

func (a *ATR) Value() float64 {
	if !a.ready {
		return 0
	}
	return a.atr
}

func (a *ATR) Update(b market.Bar) {
	if !a.havePrev {
		a.prev = b
		a.havePrev = true
		return
	}

	tr := trueRange(b, a.prev)
	a.prev = b

	if !a.ready {
		a.sum += tr
		a.count++
		if a.count == a.period {
			a.atr = a.sum / float64(a.period)
			a.ready = true
		}
		return
	}

	a.atr = (a.atr*float64(a.period-1) + tr) / float64(a.period)
}

// trueRange returns max(h-l, |h-prevClose|, |l-prevClose|).
func trueRange(current, previous market.Bar) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)
	return math.Max(highLow, math.Max(highClose, lowClose))
}
