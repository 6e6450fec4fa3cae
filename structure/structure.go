// Package structure classifies the shape of recent swing lows, feeding the
// TP2 exit engine's LOWER_LOW exit condition.
package structure

import "github.com/evdnx/goldcore/market"

// Structure tags the relationship between the most recent swing lows.
type Structure int

const (
	UnknownStructure Structure = iota
	HigherLows
	LowerLow
)

func (s Structure) String() string {
	switch s {
	case HigherLows:
		return "HIGHER_LOWS"
	case LowerLow:
		return "LOWER_LOW"
	default:
		return "UNKNOWN"
	}
}

// Classify scans the trailing bars for the two most recent pivot lows (a
// bar whose low is less than both neighbors) and compares them.
func Classify(bars []market.Bar) Structure {
	var lows []float64
	for i := 1; i < len(bars)-1; i++ {
		if bars[i].Low < bars[i-1].Low && bars[i].Low < bars[i+1].Low {
			lows = append(lows, bars[i].Low)
		}
	}
	if len(lows) < 2 {
		return UnknownStructure
	}
	last := lows[len(lows)-1]
	prior := lows[len(lows)-2]
	if last > prior {
		return HigherLows
	}
	if last < prior {
		return LowerLow
	}
	return UnknownStructure
}

// SwingLow returns the lowest low of the most recent pivot, used by the
// TP2 trailing-stop formula's swing_sl term.
func SwingLow(bars []market.Bar) (float64, bool) {
	for i := len(bars) - 2; i > 0; i-- {
		if bars[i].Low < bars[i-1].Low && bars[i].Low < bars[i+1].Low {
			return bars[i].Low, true
		}
	}
	return 0, false
}
