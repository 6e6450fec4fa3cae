// Package barguard validates bar closure and OHLC integrity ahead of every
// other entry gate, and hosts two optional, default-off filters: a
// tick-noise filter and an anti-FOMO cadence warning.
package barguard

import (
	"math"
	"time"

	"github.com/evdnx/goldcore/market"
	"github.com/evdnx/goldcore/xerr"
)

// Validate rejects a bar that is structurally invalid or not yet closed.
// This always runs first, ahead of every other entry gate.
func Validate(bar market.Bar, now time.Time, period time.Duration) error {
	vals := []float64{bar.Open, bar.High, bar.Low, bar.Close}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return xerr.ErrInvalidInputData
		}
	}
	if bar.High < math.Max(bar.Open, bar.Close) {
		return xerr.ErrInvalidInputData
	}
	if bar.Low > math.Min(bar.Open, bar.Close) {
		return xerr.ErrInvalidInputData
	}
	if bar.Time.Add(period).After(now) {
		return xerr.ErrInvalidInputData
	}
	return nil
}

// TickNoiseFilter rejects a bar whose price movement is smaller than
// thresholdPips, in pip units derived from pip. Default off (threshold 0
// disables it).
func TickNoiseFilter(bar market.Bar, thresholdPips, pip float64) bool {
	if thresholdPips <= 0 || pip <= 0 {
		return true
	}
	movementPips := math.Abs(bar.Close-bar.Open) / pip
	return movementPips >= thresholdPips
}

// AntiFOMOWarn reports whether fewer than minBarsSinceSignal bars have
// elapsed since the last signal. It is WARN-only: callers must never use
// this to block an entry, only to log/emit a UI event — good setups must
// not be suppressed by cadence.
func AntiFOMOWarn(barsSinceLastSignal, minBarsSinceSignal int) bool {
	if minBarsSinceSignal <= 0 {
		return false
	}
	return barsSinceLastSignal < minBarsSinceSignal
}
