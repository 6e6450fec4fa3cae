package controller

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/evdnx/goldcore/broker/simulator"
	"github.com/evdnx/goldcore/config"
	"github.com/evdnx/goldcore/indicators"
	"github.com/evdnx/goldcore/logging"
	"github.com/evdnx/goldcore/market"
	"github.com/evdnx/goldcore/metrics"
	"github.com/evdnx/goldcore/store"
	"github.com/evdnx/goldcore/uievents"
	"github.com/stretchr/testify/require"
)

// flatBars builds a long, mildly uptrending series so the indicator
// pipeline has enough history to become ready without necessarily forming
// a tradeable pattern — this test exercises the tick's plumbing, not entry
// signal generation.
func flatBars(n int) []market.Bar {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]market.Bar, n)
	price := 1900.0
	for i := 0; i < n; i++ {
		price += 0.1
		bars[i] = market.Bar{
			Time:  now.Add(time.Duration(i) * time.Hour),
			Open:  price - 0.2,
			High:  price + 0.3,
			Low:   price - 0.3,
			Close: price,
		}
	}
	return bars
}

func newTestController(t *testing.T) (*Controller, *simulator.Simulator) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.New(dir, filepath.Join(dir, "trades.db"))
	require.NoError(t, err)

	sim := simulator.New(100000, 0.02)
	bars := flatBars(indicators.MinBarsRequired + 5)
	sim.LoadBars("XAU_USD", bars)

	cfg := config.Default()
	cfg.BarsToFetch = len(bars)

	c := New(cfg, sim, st, logging.NopLogger(), metrics.New(), uievents.NewQueue(16))
	return c, sim
}

func TestController_TickRunsWithoutError(t *testing.T) {
	c, sim := newTestController(t)
	ctx := context.Background()

	_, err := sim.Connect(ctx, "u", "p", "s", "")
	require.NoError(t, err)

	err = c.Tick(ctx)
	require.NoError(t, err)
}

func TestController_TickPublishesMarketDataEvent(t *testing.T) {
	c, sim := newTestController(t)
	ctx := context.Background()
	_, _ = sim.Connect(ctx, "u", "p", "s", "")

	require.NoError(t, c.Tick(ctx))

	select {
	case ev := <-c.events.Events():
		require.Equal(t, uievents.MarketData, ev.Kind)
	default:
		t.Fatal("expected at least one published event")
	}
}
