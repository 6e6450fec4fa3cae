package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/evdnx/goldcore/broker"
	"github.com/evdnx/goldcore/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBars() []market.Bar {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return []market.Bar{
		{Time: now, Open: 2000, High: 2005, Low: 1995, Close: 2000},
		{Time: now.Add(time.Hour), Open: 2000, High: 2010, Low: 1998, Close: 2008},
	}
}

func TestSimulator_PlaceAndCloseOrder(t *testing.T) {
	sim := New(10000, 0.05)
	sim.LoadBars("XAU_USD", sampleBars())
	ctx := context.Background()

	_, err := sim.Connect(ctx, "u", "p", "s", "")
	require.NoError(t, err)
	assert.True(t, sim.Ping(ctx))

	sl := 1990.0
	tp := 2050.0
	ticket, err := sim.PlaceMarketOrder(ctx, "XAU_USD", broker.Buy, 1, &sl, &tp)
	require.NoError(t, err)
	assert.NotEmpty(t, ticket)

	positions, err := sim.FetchOpenPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, 2008.0, positions[0].EntryPrice)

	fill, err := sim.ClosePosition(ctx, ticket)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fill.Profit) // closes at same last price as entry

	positions, err = sim.FetchOpenPositions(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 0)
}

func TestSimulator_InsufficientMarginRejected(t *testing.T) {
	sim := New(100, 0.05)
	sim.LoadBars("XAU_USD", sampleBars())
	ctx := context.Background()

	_, err := sim.PlaceMarketOrder(ctx, "XAU_USD", broker.Buy, 1000, nil, nil)
	assert.Error(t, err)
}

func TestSimulator_ModifyStop(t *testing.T) {
	sim := New(10000, 0.05)
	sim.LoadBars("XAU_USD", sampleBars())
	ctx := context.Background()

	ticket, err := sim.PlaceMarketOrder(ctx, "XAU_USD", broker.Buy, 1, nil, nil)
	require.NoError(t, err)

	err = sim.ModifyStop(ctx, ticket, 1995)
	require.NoError(t, err)

	positions, err := sim.FetchOpenPositions(ctx)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, 1995.0, positions[0].StopLoss)
}

func TestSimulator_FetchBarsRespectsCount(t *testing.T) {
	sim := New(10000, 0.05)
	sim.LoadBars("XAU_USD", sampleBars())
	ctx := context.Background()

	bars, err := sim.FetchBars(ctx, "XAU_USD", time.Hour, 1)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 2008.0, bars[0].Close)
}
