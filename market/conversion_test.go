package market

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeTickSource struct {
	tick           Tick
	err            error
	called         int
	lastInstrument string
}

func (f *fakeTickSource) GetTick(ctx context.Context, instrument string) (Tick, error) {
	f.called++
	f.lastInstrument = instrument
	return f.tick, f.err
}

func TestQuoteToAccountRate_UnknownInstrument(t *testing.T) {
	t.Parallel()

	ts := &fakeTickSource{}
	rate, err := QuoteToAccountRate("NO_SUCH_INSTRUMENT", "USD", ts)
	assert.Error(t, err)
	assert.Equal(t, 0.0, rate)
}

func TestQuoteToAccountRate_QuoteEqualsAccount(t *testing.T) {
	t.Parallel()

	// XAU_USD's quote currency is USD.
	ts := &fakeTickSource{}
	rate, err := QuoteToAccountRate("XAU_USD", "USD", ts)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, rate)
	assert.Equal(t, 0, ts.called)
}

func TestQuoteToAccountRate_BaseEqualsAccount(t *testing.T) {
	t.Parallel()

	// USD_JPY's base currency is USD.
	ts := &fakeTickSource{
		tick: Tick{Bid: 2.0, Ask: 4.0}, // mid = 3.0
	}
	rate, err := QuoteToAccountRate("USD_JPY", "USD", ts)
	assert.NoError(t, err)

	expected := 1.0 / ts.tick.Mid()
	assert.InDelta(t, expected, rate, 1e-9)
	assert.Equal(t, 1, ts.called)
	assert.Equal(t, "USD_JPY", ts.lastInstrument)
}

func TestQuoteToAccountRate_CrossNotImplemented(t *testing.T) {
	t.Parallel()

	ts := &fakeTickSource{}
	_, err := QuoteToAccountRate("EUR_USD", "JPY", ts)
	assert.Error(t, err)
}
