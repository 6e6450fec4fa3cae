package uievents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueue_PublishAndReceive(t *testing.T) {
	q := NewQueue(2)
	q.Publish(Event{Kind: MarketData, Time: time.Now(), MarketData: &MarketDataPayload{Symbol: "XAU_USD", Close: 2000}})

	ev := <-q.Events()
	assert.Equal(t, MarketData, ev.Kind)
	assert.Equal(t, "XAU_USD", ev.MarketData.Symbol)
}

func TestQueue_DropsOldestWhenFull(t *testing.T) {
	q := NewQueue(1)
	q.Publish(Event{Kind: MarketData, MarketData: &MarketDataPayload{Symbol: "first"}})
	q.Publish(Event{Kind: MarketData, MarketData: &MarketDataPayload{Symbol: "second"}})

	ev := <-q.Events()
	assert.Equal(t, "second", ev.MarketData.Symbol)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "PositionOpened", PositionOpened.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}
