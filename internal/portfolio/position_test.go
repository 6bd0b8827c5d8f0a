package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/event"
	"main/internal/fixed"
)

func fill(action event.Action, qty int64, price, commission float64) event.Fill {
	return event.Fill{
		Timestamp:  time.Date(2016, 10, 31, 0, 0, 0, 0, time.UTC),
		Symbol:     "SPY",
		Action:     action,
		Quantity:   qty,
		Price:      fixed.MustParse(price),
		Commission: fixed.MustParse(commission),
	}
}

func TestPositionAveragesIn(t *testing.T) {
	pos := &Position{Symbol: "SPY"}
	require.NoError(t, pos.ApplyFill(fill(event.ActionBot, 100, 50, 0)))
	require.NoError(t, pos.ApplyFill(fill(event.ActionBot, 100, 60, 0)))

	assert.Equal(t, int64(200), pos.Quantity)
	assert.Equal(t, fixed.MustParse(55), pos.AvgPrice)
}

func TestPositionRealizesOnReduce(t *testing.T) {
	pos := &Position{Symbol: "SPY"}
	require.NoError(t, pos.ApplyFill(fill(event.ActionBot, 100, 50, 0)))
	require.NoError(t, pos.ApplyFill(fill(event.ActionSld, 40, 55, 0)))

	assert.Equal(t, int64(60), pos.Quantity)
	assert.Equal(t, fixed.MustParse(200), pos.RealizedPnL, "40 shares x $5")
	assert.Equal(t, fixed.MustParse(50), pos.AvgPrice, "basis unchanged on reduce")
}

func TestPositionShortRealizes(t *testing.T) {
	pos := &Position{Symbol: "SPY"}
	require.NoError(t, pos.ApplyFill(fill(event.ActionSld, 100, 50, 0)))
	assert.Equal(t, int64(-100), pos.Quantity)

	require.NoError(t, pos.ApplyFill(fill(event.ActionBot, 100, 45, 0)))
	assert.Equal(t, int64(0), pos.Quantity)
	assert.Equal(t, fixed.MustParse(500), pos.RealizedPnL, "short covered $5 lower")
	assert.Equal(t, fixed.Price(0), pos.AvgPrice)
}

func TestPositionCrossesZero(t *testing.T) {
	pos := &Position{Symbol: "SPY"}
	require.NoError(t, pos.ApplyFill(fill(event.ActionBot, 100, 50, 0)))
	require.NoError(t, pos.ApplyFill(fill(event.ActionSld, 150, 52, 0)))

	assert.Equal(t, int64(-50), pos.Quantity)
	assert.Equal(t, fixed.MustParse(200), pos.RealizedPnL, "100 long shares closed at +$2")
	assert.Equal(t, fixed.MustParse(52), pos.AvgPrice, "remainder opens at fill price")
}

func TestPositionCommissionReducesRealized(t *testing.T) {
	pos := &Position{Symbol: "SPY"}
	require.NoError(t, pos.ApplyFill(fill(event.ActionBot, 100, 50, 1.5)))

	assert.Equal(t, fixed.MustParse(-1.5), pos.RealizedPnL)
	assert.Equal(t, fixed.MustParse(1.5), pos.TotalCommission)
}

func TestPositionMarkToMarket(t *testing.T) {
	pos := &Position{Symbol: "SPY"}
	require.NoError(t, pos.ApplyFill(fill(event.ActionBot, 100, 50, 0)))

	pos.MarkToMarket(fixed.MustParse(53))
	assert.Equal(t, fixed.MustParse(5300), pos.MarketValue)
	assert.Equal(t, fixed.MustParse(300), pos.UnrealizedPnL)
}
