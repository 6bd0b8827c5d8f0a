package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/bus"
	"main/internal/event"
	"main/internal/fixed"
)

func bar(day time.Time, symbol string) event.Bar {
	return event.Bar{
		Timestamp: day,
		Symbol:    symbol,
		AdjClose:  fixed.MustParse(100),
	}
}

func drainSignals(t *testing.T, q *bus.Queue) []event.Signal {
	t.Helper()
	var signals []event.Signal
	for {
		e, ok := q.TryPop()
		if !ok {
			return signals
		}
		sig, ok := e.(event.Signal)
		require.True(t, ok, "queue should only contain signals")
		signals = append(signals, sig)
	}
}

func TestMonthlyIgnoresMidMonthBars(t *testing.T) {
	q := bus.NewQueue(16)
	s := NewMonthlyLiquidateRebalance(q, []string{"SPY"})

	for day := 1; day <= 30; day++ {
		ts := time.Date(2016, time.October, day, 0, 0, 0, 0, time.UTC)
		require.NoError(t, s.CalculateSignals(bar(ts, "SPY")))
	}

	assert.Empty(t, drainSignals(t, q), "October 1-30 are not month end")
}

func TestMonthlyFirstMonthEndOpensOnly(t *testing.T) {
	q := bus.NewQueue(16)
	s := NewMonthlyLiquidateRebalance(q, []string{"SPY"})

	monthEnd := time.Date(2016, time.October, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.CalculateSignals(bar(monthEnd, "SPY")))

	signals := drainSignals(t, q)
	require.Len(t, signals, 1)
	assert.Equal(t, event.ActionBot, signals[0].Action)
}

func TestMonthlySecondMonthEndLiquidatesThenOpens(t *testing.T) {
	q := bus.NewQueue(16)
	s := NewMonthlyLiquidateRebalance(q, []string{"SPY"})

	oct := time.Date(2016, time.October, 31, 0, 0, 0, 0, time.UTC)
	nov := time.Date(2016, time.November, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.CalculateSignals(bar(oct, "SPY")))
	drainSignals(t, q)

	require.NoError(t, s.CalculateSignals(bar(nov, "SPY")))
	signals := drainSignals(t, q)
	require.Len(t, signals, 2)
	assert.Equal(t, event.ActionExit, signals[0].Action, "liquidation precedes the new allocation")
	assert.Equal(t, event.ActionBot, signals[1].Action)
}

func TestMonthlyInvestedFlagIsMonotonic(t *testing.T) {
	q := bus.NewQueue(16)
	s := NewMonthlyLiquidateRebalance(q, []string{"SPY"})

	require.NoError(t, s.CalculateSignals(bar(time.Date(2016, time.October, 31, 0, 0, 0, 0, time.UTC), "SPY")))
	drainSignals(t, q)

	// Even with the position closed meanwhile, the strategy still emits a
	// liquidation first. The flag never returns to not-invested.
	require.NoError(t, s.CalculateSignals(bar(time.Date(2016, time.November, 30, 0, 0, 0, 0, time.UTC), "SPY")))
	signals := drainSignals(t, q)
	require.Len(t, signals, 2)
	assert.Equal(t, event.ActionExit, signals[0].Action)
}

func TestMonthlyHandlesFebruary(t *testing.T) {
	q := bus.NewQueue(16)
	s := NewMonthlyLiquidateRebalance(q, []string{"SPY"})

	require.NoError(t, s.CalculateSignals(bar(time.Date(2016, time.February, 28, 0, 0, 0, 0, time.UTC), "SPY")))
	assert.Empty(t, drainSignals(t, q), "2016 is a leap year, Feb 28 is not month end")

	require.NoError(t, s.CalculateSignals(bar(time.Date(2016, time.February, 29, 0, 0, 0, 0, time.UTC), "SPY")))
	assert.Len(t, drainSignals(t, q), 1)
}

func TestMonthlyIgnoresUntrackedTicker(t *testing.T) {
	q := bus.NewQueue(16)
	s := NewMonthlyLiquidateRebalance(q, []string{"SPY"})

	require.NoError(t, s.CalculateSignals(bar(time.Date(2016, time.October, 31, 0, 0, 0, 0, time.UTC), "QQQ")))
	assert.Empty(t, drainSignals(t, q))
}

func TestBuyAndHoldSignalsOncePerTicker(t *testing.T) {
	q := bus.NewQueue(16)
	s := NewBuyAndHold(q, []string{"SPY"})

	ts := time.Date(2016, time.October, 3, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.CalculateSignals(bar(ts, "SPY")))
	require.NoError(t, s.CalculateSignals(bar(ts.AddDate(0, 0, 1), "SPY")))

	signals := drainSignals(t, q)
	require.Len(t, signals, 1)
	assert.Equal(t, event.ActionBot, signals[0].Action)
}
