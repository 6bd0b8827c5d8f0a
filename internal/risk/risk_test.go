package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/event"
	"main/internal/fixed"
	"main/internal/sizer"
)

type stubPrices map[string]fixed.Price

func (s stubPrices) AdjustedPrice(symbol string) (fixed.Price, error) {
	price, ok := s[symbol]
	if !ok {
		return 0, assert.AnError
	}
	return price, nil
}

func TestPassthroughKeepsOrder(t *testing.T) {
	sized := sizer.Intent{Symbol: "SPY", Action: event.ActionBot, Quantity: 100}
	out, err := Passthrough{}.RefineOrders(sized)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, sized, out[0])
}

func TestLimitCheckedKillSwitchDropsAll(t *testing.T) {
	m := NewLimitChecked(Config{KillSwitch: true}, stubPrices{})
	out, err := m.RefineOrders(sizer.Intent{Symbol: "SPY", Action: event.ActionBot, Quantity: 1})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLimitCheckedMaxQty(t *testing.T) {
	m := NewLimitChecked(Config{MaxOrderQty: 500}, stubPrices{})

	out, err := m.RefineOrders(sizer.Intent{Symbol: "SPY", Action: event.ActionBot, Quantity: 500})
	require.NoError(t, err)
	assert.Len(t, out, 1, "at the limit passes")

	out, err = m.RefineOrders(sizer.Intent{Symbol: "SPY", Action: event.ActionBot, Quantity: 501})
	require.NoError(t, err)
	assert.Empty(t, out, "over the limit drops")
}

func TestLimitCheckedMaxNotional(t *testing.T) {
	prices := stubPrices{"SPY": fixed.MustParse(100)}
	m := NewLimitChecked(Config{MaxOrderNotional: fixed.MustParse(10000)}, prices)

	out, err := m.RefineOrders(sizer.Intent{Symbol: "SPY", Action: event.ActionBot, Quantity: 100})
	require.NoError(t, err)
	assert.Len(t, out, 1)

	out, err = m.RefineOrders(sizer.Intent{Symbol: "SPY", Action: event.ActionBot, Quantity: 101})
	require.NoError(t, err)
	assert.Empty(t, out)
}
