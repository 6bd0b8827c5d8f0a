package sizer

import (
	stderrors "errors"
	"math"

	"github.com/yanun0323/errors"

	"main/internal/event"
	"main/internal/fixed"
)

var (
	ErrMissingWeight = stderrors.New("no target weight for ticker")
	ErrMissingPrice  = stderrors.New("no price available for ticker")
)

// LiquidateRebalance carries out periodic full liquidation and dollar-weighted
// rebalancing. An EXIT intent is netted against the current signed position;
// an open intent is sized to floor(weight * equity / price).
//
// Each intent reads equity at its own sizing moment, not a snapshot taken at
// the start of the rebalance batch, so sequentially sized orders within one
// timestamp can skew intended proportions slightly. This is intended behavior.
type LiquidateRebalance struct {
	weights map[string]float64
}

// NewLiquidateRebalance builds the sizer with an immutable ticker weight
// table. Weights are fractional (0.0-1.0) and need not sum to 1.
func NewLiquidateRebalance(weights map[string]float64) *LiquidateRebalance {
	copied := make(map[string]float64, len(weights))
	for ticker, w := range weights {
		copied[ticker] = w
	}
	return &LiquidateRebalance{weights: copied}
}

// SizeOrder implements PositionSizer.
func (s *LiquidateRebalance) SizeOrder(state State, intent Intent) (Intent, error) {
	sized := intent

	if intent.Action == event.ActionExit {
		// Net the position to exactly zero regardless of sign.
		qty := state.PositionQty(intent.Symbol)
		if qty > 0 {
			sized.Action = event.ActionSld
			sized.Quantity = qty
		} else {
			sized.Action = event.ActionBot
			sized.Quantity = -qty
		}
		return sized, nil
	}

	weight, ok := s.weights[intent.Symbol]
	if !ok {
		return Intent{}, errors.Wrap(ErrMissingWeight, intent.Symbol)
	}
	price, err := state.AdjustedPrice(intent.Symbol)
	if err != nil {
		return Intent{}, errors.Wrap(ErrMissingPrice, intent.Symbol)
	}
	if price <= 0 {
		return Intent{}, errors.Wrap(ErrMissingPrice, intent.Symbol+" non-positive")
	}

	// Dollar targeting happens in the display domain; the floor keeps the
	// allocation within available equity, never rounding up.
	dollarTarget := weight * fixed.Display(state.Equity())
	sized.Quantity = int64(math.Floor(dollarTarget / fixed.Display(price)))
	return sized, nil
}
