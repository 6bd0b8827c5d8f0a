// Package sizer turns unsized trading intentions into concrete share
// quantities against the current account state.
package sizer

import (
	"time"

	"main/internal/event"
	"main/internal/fixed"
)

// State is the portfolio view a sizer is allowed to read. Sizing is pure
// apart from these reads.
type State interface {
	PositionQty(symbol string) int64
	Equity() fixed.Price
	AdjustedPrice(symbol string) (fixed.Price, error)
}

// Intent is an order being sized: a signal resolved (or being resolved) to an
// action and quantity. Sizers return a new Intent rather than mutating the
// input.
type Intent struct {
	Timestamp time.Time
	Symbol    string
	Action    event.Action
	Quantity  int64
}

// PositionSizer sizes an order intent against the current portfolio state.
type PositionSizer interface {
	SizeOrder(state State, intent Intent) (Intent, error)
}

// Fixed sizes every order to a constant default quantity, leaving the action
// untouched. Useful as a baseline sizer.
type Fixed struct {
	DefaultQuantity int64
}

// SizeOrder implements PositionSizer.
func (f Fixed) SizeOrder(_ State, intent Intent) (Intent, error) {
	sized := intent
	sized.Quantity = f.DefaultQuantity
	return sized, nil
}
