// Package feed supplies chronological market events to the session queue and
// exposes the current adjusted price per ticker for valuation and sizing.
package feed

import (
	"errors"

	"main/internal/fixed"
)

// ErrPriceUnavailable is returned when a ticker has not streamed a price yet.
var ErrPriceUnavailable = errors.New("no price available for ticker")

// PriceFeed advances the market replay one step at a time. StreamNext may
// enqueue zero or more BAR/TICK events; Continue reports whether more data
// remains (exhaustion is the normal backtest termination signal, not an
// error).
type PriceFeed interface {
	StreamNext() error
	Continue() bool
	AdjustedPrice(symbol string) (fixed.Price, error)
}
