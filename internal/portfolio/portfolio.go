// Package portfolio tracks per-ticker positions and account equity, mutated
// only by fills and revaluation. All monetary state is held in the
// fixed-point integer domain.
package portfolio

import (
	"sort"

	"github.com/yanun0323/errors"

	"main/internal/event"
	"main/internal/fixed"
)

// PriceView exposes the current adjusted price per ticker. The price feed is
// the canonical implementation.
type PriceView interface {
	AdjustedPrice(symbol string) (fixed.Price, error)
}

// Portfolio is the account state: cash plus mark-to-market position value.
type Portfolio struct {
	prices    PriceView
	cash      fixed.Price
	equity    fixed.Price
	positions map[string]*Position
}

// New creates a portfolio with the given starting cash.
func New(prices PriceView, initialCash fixed.Price) *Portfolio {
	return &Portfolio{
		prices:    prices,
		cash:      initialCash,
		equity:    initialCash,
		positions: make(map[string]*Position),
	}
}

// OnFill applies an executed trade to cash and the ticker's position.
func (p *Portfolio) OnFill(f event.Fill) error {
	pos, ok := p.positions[f.Symbol]
	if !ok {
		pos = &Position{Symbol: f.Symbol}
		p.positions[f.Symbol] = pos
	}
	if err := pos.ApplyFill(f); err != nil {
		return err
	}

	notional := fixed.MulShares(f.Price, f.Quantity)
	switch f.Action {
	case event.ActionBot:
		p.cash -= notional + f.Commission
	case event.ActionSld:
		p.cash += notional - f.Commission
	}
	return nil
}

// UpdateValue recomputes equity as cash plus the mark-to-market value of
// every position. A held ticker without an available price is a fatal
// configuration error.
func (p *Portfolio) UpdateValue() error {
	equity := p.cash
	for symbol, pos := range p.positions {
		if pos.Quantity == 0 {
			pos.MarketValue = 0
			pos.UnrealizedPnL = 0
			continue
		}
		price, err := p.prices.AdjustedPrice(symbol)
		if err != nil {
			return errors.Wrap(err, "value position "+symbol)
		}
		pos.MarkToMarket(price)
		equity += pos.MarketValue
	}
	p.equity = equity
	return nil
}

// Equity returns the last computed account equity.
func (p *Portfolio) Equity() fixed.Price { return p.equity }

// Cash returns the current cash balance.
func (p *Portfolio) Cash() fixed.Price { return p.cash }

// PositionQty returns the signed share quantity for a ticker, zero if the
// ticker has never been filled.
func (p *Portfolio) PositionQty(symbol string) int64 {
	if pos, ok := p.positions[symbol]; ok {
		return pos.Quantity
	}
	return 0
}

// Position returns the position record for a ticker.
func (p *Portfolio) Position(symbol string) (*Position, bool) {
	pos, ok := p.positions[symbol]
	return pos, ok
}

// AdjustedPrice delegates to the price view so the portfolio satisfies the
// sizing pipeline's state contract.
func (p *Portfolio) AdjustedPrice(symbol string) (fixed.Price, error) {
	return p.prices.AdjustedPrice(symbol)
}

// Symbols lists tickers with a position record, sorted for stable iteration.
func (p *Portfolio) Symbols() []string {
	symbols := make([]string, 0, len(p.positions))
	for symbol := range p.positions {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
