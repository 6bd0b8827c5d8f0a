package portfolio

import (
	"fmt"

	"main/internal/event"
	"main/internal/fixed"
)

// Position is the per-ticker record of signed share quantity, cost basis and
// PnL. Positions are created on the first fill for a ticker and never
// deleted; the quantity may return to zero.
type Position struct {
	Symbol string

	// Quantity is signed: positive long, negative short.
	Quantity int64
	// AvgPrice is the average cost basis per share of the open position.
	AvgPrice fixed.Price

	RealizedPnL     fixed.Price
	UnrealizedPnL   fixed.Price
	TotalCommission fixed.Price
	MarketValue     fixed.Price
}

// ApplyFill mutates the position for one executed trade. Averaging-in keeps a
// volume-weighted cost basis; reducing trades realize PnL against it; a fill
// that crosses zero realizes the closed side and re-opens at the fill price.
func (p *Position) ApplyFill(f event.Fill) error {
	var signed int64
	switch f.Action {
	case event.ActionBot:
		signed = f.Quantity
	case event.ActionSld:
		signed = -f.Quantity
	default:
		return fmt.Errorf("position %s: unexpected fill action %s", p.Symbol, f.Action)
	}

	p.TotalCommission += f.Commission
	p.RealizedPnL -= f.Commission

	old := p.Quantity
	next := old + signed

	switch {
	case old == 0 || sameSign(old, signed):
		// Opening or adding: volume-weighted average entry.
		total := abs(old) + abs(signed)
		p.AvgPrice = fixed.Price((int64(p.AvgPrice)*abs(old) + int64(f.Price)*abs(signed)) / total)
	case sameSign(old, next) || next == 0:
		// Reducing toward zero: realize on the closed shares.
		closed := abs(signed)
		p.RealizedPnL += perShareGain(old, p.AvgPrice, f.Price) * fixed.Price(closed)
		if next == 0 {
			p.AvgPrice = 0
		}
	default:
		// Crossing zero: close out the old side, open the remainder fresh.
		p.RealizedPnL += perShareGain(old, p.AvgPrice, f.Price) * fixed.Price(abs(old))
		p.AvgPrice = f.Price
	}

	p.Quantity = next
	p.MarkToMarket(f.Price)
	return nil
}

// MarkToMarket revalues the position against the given price.
func (p *Position) MarkToMarket(price fixed.Price) {
	p.MarketValue = fixed.MulShares(price, p.Quantity)
	p.UnrealizedPnL = fixed.MulShares(price-p.AvgPrice, p.Quantity)
}

// perShareGain is the realized gain per closed share for a position whose
// signed quantity was held at avg and closed at price.
func perShareGain(held int64, avg, price fixed.Price) fixed.Price {
	if held > 0 {
		return price - avg
	}
	return avg - price
}

func sameSign(a, b int64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
