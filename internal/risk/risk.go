// Package risk refines sized orders before they reach execution.
package risk

import (
	"github.com/yanun0323/logs"

	"main/internal/fixed"
	"main/internal/sizer"
)

// Manager turns one sized intent into zero or more final order intents.
type Manager interface {
	RefineOrders(sized sizer.Intent) ([]sizer.Intent, error)
}

// Passthrough forwards every sized intent unchanged.
type Passthrough struct{}

// RefineOrders implements Manager.
func (Passthrough) RefineOrders(sized sizer.Intent) ([]sizer.Intent, error) {
	return []sizer.Intent{sized}, nil
}

// DenyReason explains why an order was dropped.
type DenyReason uint8

const (
	DenyNone DenyReason = iota
	DenyKillSwitch
	DenyMaxQty
	DenyMaxNotional
)

func (r DenyReason) String() string {
	switch r {
	case DenyKillSwitch:
		return "kill switch"
	case DenyMaxQty:
		return "max order quantity"
	case DenyMaxNotional:
		return "max order notional"
	default:
		return "none"
	}
}

// Config defines static order limits.
type Config struct {
	KillSwitch       bool
	MaxOrderQty      int64
	MaxOrderNotional fixed.Price
}

// PriceView exposes current adjusted prices for notional checks.
type PriceView interface {
	AdjustedPrice(symbol string) (fixed.Price, error)
}

// LimitChecked drops orders breaching static limits and passes the rest
// through. Denials are logged; a dropped order yields an empty slice, never
// an error, since limits are policy rather than failure.
type LimitChecked struct {
	cfg    Config
	prices PriceView
}

// NewLimitChecked creates a limit-checking manager.
func NewLimitChecked(cfg Config, prices PriceView) *LimitChecked {
	return &LimitChecked{cfg: cfg, prices: prices}
}

// RefineOrders implements Manager.
func (m *LimitChecked) RefineOrders(sized sizer.Intent) ([]sizer.Intent, error) {
	if reason := m.evaluate(sized); reason != DenyNone {
		logs.Warnf("risk: dropped %s %d %s, reason: %s", sized.Action, sized.Quantity, sized.Symbol, reason)
		return nil, nil
	}
	return []sizer.Intent{sized}, nil
}

func (m *LimitChecked) evaluate(sized sizer.Intent) DenyReason {
	if m.cfg.KillSwitch {
		return DenyKillSwitch
	}
	if m.cfg.MaxOrderQty > 0 && sized.Quantity > m.cfg.MaxOrderQty {
		return DenyMaxQty
	}
	if m.cfg.MaxOrderNotional > 0 {
		price, err := m.prices.AdjustedPrice(sized.Symbol)
		if err == nil && fixed.MulShares(price, sized.Quantity) > m.cfg.MaxOrderNotional {
			return DenyMaxNotional
		}
	}
	return DenyNone
}
