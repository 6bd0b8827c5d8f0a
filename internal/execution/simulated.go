// Package execution simulates order execution against the current market.
package execution

import (
	"math"

	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/event"
	"main/internal/fixed"
	"main/internal/portfolio"
)

// Handler executes a sized order, side-effecting only via enqueued fills.
type Handler interface {
	ExecuteOrder(order event.Order) error
}

// ComplianceHook receives each fill for audit; nil disables recording.
type ComplianceHook interface {
	RecordTrade(fill event.Fill) error
}

// Simulated fills every order immediately at the ticker's current adjusted
// price with an IB-style commission. Slippage and partial fills are not
// modeled.
type Simulated struct {
	queue      *bus.Queue
	prices     portfolio.PriceView
	compliance ComplianceHook
	exchange   string
}

// NewSimulated creates the simulated handler.
func NewSimulated(queue *bus.Queue, prices portfolio.PriceView, compliance ComplianceHook) *Simulated {
	return &Simulated{
		queue:      queue,
		prices:     prices,
		compliance: compliance,
		exchange:   "ARCA",
	}
}

// ExecuteOrder implements Handler. Zero-quantity orders are valid no-ops:
// they produce no fill.
func (s *Simulated) ExecuteOrder(order event.Order) error {
	if order.Quantity == 0 {
		logs.Debugf("execution: %s zero-quantity order skipped", order.Symbol)
		return nil
	}

	price, err := s.prices.AdjustedPrice(order.Symbol)
	if err != nil {
		return err
	}

	fill := event.Fill{
		Timestamp:  order.Timestamp,
		Symbol:     order.Symbol,
		Action:     order.Action,
		Quantity:   order.Quantity,
		Exchange:   s.exchange,
		Price:      price,
		Commission: Commission(order.Quantity, price),
	}

	if err := s.queue.Publish(fill); err != nil {
		return err
	}
	if s.compliance != nil {
		return s.compliance.RecordTrade(fill)
	}
	return nil
}

// Commission approximates Interactive Brokers' North America fixed pricing:
// $0.005 per share with a $1.00 minimum, capped at 0.5% of trade value.
func Commission(quantity int64, price fixed.Price) fixed.Price {
	shares := float64(quantity)
	commission := math.Max(1.0, 0.005*shares)
	if ceiling := 0.005 * shares * fixed.Display(price); ceiling < commission {
		commission = ceiling
	}
	return fixed.MustParse(commission)
}
