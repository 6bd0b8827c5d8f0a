package portfolio

import (
	"main/internal/bus"
	"main/internal/event"
	"main/internal/risk"
	"main/internal/sizer"
)

// Handler connects the signal flow to the portfolio: it sizes incoming
// signals, refines them through the risk manager and enqueues the resulting
// orders, and applies fills back onto the account state.
type Handler struct {
	queue     *bus.Queue
	portfolio *Portfolio
	sizer     sizer.PositionSizer
	risk      risk.Manager
}

// NewHandler wires the sizing pipeline around a portfolio.
func NewHandler(queue *bus.Queue, pf *Portfolio, positionSizer sizer.PositionSizer, riskManager risk.Manager) *Handler {
	return &Handler{
		queue:     queue,
		portfolio: pf,
		sizer:     positionSizer,
		risk:      riskManager,
	}
}

// OnSignal sizes a signal into a new order value and enqueues it. The signal
// itself is never rewritten.
func (h *Handler) OnSignal(sig event.Signal) error {
	intent := sizer.Intent{
		Timestamp: sig.Timestamp,
		Symbol:    sig.Symbol,
		Action:    sig.Action,
		Quantity:  sig.SuggestedQty,
	}

	sized, err := h.sizer.SizeOrder(h.portfolio, intent)
	if err != nil {
		return err
	}

	refined, err := h.risk.RefineOrders(sized)
	if err != nil {
		return err
	}

	for _, it := range refined {
		order := event.Order{
			Timestamp: it.Timestamp,
			Symbol:    it.Symbol,
			Action:    it.Action,
			Quantity:  it.Quantity,
		}
		if err := h.queue.Publish(order); err != nil {
			return err
		}
	}
	return nil
}

// OnFill applies an executed trade and revalues the account.
func (h *Handler) OnFill(f event.Fill) error {
	if err := h.portfolio.OnFill(f); err != nil {
		return err
	}
	return h.portfolio.UpdateValue()
}

// UpdateValue recomputes the mark-to-market account equity.
func (h *Handler) UpdateValue() error {
	return h.portfolio.UpdateValue()
}

// Portfolio exposes the underlying account state.
func (h *Handler) Portfolio() *Portfolio {
	return h.portfolio
}
