package strategy

import (
	"time"

	"main/internal/bus"
	"main/internal/event"
)

// MonthlyLiquidateRebalance emits a full liquidation plus a fresh long signal
// for each ticker on the last calendar day of every month. It must be paired
// with the liquidate-rebalance position sizer.
//
// The invested flag per ticker only suppresses the very first liquidation
// signal; it flips false->true on the first allocation and never returns, even
// if the position is later closed.
type MonthlyLiquidateRebalance struct {
	queue    *bus.Queue
	invested map[string]bool
}

// NewMonthlyLiquidateRebalance creates the strategy for a fixed ticker set.
func NewMonthlyLiquidateRebalance(queue *bus.Queue, tickers []string) *MonthlyLiquidateRebalance {
	invested := make(map[string]bool, len(tickers))
	for _, ticker := range tickers {
		invested[ticker] = false
	}
	return &MonthlyLiquidateRebalance{queue: queue, invested: invested}
}

// CalculateSignals implements Strategy. Non-month-end events are no-ops.
func (s *MonthlyLiquidateRebalance) CalculateSignals(e event.Event) error {
	if e.Type() != event.TypeBar && e.Type() != event.TypeTick {
		return nil
	}
	if !endOfMonth(e.Time()) {
		return nil
	}

	ticker := e.Ticker()
	if _, tracked := s.invested[ticker]; !tracked {
		return nil
	}

	if s.invested[ticker] {
		liquidate := event.Signal{Timestamp: e.Time(), Symbol: ticker, Action: event.ActionExit}
		if err := s.queue.Publish(liquidate); err != nil {
			return err
		}
	}

	long := event.Signal{Timestamp: e.Time(), Symbol: ticker, Action: event.ActionBot}
	if err := s.queue.Publish(long); err != nil {
		return err
	}

	s.invested[ticker] = true
	return nil
}

func endOfMonth(t time.Time) bool {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	return t.Day() == lastDay
}
