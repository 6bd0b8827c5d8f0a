package strategy

import (
	"main/internal/bus"
	"main/internal/event"
)

// BuyAndHold emits a single long signal per ticker on its first bar or tick
// and stays silent afterwards.
type BuyAndHold struct {
	queue    *bus.Queue
	invested map[string]bool
}

// NewBuyAndHold creates the strategy for a fixed ticker set.
func NewBuyAndHold(queue *bus.Queue, tickers []string) *BuyAndHold {
	invested := make(map[string]bool, len(tickers))
	for _, ticker := range tickers {
		invested[ticker] = false
	}
	return &BuyAndHold{queue: queue, invested: invested}
}

// CalculateSignals implements Strategy.
func (s *BuyAndHold) CalculateSignals(e event.Event) error {
	if e.Type() != event.TypeBar && e.Type() != event.TypeTick {
		return nil
	}
	ticker := e.Ticker()
	done, tracked := s.invested[ticker]
	if !tracked || done {
		return nil
	}

	long := event.Signal{Timestamp: e.Time(), Symbol: ticker, Action: event.ActionBot}
	if err := s.queue.Publish(long); err != nil {
		return err
	}
	s.invested[ticker] = true
	return nil
}
