package bus

import (
	"testing"
	"time"

	"main/internal/event"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(4)
	now := time.Now()
	for _, symbol := range []string{"SPY", "AGG", "QQQ"} {
		if err := q.Publish(event.Signal{Timestamp: now, Symbol: symbol, Action: event.ActionBot}); err != nil {
			t.Fatalf("publish %s: %v", symbol, err)
		}
	}

	for _, want := range []string{"SPY", "AGG", "QQQ"} {
		e, ok := q.TryPop()
		if !ok {
			t.Fatal("queue drained early")
		}
		if e.Ticker() != want {
			t.Fatalf("out of order: got %s want %s", e.Ticker(), want)
		}
	}

	if _, ok := q.TryPop(); ok {
		t.Fatal("pop from empty queue should report empty")
	}
}

func TestQueueFull(t *testing.T) {
	q := NewQueue(1)
	if err := q.Publish(event.Tick{Symbol: "SPY"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := q.Publish(event.Tick{Symbol: "AGG"}); err != ErrQueueFull {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestQueueClosed(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	if err := q.Publish(event.Tick{Symbol: "SPY"}); err != ErrQueueClosed {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}
