// Package obs collects lightweight counters for the session loop. Counters
// are atomic so a snapshot can be read while a live session runs.
package obs

import (
	"sync/atomic"
	"time"

	"main/internal/event"
)

const maxEventType = int(event.TypeFill)

// Metrics collects per-event-type counters and dispatch latency stats.
type Metrics struct {
	eventCounts [maxEventType + 1]uint64
	feedSteps   uint64

	dispatchLatency LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	EventCounts     map[event.Type]uint64
	FeedSteps       uint64
	DispatchLatency LatencySnapshot
}

// NewMetrics creates an empty collector.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// CountEvent increments the counter for a dispatched event type.
func (m *Metrics) CountEvent(t event.Type) {
	if int(t) > maxEventType {
		return
	}
	atomic.AddUint64(&m.eventCounts[t], 1)
}

// CountFeedStep increments the feed-advance counter.
func (m *Metrics) CountFeedStep() {
	atomic.AddUint64(&m.feedSteps, 1)
}

// ObserveDispatch records the duration of one dispatch step.
func (m *Metrics) ObserveDispatch(d time.Duration) {
	m.dispatchLatency.observe(uint64(d))
}

// Snapshot returns the current values.
func (m *Metrics) Snapshot() Snapshot {
	counts := make(map[event.Type]uint64, maxEventType)
	for i := 1; i <= maxEventType; i++ {
		if c := atomic.LoadUint64(&m.eventCounts[i]); c > 0 {
			counts[event.Type(i)] = c
		}
	}
	return Snapshot{
		EventCounts:     counts,
		FeedSteps:       atomic.LoadUint64(&m.feedSteps),
		DispatchLatency: m.dispatchLatency.snapshot(),
	}
}

func (s *LatencyStats) observe(ns uint64) {
	atomic.AddUint64(&s.count, 1)
	atomic.AddUint64(&s.sum, ns)
	for {
		cur := atomic.LoadUint64(&s.min)
		if cur != 0 && ns >= cur {
			break
		}
		if atomic.CompareAndSwapUint64(&s.min, cur, ns) {
			break
		}
	}
	for {
		cur := atomic.LoadUint64(&s.max)
		if ns <= cur {
			break
		}
		if atomic.CompareAndSwapUint64(&s.max, cur, ns) {
			break
		}
	}
}

func (s *LatencyStats) snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&s.count)
	snap := LatencySnapshot{
		Count: count,
		Min:   time.Duration(atomic.LoadUint64(&s.min)),
		Max:   time.Duration(atomic.LoadUint64(&s.max)),
	}
	if count > 0 {
		snap.Avg = time.Duration(atomic.LoadUint64(&s.sum) / count)
	}
	return snap
}
