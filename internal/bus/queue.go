// Package bus provides the in-memory event queue shared by all session
// collaborators. The scheduler is the only consumer; producers and consumer
// run on the same goroutine, so ordering is the channel's FIFO ordering.
package bus

import (
	"errors"
	"sync/atomic"

	"main/internal/event"
)

var (
	ErrQueueFull   = errors.New("event queue full")
	ErrQueueClosed = errors.New("event queue closed")
)

// Queue is a bounded, non-blocking event queue.
type Queue struct {
	ch     chan event.Event
	closed uint32
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &Queue{ch: make(chan event.Event, capacity)}
}

// Publish enqueues an event without blocking.
func (q *Queue) Publish(e event.Event) error {
	if atomic.LoadUint32(&q.closed) != 0 {
		return ErrQueueClosed
	}
	select {
	case q.ch <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// TryPop dequeues the next event without blocking. The second return value
// reports whether an event was available.
func (q *Queue) TryPop() (event.Event, bool) {
	select {
	case e, ok := <-q.ch:
		if !ok {
			return nil, false
		}
		return e, true
	default:
		return nil, false
	}
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Close stops the queue from accepting new events.
func (q *Queue) Close() {
	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}
