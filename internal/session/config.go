package session

import (
	"fmt"
	"time"
)

// Kind selects the continuation rule for the loop.
type Kind uint8

const (
	// KindBacktest runs until the price feed is exhausted.
	KindBacktest Kind = iota
	// KindLive runs until the wall clock passes EndSessionTime.
	KindLive
)

func (k Kind) String() string {
	if k == KindLive {
		return "live"
	}
	return "backtest"
}

// Config carries the session parameters. All fields are validated eagerly at
// construction; a misconfigured session must never start.
type Config struct {
	Kind    Kind
	Tickers []string

	// InitialEquity is the starting account value in display dollars.
	InitialEquity float64

	// EndSessionTime is the wall-clock cutoff, required for live sessions.
	EndSessionTime time.Time

	// QueueCapacity bounds the event queue; zero selects the default.
	QueueCapacity int
}

// DefaultQueueCapacity holds a full day of derived events for a small ticker
// universe with headroom.
const DefaultQueueCapacity = 1024

// Validate checks if the config is usable.
func (c Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("invalid session config: no tickers")
	}
	if c.InitialEquity <= 0 {
		return fmt.Errorf("invalid session config: InitialEquity must be > 0")
	}
	if c.Kind == KindLive && c.EndSessionTime.IsZero() {
		return fmt.Errorf("invalid session config: live session requires EndSessionTime")
	}
	if c.QueueCapacity < 0 {
		return fmt.Errorf("invalid session config: QueueCapacity must be >= 0")
	}
	return nil
}
