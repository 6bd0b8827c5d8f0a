// Package event defines the closed set of events flowing through the
// simulation queue. Events are immutable values; the sizing pipeline builds a
// new order rather than rewriting one in flight.
package event

import (
	"time"

	"main/internal/fixed"
)

// Type tags each event variant.
type Type uint16

const (
	TypeUnknown Type = iota
	TypeBar
	TypeTick
	TypeSentiment
	TypeSignal
	TypeOrder
	TypeFill
)

func (t Type) String() string {
	switch t {
	case TypeBar:
		return "BAR"
	case TypeTick:
		return "TICK"
	case TypeSentiment:
		return "SENTIMENT"
	case TypeSignal:
		return "SIGNAL"
	case TypeOrder:
		return "ORDER"
	case TypeFill:
		return "FILL"
	default:
		return "UNKNOWN"
	}
}

// Action is the trading intention carried by signals, orders and fills.
type Action uint8

const (
	ActionUnknown Action = iota
	// ActionBot buys (or buys to close a short).
	ActionBot
	// ActionSld sells (or sells to close a long).
	ActionSld
	// ActionExit requests netting the position to zero; it only appears on
	// signals, never on sized orders.
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionBot:
		return "BOT"
	case ActionSld:
		return "SLD"
	case ActionExit:
		return "EXIT"
	default:
		return "UNKNOWN"
	}
}

// Event is the unit passed through the queue.
type Event interface {
	Type() Type
	Time() time.Time
	Ticker() string
}

// Bar is a single OHLCV observation for one ticker.
type Bar struct {
	Timestamp time.Time
	Symbol    string
	Period    time.Duration

	Open     fixed.Price
	High     fixed.Price
	Low      fixed.Price
	Close    fixed.Price
	AdjClose fixed.Price
	Volume   int64
}

func (b Bar) Type() Type      { return TypeBar }
func (b Bar) Time() time.Time { return b.Timestamp }
func (b Bar) Ticker() string  { return b.Symbol }

// Tick is a top-of-book observation for one ticker.
type Tick struct {
	Timestamp time.Time
	Symbol    string

	Bid fixed.Price
	Ask fixed.Price
}

func (t Tick) Type() Type      { return TypeTick }
func (t Tick) Time() time.Time { return t.Timestamp }
func (t Tick) Ticker() string  { return t.Symbol }

// Mid returns the bid/ask midpoint.
func (t Tick) Mid() fixed.Price {
	return (t.Bid + t.Ask) / 2
}

// Sentiment carries an external sentiment score for one ticker.
type Sentiment struct {
	Timestamp time.Time
	Symbol    string
	Score     float64
}

func (s Sentiment) Type() Type      { return TypeSentiment }
func (s Sentiment) Time() time.Time { return s.Timestamp }
func (s Sentiment) Ticker() string  { return s.Symbol }

// Signal is an unsized trading intention emitted by a strategy.
type Signal struct {
	Timestamp time.Time
	Symbol    string
	Action    Action
	// SuggestedQty is advisory; sizers may ignore it.
	SuggestedQty int64
}

func (s Signal) Type() Type      { return TypeSignal }
func (s Signal) Time() time.Time { return s.Timestamp }
func (s Signal) Ticker() string  { return s.Symbol }

// Order is a signal resolved to a concrete share quantity.
type Order struct {
	Timestamp time.Time
	Symbol    string
	Action    Action
	Quantity  int64
}

func (o Order) Type() Type      { return TypeOrder }
func (o Order) Time() time.Time { return o.Timestamp }
func (o Order) Ticker() string  { return o.Symbol }

// Fill is the execution result of an order.
type Fill struct {
	Timestamp time.Time
	Symbol    string
	Action    Action
	Quantity  int64
	Exchange  string

	Price      fixed.Price
	Commission fixed.Price
}

func (f Fill) Type() Type      { return TypeFill }
func (f Fill) Time() time.Time { return f.Timestamp }
func (f Fill) Ticker() string  { return f.Symbol }
