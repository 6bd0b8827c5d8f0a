// Package strategy holds the signal-generating components. Strategies consume
// market events and emit SIGNAL events onto the session queue; they never
// touch portfolio state directly.
package strategy

import "main/internal/event"

// Strategy reacts to market (and sentiment) events by enqueuing signals.
type Strategy interface {
	CalculateSignals(e event.Event) error
}
