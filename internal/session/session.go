// Package session runs the event scheduling loop: it pulls events from the
// queue, advances the price feed when the queue is empty, and dispatches each
// event to the right collaborator in a fixed priority order.
//
// The loop is single-threaded and strictly synchronous. Every dispatch step,
// including the chain of derived events it enqueues, completes before
// simulated time advances; that is what keeps the sizing and netting
// invariants intact.
package session

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/event"
	"main/internal/execution"
	"main/internal/feed"
	"main/internal/obs"
	"main/internal/portfolio"
	"main/internal/sentiment"
	"main/internal/statistics"
	"main/internal/strategy"
)

// ErrUnsupportedEvent aborts the loop: an unknown event kind reaching the
// scheduler is a programming error, never a runtime condition to recover
// from.
var ErrUnsupportedEvent = stderrors.New("unsupported event type")

// Session composes the collaborators around the scheduling loop. All
// collaborators are injected at construction.
type Session struct {
	cfg        Config
	queue      *bus.Queue
	priceFeed  feed.PriceFeed
	strat      strategy.Strategy
	handler    *portfolio.Handler
	exec       execution.Handler
	stats      statistics.Statistics
	sentiments sentiment.Feed
	metrics    *obs.Metrics
	now        func() time.Time

	currentTime time.Time
}

// New validates the config and wires the session.
func New(
	cfg Config,
	queue *bus.Queue,
	priceFeed feed.PriceFeed,
	strat strategy.Strategy,
	handler *portfolio.Handler,
	exec execution.Handler,
	stats statistics.Statistics,
) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		cfg:       cfg,
		queue:     queue,
		priceFeed: priceFeed,
		strat:     strat,
		handler:   handler,
		exec:      exec,
		stats:     stats,
		now:       time.Now,
	}, nil
}

// WithSentiment attaches an optional sentiment feed.
func (s *Session) WithSentiment(f sentiment.Feed) *Session {
	s.sentiments = f
	return s
}

// WithMetrics attaches an optional metrics collector.
func (s *Session) WithMetrics(m *obs.Metrics) *Session {
	s.metrics = m
	return s
}

// WithClock swaps the wall clock used for the live cutoff.
func (s *Session) WithClock(now func() time.Time) *Session {
	if now != nil {
		s.now = now
	}
	return s
}

// CurrentTime returns the current simulation time, set by the latest market
// event.
func (s *Session) CurrentTime() time.Time {
	return s.currentTime
}

// Run drives the loop to completion and returns the session's performance
// summary. The context is checked once per iteration; there is no
// mid-dispatch cancellation.
func (s *Session) Run(ctx context.Context) (statistics.Summary, error) {
	if s.cfg.Kind == KindBacktest {
		logs.Info("running backtest session")
	} else {
		logs.Infof("running live session until %s", s.cfg.EndSessionTime)
	}

	for s.continueLoop() {
		if err := ctx.Err(); err != nil {
			return statistics.Summary{}, err
		}

		e, ok := s.queue.TryPop()
		if !ok {
			if s.metrics != nil {
				s.metrics.CountFeedStep()
			}
			if err := s.priceFeed.StreamNext(); err != nil {
				return statistics.Summary{}, errors.Wrap(err, "advance price feed")
			}
			continue
		}

		start := time.Now()
		if err := s.dispatch(e); err != nil {
			return statistics.Summary{}, err
		}
		if s.metrics != nil {
			s.metrics.CountEvent(e.Type())
			s.metrics.ObserveDispatch(time.Since(start))
		}
	}

	if s.metrics != nil {
		snap := s.metrics.Snapshot()
		logs.Infof("session processed %v events, %d feed steps", snap.EventCounts, snap.FeedSteps)
	}

	results, err := s.stats.Results()
	if err != nil {
		return statistics.Summary{}, err
	}
	logs.Infof("session complete: sharpe %.2f, max drawdown %.2f%%", results.Sharpe, results.MaxDrawdownPct*100)
	return results, nil
}

// continueLoop decides backtest-vs-live continuation. A backtest keeps going
// while the feed has data or derived events are still queued, so the
// consequences of the final bar are fully processed; feed exhaustion is the
// normal termination signal, not an error.
func (s *Session) continueLoop() bool {
	if s.cfg.Kind == KindBacktest {
		return s.priceFeed.Continue() || s.queue.Len() > 0
	}
	return s.now().Before(s.cfg.EndSessionTime)
}

// dispatch routes one event in the fixed priority order. Later event types
// depend on earlier ones having been applied for the same timestamp, so the
// ordering here is never changed.
func (s *Session) dispatch(e event.Event) error {
	switch e.Type() {
	case event.TypeBar, event.TypeTick:
		return s.onMarket(e)
	case event.TypeSentiment:
		return s.strat.CalculateSignals(e)
	case event.TypeSignal:
		sig, ok := e.(event.Signal)
		if !ok {
			return errors.Wrap(ErrUnsupportedEvent, "malformed signal")
		}
		return s.handler.OnSignal(sig)
	case event.TypeOrder:
		order, ok := e.(event.Order)
		if !ok {
			return errors.Wrap(ErrUnsupportedEvent, "malformed order")
		}
		return s.exec.ExecuteOrder(order)
	case event.TypeFill:
		fill, ok := e.(event.Fill)
		if !ok {
			return errors.Wrap(ErrUnsupportedEvent, "malformed fill")
		}
		return s.handler.OnFill(fill)
	default:
		return errors.Wrap(ErrUnsupportedEvent, e.Type().String())
	}
}

// onMarket handles a BAR/TICK: advance simulated time, release sentiment for
// that timestamp, let the strategy react, revalue the account, then record
// the valuation.
func (s *Session) onMarket(e event.Event) error {
	s.currentTime = e.Time()

	if s.sentiments != nil {
		if err := s.sentiments.StreamNext(s.currentTime); err != nil {
			return errors.Wrap(err, "advance sentiment feed")
		}
	}
	if err := s.strat.CalculateSignals(e); err != nil {
		return errors.Wrap(err, "calculate signals")
	}
	if err := s.handler.UpdateValue(); err != nil {
		return errors.Wrap(err, "update portfolio value")
	}
	return s.stats.Update(e.Time(), s.handler.Portfolio())
}
