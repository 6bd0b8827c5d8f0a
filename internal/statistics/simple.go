// Package statistics accumulates the equity curve during a session and
// derives summary performance figures from it.
package statistics

import (
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"main/internal/fixed"
	"main/internal/portfolio"
)

// Statistics observes the portfolio after every market event.
type Statistics interface {
	Update(ts time.Time, pf *portfolio.Portfolio) error
	Results() (Summary, error)
}

// EquityPoint is one sample of the equity curve.
type EquityPoint struct {
	Timestamp time.Time
	Equity    float64
}

// Summary is the end-of-session performance report.
type Summary struct {
	Sharpe           float64
	MaxDrawdownPct   float64
	CumulativeReturn float64
	FinalEquity      float64
	EquityCurve      []EquityPoint
}

// Simple tracks equity over time and computes an annualized Sharpe ratio and
// maximum drawdown. Periods defaults to 252 (daily bars).
type Simple struct {
	periods float64
	curve   []EquityPoint
}

// NewSimple creates the collector. periodsPerYear <= 0 selects the daily
// default.
func NewSimple(periodsPerYear int) *Simple {
	periods := float64(periodsPerYear)
	if periodsPerYear <= 0 {
		periods = 252
	}
	return &Simple{periods: periods}
}

// Update implements Statistics. Equity leaves the integer domain here, at the
// reporting boundary.
func (s *Simple) Update(ts time.Time, pf *portfolio.Portfolio) error {
	s.curve = append(s.curve, EquityPoint{Timestamp: ts, Equity: fixed.Display(pf.Equity())})
	return nil
}

// Results implements Statistics.
func (s *Simple) Results() (Summary, error) {
	if len(s.curve) == 0 {
		return Summary{}, fmt.Errorf("statistics: no equity samples recorded")
	}

	first := s.curve[0].Equity
	last := s.curve[len(s.curve)-1].Equity

	summary := Summary{
		MaxDrawdownPct: maxDrawdown(s.curve),
		FinalEquity:    last,
		EquityCurve:    s.curve,
	}
	if first != 0 {
		summary.CumulativeReturn = last/first - 1
	}

	returns := periodReturns(s.curve)
	if len(returns) >= 2 {
		mean, err := stats.Mean(returns)
		if err != nil {
			return Summary{}, err
		}
		stdev, err := stats.StandardDeviationSample(returns)
		if err != nil {
			return Summary{}, err
		}
		if stdev > 0 {
			summary.Sharpe = math.Sqrt(s.periods) * mean / stdev
		}
	}
	return summary, nil
}

func periodReturns(curve []EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, curve[i].Equity/prev-1)
	}
	return returns
}

func maxDrawdown(curve []EquityPoint) float64 {
	var peak, worst float64
	for _, point := range curve {
		if point.Equity > peak {
			peak = point.Equity
		}
		if peak <= 0 {
			continue
		}
		dd := (peak - point.Equity) / peak
		if dd > worst {
			worst = dd
		}
	}
	return worst
}
