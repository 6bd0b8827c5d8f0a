// Package store persists completed session results to PostgreSQL. It is
// optional: a session runs identically without it.
package store

import (
	"strings"
	"time"

	"github.com/yanun0323/errors"
	"gorm.io/gorm"

	"main/internal/event"
	"main/internal/fixed"
	"main/internal/statistics"
)

// Run is one persisted backtest result.
type Run struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Title            string
	Tickers          string
	InitialEquity    float64
	FinalEquity      float64
	Sharpe           float64
	MaxDrawdownPct   float64
	CumulativeReturn float64

	Trades []Trade `gorm:"foreignKey:RunID"`
}

// Trade is one executed fill belonging to a run.
type Trade struct {
	ID    uint `gorm:"primaryKey"`
	RunID uint `gorm:"index"`

	Timestamp  time.Time
	Ticker     string
	Action     string
	Quantity   int64
	Price      float64
	Commission float64
}

// Recorder collects fills during a session so they can be persisted with the
// run. It satisfies the execution compliance hook.
type Recorder struct {
	fills []event.Fill
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordTrade implements the compliance hook.
func (r *Recorder) RecordTrade(fill event.Fill) error {
	r.fills = append(r.fills, fill)
	return nil
}

// Fills returns the collected fills in execution order.
func (r *Recorder) Fills() []event.Fill {
	return r.fills
}

// Store writes runs through a gorm connection.
type Store struct {
	db *gorm.DB
}

// New migrates the schema and returns the store.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Run{}, &Trade{}); err != nil {
		return nil, errors.Wrap(err, "migrate result store")
	}
	return &Store{db: db}, nil
}

// SaveRun persists one session summary and its trades, returning the run ID.
func (s *Store) SaveRun(title string, tickers []string, initialEquity float64, summary statistics.Summary, fills []event.Fill) (uint, error) {
	run := Run{
		Title:            title,
		Tickers:          strings.Join(tickers, ","),
		InitialEquity:    initialEquity,
		FinalEquity:      summary.FinalEquity,
		Sharpe:           summary.Sharpe,
		MaxDrawdownPct:   summary.MaxDrawdownPct,
		CumulativeReturn: summary.CumulativeReturn,
		Trades:           make([]Trade, 0, len(fills)),
	}
	for _, fill := range fills {
		run.Trades = append(run.Trades, Trade{
			Timestamp:  fill.Timestamp,
			Ticker:     fill.Symbol,
			Action:     fill.Action.String(),
			Quantity:   fill.Quantity,
			Price:      fixed.Display(fill.Price),
			Commission: fixed.Display(fill.Commission),
		})
	}

	if err := s.db.Create(&run).Error; err != nil {
		return 0, errors.Wrap(err, "save run")
	}
	return run.ID, nil
}
