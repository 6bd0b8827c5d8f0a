package feed

import (
	"fmt"
	"time"

	"github.com/yanun0323/errors"

	"main/internal/bus"
	"main/internal/event"
	"main/internal/fixed"
)

// SyntheticConfig shapes the generated price series.
type SyntheticConfig struct {
	Tickers   []string
	StartDate time.Time
	Days      int
	// BasePrice is the starting price; each ticker is offset by its index.
	BasePrice fixed.Price
	// DailyDrift is added to every ticker's price each day.
	DailyDrift fixed.Price
}

// SyntheticFeed emits a deterministic daily bar per ticker, round-robin
// within each calendar day. Intended for tests and demos where a CSV data
// directory is not available.
type SyntheticFeed struct {
	cfg    SyntheticConfig
	queue  *bus.Queue
	day    int
	cursor int
	latest map[string]fixed.Price
}

// NewSyntheticFeed validates the config and creates the generator.
func NewSyntheticFeed(cfg SyntheticConfig, queue *bus.Queue) (*SyntheticFeed, error) {
	if len(cfg.Tickers) == 0 {
		return nil, fmt.Errorf("invalid synthetic feed config: no tickers")
	}
	if cfg.Days <= 0 {
		return nil, fmt.Errorf("invalid synthetic feed config: Days must be > 0")
	}
	if cfg.BasePrice <= 0 {
		return nil, fmt.Errorf("invalid synthetic feed config: BasePrice must be > 0")
	}
	if cfg.StartDate.IsZero() {
		return nil, fmt.Errorf("invalid synthetic feed config: StartDate is zero")
	}
	return &SyntheticFeed{
		cfg:    cfg,
		queue:  queue,
		latest: make(map[string]fixed.Price, len(cfg.Tickers)),
	}, nil
}

// StreamNext publishes one generated bar.
func (f *SyntheticFeed) StreamNext() error {
	if !f.Continue() {
		return nil
	}

	ticker := f.cfg.Tickers[f.cursor]
	ts := f.cfg.StartDate.AddDate(0, 0, f.day)
	price := f.cfg.BasePrice +
		fixed.MulShares(fixed.MustParse(1), int64(f.cursor)) +
		fixed.MulShares(f.cfg.DailyDrift, int64(f.day))

	f.cursor++
	if f.cursor == len(f.cfg.Tickers) {
		f.cursor = 0
		f.day++
	}

	f.latest[ticker] = price
	return f.queue.Publish(event.Bar{
		Timestamp: ts,
		Symbol:    ticker,
		Period:    24 * time.Hour,
		Open:      price,
		High:      price,
		Low:       price,
		Close:     price,
		AdjClose:  price,
		Volume:    1,
	})
}

// Continue reports whether more bars remain.
func (f *SyntheticFeed) Continue() bool {
	return f.day < f.cfg.Days
}

// AdjustedPrice returns the latest generated price for a ticker.
func (f *SyntheticFeed) AdjustedPrice(symbol string) (fixed.Price, error) {
	price, ok := f.latest[symbol]
	if !ok {
		return 0, errors.Wrap(ErrPriceUnavailable, symbol)
	}
	return price, nil
}
