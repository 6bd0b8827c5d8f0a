package feed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/event"
	"main/internal/fixed"
)

const dateLayout = "2006-01-02"

// CSVDailyBarConfig locates and bounds the historical data set.
type CSVDailyBarConfig struct {
	Dir     string
	Tickers []string
	// StartDate/EndDate bound the replay; zero values mean unbounded.
	StartDate time.Time
	EndDate   time.Time
}

// Validate checks if the config is usable.
func (c CSVDailyBarConfig) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("invalid csv feed config: Dir is empty")
	}
	if len(c.Tickers) == 0 {
		return fmt.Errorf("invalid csv feed config: no tickers")
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.EndDate.Before(c.StartDate) {
		return fmt.Errorf("invalid csv feed config: EndDate before StartDate")
	}
	return nil
}

// CSVDailyBarFeed replays Yahoo-style daily bar files
// (Date,Open,High,Low,Close,Adj Close,Volume), one `<TICKER>.csv` per ticker,
// merged into a single chronological stream. Each StreamNext emits exactly
// one bar and records its adjusted close as the ticker's current price.
type CSVDailyBarFeed struct {
	queue  *bus.Queue
	bars   []event.Bar
	index  int
	latest map[string]fixed.Price
}

// NewCSVDailyBarFeed loads and merges all ticker files eagerly. Load failures
// are fatal: a session built on missing data must not start.
func NewCSVDailyBarFeed(cfg CSVDailyBarConfig, queue *bus.Queue) (*CSVDailyBarFeed, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var bars []event.Bar
	for _, ticker := range cfg.Tickers {
		path := filepath.Join(cfg.Dir, ticker+".csv")
		tickerBars, err := loadBarFile(path, ticker, cfg.StartDate, cfg.EndDate)
		if err != nil {
			return nil, errors.Wrap(err, "load "+ticker)
		}
		bars = append(bars, tickerBars...)
	}

	sort.SliceStable(bars, func(i, j int) bool {
		if !bars[i].Timestamp.Equal(bars[j].Timestamp) {
			return bars[i].Timestamp.Before(bars[j].Timestamp)
		}
		return bars[i].Symbol < bars[j].Symbol
	})

	logs.Infof("csv feed loaded %d bars for %d tickers from %s", len(bars), len(cfg.Tickers), cfg.Dir)
	return &CSVDailyBarFeed{
		queue:  queue,
		bars:   bars,
		latest: make(map[string]fixed.Price, len(cfg.Tickers)),
	}, nil
}

// StreamNext publishes the next bar in timestamp order.
func (f *CSVDailyBarFeed) StreamNext() error {
	if !f.Continue() {
		return nil
	}
	bar := f.bars[f.index]
	f.index++

	// The price must be visible before the event is dispatched so sizing on
	// the same timestamp sees it.
	f.latest[bar.Symbol] = bar.AdjClose
	return f.queue.Publish(bar)
}

// Continue reports whether more bars remain.
func (f *CSVDailyBarFeed) Continue() bool {
	return f.index < len(f.bars)
}

// AdjustedPrice returns the latest adjusted close streamed for a ticker.
func (f *CSVDailyBarFeed) AdjustedPrice(symbol string) (fixed.Price, error) {
	price, ok := f.latest[symbol]
	if !ok {
		return 0, errors.Wrap(ErrPriceUnavailable, symbol)
	}
	return price, nil
}

func loadBarFile(path, ticker string, start, end time.Time) ([]event.Bar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	var bars []event.Bar
	for i, row := range rows[1:] {
		bar, err := parseBarRow(row, ticker)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		if !start.IsZero() && bar.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && bar.Timestamp.After(end) {
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseBarRow(row []string, ticker string) (event.Bar, error) {
	if len(row) < 7 {
		return event.Bar{}, fmt.Errorf("expected 7 columns, got %d", len(row))
	}

	ts, err := time.Parse(dateLayout, row[0])
	if err != nil {
		return event.Bar{}, err
	}

	prices := make([]fixed.Price, 5)
	for i, field := range row[1:6] {
		price, err := fixed.ParseDecimal(field)
		if err != nil {
			return event.Bar{}, err
		}
		prices[i] = price
	}

	volume, err := strconv.ParseInt(row[6], 10, 64)
	if err != nil {
		return event.Bar{}, fmt.Errorf("volume: %w", err)
	}

	return event.Bar{
		Timestamp: ts,
		Symbol:    ticker,
		Period:    24 * time.Hour,
		Open:      prices[0],
		High:      prices[1],
		Low:       prices[2],
		Close:     prices[3],
		AdjClose:  prices[4],
		Volume:    volume,
	}, nil
}
