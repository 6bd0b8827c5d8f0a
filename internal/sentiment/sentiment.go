// Package sentiment streams external sentiment scores into the session as
// SENTIMENT events, keyed to the simulation clock.
package sentiment

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/yanun0323/errors"

	"main/internal/bus"
	"main/internal/event"
)

// Feed releases sentiment events up to the given simulation timestamp.
type Feed interface {
	StreamNext(asOf time.Time) error
}

// CSVFeed replays a `Date,Ticker,Score` file in date order.
type CSVFeed struct {
	queue  *bus.Queue
	events []event.Sentiment
	index  int
}

// NewCSVFeed loads the whole file eagerly; load failures are fatal.
func NewCSVFeed(path string, queue *bus.Queue) (*CSVFeed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open sentiment file")
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read sentiment file")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sentiment file %s is empty", path)
	}

	events := make([]event.Sentiment, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 3 {
			return nil, fmt.Errorf("sentiment row %d: expected 3 columns", i+2)
		}
		ts, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			return nil, fmt.Errorf("sentiment row %d: %w", i+2, err)
		}
		score, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, fmt.Errorf("sentiment row %d: %w", i+2, err)
		}
		events = append(events, event.Sentiment{Timestamp: ts, Symbol: row[1], Score: score})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return &CSVFeed{queue: queue, events: events}, nil
}

// StreamNext publishes every sentiment event dated at or before asOf that has
// not been released yet.
func (f *CSVFeed) StreamNext(asOf time.Time) error {
	for f.index < len(f.events) && !f.events[f.index].Timestamp.After(asOf) {
		if err := f.queue.Publish(f.events[f.index]); err != nil {
			return err
		}
		f.index++
	}
	return nil
}
