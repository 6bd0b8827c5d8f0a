package feed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/bus"
	"main/internal/event"
	"main/internal/fixed"
)

func writeCSV(t *testing.T, dir, ticker, body string) {
	t.Helper()
	header := "Date,Open,High,Low,Close,Adj Close,Volume\n"
	err := os.WriteFile(filepath.Join(dir, ticker+".csv"), []byte(header+body), 0o644)
	require.NoError(t, err)
}

func TestCSVFeedMergesChronologically(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "SPY",
		"2016-10-28,99,101,98,100,100,1000\n"+
			"2016-10-31,100,102,99,101,101,1000\n")
	writeCSV(t, dir, "AGG",
		"2016-10-28,49,51,48,50,50,500\n"+
			"2016-10-31,50,52,49,51,51,500\n")

	q := bus.NewQueue(16)
	f, err := NewCSVDailyBarFeed(CSVDailyBarConfig{Dir: dir, Tickers: []string{"SPY", "AGG"}}, q)
	require.NoError(t, err)

	var got []string
	for f.Continue() {
		require.NoError(t, f.StreamNext())
		e, ok := q.TryPop()
		require.True(t, ok)
		got = append(got, e.Time().Format("2006-01-02")+" "+e.Ticker())
	}

	assert.Equal(t, []string{
		"2016-10-28 AGG",
		"2016-10-28 SPY",
		"2016-10-31 AGG",
		"2016-10-31 SPY",
	}, got)
}

func TestCSVFeedTracksAdjustedPrice(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "SPY",
		"2016-10-28,99,101,98,100,98.5,1000\n"+
			"2016-10-31,100,102,99,101,99.5,1000\n")

	q := bus.NewQueue(16)
	f, err := NewCSVDailyBarFeed(CSVDailyBarConfig{Dir: dir, Tickers: []string{"SPY"}}, q)
	require.NoError(t, err)

	_, err = f.AdjustedPrice("SPY")
	require.ErrorIs(t, err, ErrPriceUnavailable, "no price before the first stream step")

	require.NoError(t, f.StreamNext())
	price, err := f.AdjustedPrice("SPY")
	require.NoError(t, err)
	assert.Equal(t, fixed.MustParse(98.5), price)

	require.NoError(t, f.StreamNext())
	price, err = f.AdjustedPrice("SPY")
	require.NoError(t, err)
	assert.Equal(t, fixed.MustParse(99.5), price)

	assert.False(t, f.Continue(), "feed exhausted")
}

func TestCSVFeedDateRange(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "SPY",
		"2016-09-30,99,101,98,100,100,1000\n"+
			"2016-10-31,100,102,99,101,101,1000\n"+
			"2016-11-30,101,103,100,102,102,1000\n")

	q := bus.NewQueue(16)
	f, err := NewCSVDailyBarFeed(CSVDailyBarConfig{
		Dir:       dir,
		Tickers:   []string{"SPY"},
		StartDate: time.Date(2016, 10, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2016, 10, 31, 0, 0, 0, 0, time.UTC),
	}, q)
	require.NoError(t, err)

	require.NoError(t, f.StreamNext())
	e, ok := q.TryPop()
	require.True(t, ok)
	assert.Equal(t, time.Date(2016, 10, 31, 0, 0, 0, 0, time.UTC), e.Time())
	assert.False(t, f.Continue())
}

func TestCSVFeedMissingFileIsFatal(t *testing.T) {
	q := bus.NewQueue(16)
	_, err := NewCSVDailyBarFeed(CSVDailyBarConfig{Dir: t.TempDir(), Tickers: []string{"SPY"}}, q)
	require.Error(t, err)
}

func TestCSVFeedRejectsBadPrice(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "SPY", "2016-10-28,99,101,98,not-a-price,100,1000\n")

	q := bus.NewQueue(16)
	_, err := NewCSVDailyBarFeed(CSVDailyBarConfig{Dir: dir, Tickers: []string{"SPY"}}, q)
	require.Error(t, err)
}

func TestSyntheticFeedDeterministic(t *testing.T) {
	q := bus.NewQueue(16)
	f, err := NewSyntheticFeed(SyntheticConfig{
		Tickers:    []string{"SPY", "AGG"},
		StartDate:  time.Date(2016, 10, 1, 0, 0, 0, 0, time.UTC),
		Days:       2,
		BasePrice:  fixed.MustParse(100),
		DailyDrift: fixed.MustParse(1),
	}, q)
	require.NoError(t, err)

	var bars []event.Bar
	for f.Continue() {
		require.NoError(t, f.StreamNext())
		e, ok := q.TryPop()
		require.True(t, ok)
		bars = append(bars, e.(event.Bar))
	}

	require.Len(t, bars, 4)
	assert.Equal(t, "SPY", bars[0].Symbol)
	assert.Equal(t, "AGG", bars[1].Symbol)
	assert.True(t, bars[2].Timestamp.After(bars[1].Timestamp), "second day follows first")
	assert.Equal(t, fixed.MustParse(101), bars[2].AdjClose, "drift applied on day two")
}
