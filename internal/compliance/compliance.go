// Package compliance records every executed trade for audit.
package compliance

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/yanun0323/errors"

	"main/internal/event"
)

// Compliance receives each fill after execution.
type Compliance interface {
	RecordTrade(fill event.Fill) error
}

// TradeLog appends fills to a CSV file, one file per session.
type TradeLog struct {
	path   string
	file   *os.File
	writer *csv.Writer
}

// NewTradeLog creates (truncating) the session's trade log file.
func NewTradeLog(dir string) (*TradeLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create trade log dir")
	}
	path := filepath.Join(dir, "tradelog-"+time.Now().UTC().Format("20060102-150405")+".csv")
	file, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "create trade log")
	}

	writer := csv.NewWriter(file)
	header := []string{"timestamp", "ticker", "action", "quantity", "price", "commission", "exchange"}
	if err := writer.Write(header); err != nil {
		file.Close()
		return nil, errors.Wrap(err, "write trade log header")
	}
	writer.Flush()
	return &TradeLog{path: path, file: file, writer: writer}, nil
}

// Path returns the log file location.
func (l *TradeLog) Path() string { return l.path }

// RecordTrade implements Compliance.
func (l *TradeLog) RecordTrade(fill event.Fill) error {
	row := []string{
		fill.Timestamp.Format(time.RFC3339),
		fill.Symbol,
		fill.Action.String(),
		strconv.FormatInt(fill.Quantity, 10),
		fill.Price.String(),
		fill.Commission.String(),
		fill.Exchange,
	}
	if err := l.writer.Write(row); err != nil {
		return errors.Wrap(err, "write trade log row")
	}
	l.writer.Flush()
	return errors.Wrap(l.writer.Error(), "flush trade log")
}

// Close flushes and closes the log file.
func (l *TradeLog) Close() error {
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
