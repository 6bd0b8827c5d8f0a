package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"main/internal/bus"
	"main/internal/compliance"
	"main/internal/event"
	"main/internal/execution"
	"main/internal/feed"
	"main/internal/fixed"
	"main/internal/obs"
	"main/internal/portfolio"
	"main/internal/risk"
	"main/internal/sentiment"
	"main/internal/session"
	"main/internal/sizer"
	"main/internal/statistics"
	"main/internal/store"
	"main/internal/strategy"
	"main/pkg/conn"
)

const dateLayout = "2006-01-02"

func main() {
	csvDir := flag.String("csv-dir", "", "Directory with <TICKER>.csv daily bar files")
	synthetic := flag.Bool("synthetic", false, "Use a generated price series instead of CSV data")
	syntheticDays := flag.Int("synthetic-days", 365, "Number of generated days in synthetic mode")
	tickersFlag := flag.String("tickers", "SPY,AGG", "Comma-separated ticker list")
	weightsFlag := flag.String("weights", "SPY=0.6,AGG=0.4", "Comma-separated ticker=weight pairs")
	equity := flag.Float64("equity", 500000, "Initial account equity")
	startFlag := flag.String("start", "", "Replay start date (YYYY-MM-DD, empty=unbounded)")
	endFlag := flag.String("end", "", "Replay end date (YYYY-MM-DD, empty=unbounded)")
	queueCap := flag.Int("queue-cap", session.DefaultQueueCapacity, "Event queue capacity")
	periods := flag.Int("periods", 252, "Bar periods per year for Sharpe annualization")
	tradeLogDir := flag.String("trade-log-dir", "", "Directory for the compliance trade log (empty=disable)")
	sentimentPath := flag.String("sentiment", "", "Optional sentiment CSV (Date,Ticker,Score)")
	pgDSN := flag.String("pg-dsn", "", "Optional PostgreSQL DSN for persisting results")
	title := flag.String("title", "Monthly Liquidate/Rebalance", "Run title for the result store")
	pyroscopeAddr := flag.String("pyroscope", "", "Optional pyroscope server address")
	flag.Parse()

	if *pyroscopeAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "marketsim/backtest",
			ServerAddress:   *pyroscopeAddr,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			log.Fatalf("pyroscope start failed: %v", err)
		}
		defer func() {
			_ = profiler.Stop()
		}()
	}

	tickers := splitList(*tickersFlag)
	weights, err := parseWeights(*weightsFlag)
	if err != nil {
		log.Fatalf("parse weights: %v", err)
	}

	startDate, err := parseDate(*startFlag)
	if err != nil {
		log.Fatalf("parse start date: %v", err)
	}
	endDate, err := parseDate(*endFlag)
	if err != nil {
		log.Fatalf("parse end date: %v", err)
	}

	queue := bus.NewQueue(*queueCap)

	priceFeed, err := buildFeed(queue, tickers, *csvDir, *synthetic, *syntheticDays, startDate, endDate)
	if err != nil {
		log.Fatalf("build price feed: %v", err)
	}

	initialCash, err := fixed.Parse(*equity)
	if err != nil {
		log.Fatalf("parse equity: %v", err)
	}

	recorder := store.NewRecorder()
	hooks := multiCompliance{recorder}
	if *tradeLogDir != "" {
		tradeLog, err := compliance.NewTradeLog(*tradeLogDir)
		if err != nil {
			log.Fatalf("open trade log: %v", err)
		}
		defer tradeLog.Close()
		logs.Infof("trade log: %s", tradeLog.Path())
		hooks = append(hooks, tradeLog)
	}

	pf := portfolio.New(priceFeed, initialCash)
	handler := portfolio.NewHandler(queue, pf, sizer.NewLiquidateRebalance(weights), risk.Passthrough{})
	exec := execution.NewSimulated(queue, priceFeed, hooks)
	strat := strategy.NewMonthlyLiquidateRebalance(queue, tickers)
	stats := statistics.NewSimple(*periods)

	sess, err := session.New(session.Config{
		Kind:          session.KindBacktest,
		Tickers:       tickers,
		InitialEquity: *equity,
		QueueCapacity: *queueCap,
	}, queue, priceFeed, strat, handler, exec, stats)
	if err != nil {
		log.Fatalf("build session: %v", err)
	}
	sess.WithMetrics(obs.NewMetrics())

	if *sentimentPath != "" {
		sentiments, err := sentiment.NewCSVFeed(*sentimentPath, queue)
		if err != nil {
			log.Fatalf("load sentiment feed: %v", err)
		}
		sess.WithSentiment(sentiments)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-sys.Shutdown()
		cancel()
	}()

	results, err := sess.Run(ctx)
	if err != nil {
		log.Fatalf("session failed: %v", err)
	}

	fmt.Println("---------------------------------")
	fmt.Println("Backtest complete.")
	fmt.Printf("Sharpe Ratio: %0.2f\n", results.Sharpe)
	fmt.Printf("Max Drawdown: %0.2f%%\n", results.MaxDrawdownPct*100.0)
	fmt.Printf("Final Equity: %0.2f\n", results.FinalEquity)

	if *pgDSN != "" {
		client, err := conn.New(conn.Option{ConnString: *pgDSN})
		if err != nil {
			log.Fatalf("connect result store: %v", err)
		}
		defer client.Close()

		resultStore, err := store.New(client.DB())
		if err != nil {
			log.Fatalf("open result store: %v", err)
		}
		runID, err := resultStore.SaveRun(*title, tickers, *equity, results, recorder.Fills())
		if err != nil {
			log.Fatalf("save run: %v", err)
		}
		logs.Infof("saved run %d with %d trades", runID, len(recorder.Fills()))
	}
}

// multiCompliance fans one fill out to every hook.
type multiCompliance []execution.ComplianceHook

func (m multiCompliance) RecordTrade(fill event.Fill) error {
	for _, hook := range m {
		if err := hook.RecordTrade(fill); err != nil {
			return err
		}
	}
	return nil
}

func buildFeed(queue *bus.Queue, tickers []string, csvDir string, synthetic bool, days int, start, end time.Time) (feed.PriceFeed, error) {
	if synthetic {
		startDate := start
		if startDate.IsZero() {
			startDate = time.Now().UTC().AddDate(-1, 0, 0).Truncate(24 * time.Hour)
		}
		return feed.NewSyntheticFeed(feed.SyntheticConfig{
			Tickers:    tickers,
			StartDate:  startDate,
			Days:       days,
			BasePrice:  fixed.MustParse(100),
			DailyDrift: fixed.MustParse(0.05),
		}, queue)
	}
	return feed.NewCSVDailyBarFeed(feed.CSVDailyBarConfig{
		Dir:       csvDir,
		Tickers:   tickers,
		StartDate: start,
		EndDate:   end,
	}, queue)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseWeights(raw string) (map[string]float64, error) {
	weights := make(map[string]float64)
	for _, pair := range splitList(raw) {
		ticker, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("malformed weight %q, want TICKER=0.6", pair)
		}
		weight, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("weight for %s: %w", ticker, err)
		}
		weights[ticker] = weight
	}
	return weights, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}
