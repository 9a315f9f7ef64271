package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/quantmeter/stock-scorecard/internal/types"
)

// historyWindow is roughly three years of daily bars, enough for the
// price-series metrics.
const historyWindow = 3 * 365 * 24 * time.Hour

// defaultSuffix is appended to bare symbols carrying no exchange suffix.
const defaultSuffix = ".NS"

// Fetcher is the data provider the analyzer pulls fundamentals and price
// history from.
type Fetcher interface {
	Fundamentals(ctx context.Context, symbol string) (*types.Fundamentals, error)
	PriceHistory(ctx context.Context, symbol string, start, end int64) ([]types.Close, error)
}

// Analyzer runs the per-ticker scoring pipeline: fetch, derive metrics, rate,
// aggregate.
type Analyzer struct {
	fetcher Fetcher
	now     func() time.Time
}

// NewAnalyzer creates an analyzer backed by the given provider.
func NewAnalyzer(fetcher Fetcher) *Analyzer {
	return &Analyzer{fetcher: fetcher, now: time.Now}
}

// NormalizeSymbol trims and uppercases a ticker and appends the default
// exchange suffix when none is present.
func NormalizeSymbol(ticker string) string {
	s := strings.ToUpper(strings.TrimSpace(ticker))
	if !strings.Contains(s, ".") {
		s += defaultSuffix
	}
	return s
}

// Analyze scores every ticker strictly sequentially and returns one result
// per input, in input order. A failing ticker never aborts the batch.
func (a *Analyzer) Analyze(ctx context.Context, tickers []string) []Result {
	results := make([]Result, 0, len(tickers))
	for _, t := range tickers {
		results = append(results, a.AnalyzeTicker(ctx, t))
	}
	return results
}

// AnalyzeTicker runs the full pipeline for one ticker. Every failure,
// including a panic anywhere below, is captured on the result record.
func (a *Analyzer) AnalyzeTicker(ctx context.Context, ticker string) (res Result) {
	symbol := NormalizeSymbol(ticker)
	res = Result{Ticker: symbol, Name: symbol}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("analysis panic", "symbol", symbol, "panic", r)
			res = Result{Ticker: symbol, Name: symbol, Error: fmt.Sprintf("Error: %v", r)}
		}
	}()

	fund, err := a.fetcher.Fundamentals(ctx, symbol)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	if fund.Name != "" {
		res.Name = fund.Name
	}
	res.Sector = fund.Sector

	end := a.now().Unix()
	start := end - int64(historyWindow/time.Second)
	closes, err := a.fetcher.PriceHistory(ctx, symbol, start, end)
	if err != nil {
		// Best effort: CAGR and volatility simply stay unset.
		slog.Warn("price history unavailable", "symbol", symbol, "error", err)
		closes = nil
	}

	res.Metrics = BuildMetrics(fund, closes)
	res.Ratings = BuildRatings(res.Metrics)
	res.CategoryScores = ScoreCategories(res.Ratings)
	res.FinalScore = FinalScore(res.CategoryScores)
	return res
}
