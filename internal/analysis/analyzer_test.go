package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/quantmeter/stock-scorecard/internal/errors"
	"github.com/quantmeter/stock-scorecard/internal/types"
)

type stubFetcher struct {
	fund    *types.Fundamentals
	fundErr error
	closes  []types.Close
	histErr error

	fetched []string
}

func (s *stubFetcher) Fundamentals(ctx context.Context, symbol string) (*types.Fundamentals, error) {
	s.fetched = append(s.fetched, symbol)
	if s.fundErr != nil {
		return nil, s.fundErr
	}
	return s.fund, nil
}

func (s *stubFetcher) PriceHistory(ctx context.Context, symbol string, start, end int64) ([]types.Close, error) {
	if s.histErr != nil {
		return nil, s.histErr
	}
	return s.closes, nil
}

type panickyFetcher struct{}

func (panickyFetcher) Fundamentals(ctx context.Context, symbol string) (*types.Fundamentals, error) {
	panic("boom")
}

func (panickyFetcher) PriceHistory(ctx context.Context, symbol string, start, end int64) ([]types.Close, error) {
	return nil, nil
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare symbol gets default suffix", input: "reliance", expected: "RELIANCE.NS"},
		{name: "whitespace trimmed", input: "  tcs  ", expected: "TCS.NS"},
		{name: "existing suffix preserved", input: "AAPL.US", expected: "AAPL.US"},
		{name: "lowercase suffix uppercased", input: "msft.ns", expected: "MSFT.NS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSymbol(tt.input))
		})
	}
}

func TestAnalyzeTickerFullPipeline(t *testing.T) {
	fetcher := &stubFetcher{
		fund: &types.Fundamentals{
			Name:         "Reliance Industries Limited",
			Sector:       "Energy",
			TotalRevenue: floatPtr(80e9),
			MarketCap:    floatPtr(400e9),
		},
	}
	analyzer := NewAnalyzer(fetcher)

	res := analyzer.AnalyzeTicker(context.Background(), "reliance")

	assert.Equal(t, "RELIANCE.NS", res.Ticker)
	assert.Equal(t, "Reliance Industries Limited", res.Name)
	assert.Equal(t, "Energy", res.Sector)
	assert.Empty(t, res.Error)
	assert.Equal(t, []string{"RELIANCE.NS"}, fetcher.fetched)

	// Revenue 8000 crore rates 2, market cap 40000 crore rates 3.
	require.NotNil(t, res.Ratings.Revenue)
	assert.Equal(t, 2, *res.Ratings.Revenue)
	require.NotNil(t, res.Ratings.MarketCap)
	assert.Equal(t, 3, *res.Ratings.MarketCap)
	require.NotNil(t, res.CategoryScores.Scale)
	assert.InDelta(t, 2.5, *res.CategoryScores.Scale, 1e-9)

	// RevenueMC 0.2 rates 3, only value-category member available. Energy is
	// non-seasonal, so risk is pinned at 5. Scale, value and risk are the
	// known categories: (0.15*2.5 + 0.25*3 + 0.10*5) / 0.5.
	require.NotNil(t, res.FinalScore)
	assert.InDelta(t, 3.25, *res.FinalScore, 1e-9)
}

func TestAnalyzeTickerFundamentalsFailure(t *testing.T) {
	fetcher := &stubFetcher{
		fundErr: apperrors.NewNotFoundError("No data found for BOGUS.NS. Check ticker symbol."),
	}
	analyzer := NewAnalyzer(fetcher)

	res := analyzer.AnalyzeTicker(context.Background(), "bogus")

	assert.Equal(t, "BOGUS.NS", res.Ticker)
	assert.Equal(t, "BOGUS.NS", res.Name)
	assert.Equal(t, "No data found for BOGUS.NS. Check ticker symbol.", res.Error)
	assert.Nil(t, res.FinalScore)
	assert.Nil(t, res.Ratings.Revenue)
	assert.Nil(t, res.CategoryScores.Scale)
}

func TestAnalyzeTickerHistoryFailureIsNonFatal(t *testing.T) {
	fetcher := &stubFetcher{
		fund: &types.Fundamentals{
			Name:         "Tata Consultancy Services",
			TotalRevenue: floatPtr(80e9),
			MarketCap:    floatPtr(400e9),
		},
		histErr: apperrors.NewTimeoutError("Request timeout", nil),
	}
	analyzer := NewAnalyzer(fetcher)

	res := analyzer.AnalyzeTicker(context.Background(), "tcs")

	assert.Empty(t, res.Error)
	assert.Nil(t, res.Metrics.CAGR)
	assert.Nil(t, res.Metrics.Volatility)
	require.NotNil(t, res.FinalScore)
}

func TestAnalyzeTickerRecoversFromPanic(t *testing.T) {
	analyzer := NewAnalyzer(panickyFetcher{})

	res := analyzer.AnalyzeTicker(context.Background(), "infy")

	assert.Equal(t, "INFY.NS", res.Ticker)
	assert.Equal(t, "Error: boom", res.Error)
	assert.Nil(t, res.FinalScore)
}

func TestAnalyzePreservesInputOrder(t *testing.T) {
	fetcher := &stubFetcher{
		fund: &types.Fundamentals{TotalRevenue: floatPtr(80e9)},
	}
	analyzer := NewAnalyzer(fetcher)

	results := analyzer.Analyze(context.Background(), []string{"tcs", "infy", "wipro"})

	require.Len(t, results, 3)
	assert.Equal(t, "TCS.NS", results[0].Ticker)
	assert.Equal(t, "INFY.NS", results[1].Ticker)
	assert.Equal(t, "WIPRO.NS", results[2].Ticker)
	assert.Equal(t, []string{"TCS.NS", "INFY.NS", "WIPRO.NS"}, fetcher.fetched)
}
