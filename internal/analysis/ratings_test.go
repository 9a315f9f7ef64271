package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateMetric(t *testing.T) {
	tests := []struct {
		name     string
		metric   string
		value    *float64
		expected *int
	}{
		{name: "nil value stays unrated", metric: "revenue", value: nil, expected: nil},
		{name: "revenue below first bucket", metric: "revenue", value: floatPtr(500), expected: intPtr(0)},
		{name: "revenue on boundary takes higher bucket", metric: "revenue", value: floatPtr(1000), expected: intPtr(1)},
		{name: "revenue mid range", metric: "revenue", value: floatPtr(30000), expected: intPtr(3)},
		{name: "revenue past last threshold", metric: "revenue", value: floatPtr(250000), expected: intPtr(5)},
		{name: "marketCap large cap", metric: "marketCap", value: floatPtr(600000), expected: intPtr(5)},
		{name: "peg cheap growth", metric: "peg", value: floatPtr(0.8), expected: intPtr(5)},
		{name: "peg expensive growth", metric: "peg", value: floatPtr(3.5), expected: intPtr(0)},
		{name: "cagr negative growth", metric: "cagr", value: floatPtr(-2), expected: intPtr(0)},
		{name: "cagr boundary at zero", metric: "cagr", value: floatPtr(0), expected: intPtr(1)},
		{name: "cagr strong growth", metric: "cagr", value: floatPtr(22), expected: intPtr(5)},
		{name: "peIndustry discount", metric: "peIndustry", value: floatPtr(0.5), expected: intPtr(5)},
		{name: "peIndustry premium", metric: "peIndustry", value: floatPtr(1.6), expected: intPtr(0)},
		{name: "revenueMC multiplier applied", metric: "revenueMC", value: floatPtr(0.12), expected: intPtr(2)},
		{name: "revenueMC tiny ratio", metric: "revenueMC", value: floatPtr(0.01), expected: intPtr(0)},
		{name: "evEbit cheap", metric: "evEbit", value: floatPtr(5), expected: intPtr(5)},
		{name: "evEbit boundary", metric: "evEbit", value: floatPtr(7), expected: intPtr(4)},
		{name: "cmpFcf expensive", metric: "cmpFcf", value: floatPtr(45), expected: intPtr(0)},
		{name: "roic excellent", metric: "roic", value: floatPtr(35), expected: intPtr(5)},
		{name: "roe poor", metric: "roe", value: floatPtr(5), expected: intPtr(0)},
		{name: "roce middling", metric: "roce", value: floatPtr(18), expected: intPtr(2)},
		{name: "opm boundary", metric: "opm", value: floatPtr(20), expected: intPtr(4)},
		{name: "volatility calm", metric: "volatility", value: floatPtr(8), expected: intPtr(5)},
		{name: "volatility wild", metric: "volatility", value: floatPtr(50), expected: intPtr(0)},
		{name: "beta defensive", metric: "beta", value: floatPtr(0.5), expected: intPtr(5)},
		{name: "beta boundary at one", metric: "beta", value: floatPtr(1.0), expected: intPtr(2)},
		{name: "revenueVolatility low", metric: "revenueVolatility", value: floatPtr(5), expected: intPtr(5)},
		{name: "revenueVolatility medium", metric: "revenueVolatility", value: floatPtr(12), expected: intPtr(3)},
		{name: "revenueVolatility very high", metric: "revenueVolatility", value: floatPtr(25), expected: intPtr(0)},
		{name: "quickRatio weak", metric: "quickRatio", value: floatPtr(0.5), expected: intPtr(0)},
		{name: "quickRatio strong", metric: "quickRatio", value: floatPtr(2.5), expected: intPtr(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := rateMetric(tt.metric, tt.value)
			if tt.expected == nil {
				assert.Nil(t, result)
			} else {
				require.NotNil(t, result)
				assert.Equal(t, *tt.expected, *result)
			}
		})
	}
}

func TestRateSeasonality(t *testing.T) {
	seasonal := true
	nonSeasonal := false

	tests := []struct {
		name     string
		value    *bool
		expected *int
	}{
		{name: "unknown sector stays unrated", value: nil, expected: nil},
		{name: "seasonal business", value: &seasonal, expected: intPtr(2)},
		{name: "non-seasonal business", value: &nonSeasonal, expected: intPtr(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := rateSeasonality(tt.value)
			if tt.expected == nil {
				assert.Nil(t, result)
			} else {
				require.NotNil(t, result)
				assert.Equal(t, *tt.expected, *result)
			}
		})
	}
}

func TestRateNetDebtProfit(t *testing.T) {
	tests := []struct {
		name      string
		value     *float64
		isNetCash bool
		expected  *int
	}{
		{name: "net cash wins regardless of value", value: floatPtr(10), isNetCash: true, expected: intPtr(5)},
		{name: "net cash with nil value", value: nil, isNetCash: true, expected: intPtr(5)},
		{name: "nil value stays unrated", value: nil, isNetCash: false, expected: nil},
		{name: "negative multiple stays unrated", value: floatPtr(-0.5), isNetCash: false, expected: nil},
		{name: "under one year of profit", value: floatPtr(0.5), isNetCash: false, expected: intPtr(4)},
		{name: "boundary at one", value: floatPtr(1), isNetCash: false, expected: intPtr(3)},
		{name: "between two and three", value: floatPtr(2.5), isNetCash: false, expected: intPtr(2)},
		{name: "between three and five", value: floatPtr(4), isNetCash: false, expected: intPtr(1)},
		{name: "heavily indebted", value: floatPtr(8), isNetCash: false, expected: intPtr(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := rateNetDebtProfit(tt.value, tt.isNetCash)
			if tt.expected == nil {
				assert.Nil(t, result)
			} else {
				require.NotNil(t, result)
				assert.Equal(t, *tt.expected, *result)
			}
		})
	}
}

func TestBuildRatingsPropagatesNil(t *testing.T) {
	ratings := BuildRatings(Metrics{})

	assert.Nil(t, ratings.Revenue)
	assert.Nil(t, ratings.MarketCap)
	assert.Nil(t, ratings.PEG)
	assert.Nil(t, ratings.CAGR)
	assert.Nil(t, ratings.PEIndustry)
	assert.Nil(t, ratings.RevenueMC)
	assert.Nil(t, ratings.EVEBIT)
	assert.Nil(t, ratings.CMPFCF)
	assert.Nil(t, ratings.ROIC)
	assert.Nil(t, ratings.ROE)
	assert.Nil(t, ratings.ROCE)
	assert.Nil(t, ratings.OPM)
	assert.Nil(t, ratings.Volatility)
	assert.Nil(t, ratings.Beta)
	assert.Nil(t, ratings.Seasonality)
	assert.Nil(t, ratings.RevenueVolatility)
	assert.Nil(t, ratings.NetDebtProfit)
	assert.Nil(t, ratings.QuickRatio)
}

func TestBuildRatingsUsesIndustryRatio(t *testing.T) {
	m := Metrics{
		PE:              floatPtr(30),
		PEIndustryRatio: floatPtr(0.5),
	}

	ratings := BuildRatings(m)

	require.NotNil(t, ratings.PEIndustry)
	assert.Equal(t, 5, *ratings.PEIndustry)
}
