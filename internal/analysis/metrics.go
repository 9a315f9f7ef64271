package analysis

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/quantmeter/stock-scorecard/internal/types"
)

// crore is the fixed currency-scale divisor applied to absolute amounts.
const crore = 1e7

const (
	// minValidCloses is the minimum number of usable daily closes before
	// price-series metrics are computed at all.
	minValidCloses = 100
	// tradingDaysPerYear is the usual annualization convention.
	tradingDaysPerYear = 252
	// revenuePeriods is how many historical revenue figures feed the
	// revenue stability measure.
	revenuePeriods = 3
)

// seasonalSectors are sector labels whose demand swings with the consumer
// cycle. Matching is a case-sensitive substring test, as the provider mixes
// naming schemes across exchanges.
var seasonalSectors = []string{
	"Consumer Cyclical",
	"Consumer Defensive",
	"Consumer Discretionary",
	"Consumer Staples",
	"Retail",
}

// coalesce returns the first non-nil, non-zero value, mirroring the
// provider's habit of reporting the same figure under several fields.
func coalesce(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil && *v != 0 {
			return v
		}
	}
	return nil
}

// ratio divides num by den, but only when the numerator is present and the
// denominator is strictly positive. Everything else is "metric unavailable".
func ratio(num, den *float64) *float64 {
	if num == nil || den == nil || *den <= 0 {
		return nil
	}
	return floatPtr(*num / *den)
}

func scaled(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	return floatPtr(*v * factor)
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func floatPtr(v float64) *float64 { return &v }

// BuildMetrics derives every metric from a fundamentals snapshot and an
// optional daily close series. Absent inputs propagate as nil outputs; they
// are never silently replaced with zero.
func BuildMetrics(f *types.Fundamentals, closes []types.Close) Metrics {
	var m Metrics

	rev := coalesce(f.TotalRevenue, f.TotalRevenueTTM)
	m.Revenue = scaled(rev, 1/crore)
	m.MarketCap = scaled(f.MarketCap, 1/crore)

	m.PEG = f.PEGRatio

	m.PE = f.TrailingPE
	m.ForwardPE = f.ForwardPE
	// The provider exposes no industry-average P/E; forward P/E stands in
	// for it. Known approximation, kept deliberately.
	m.IndustryPE = f.ForwardPE
	m.PEIndustryRatio = ratio(m.PE, m.IndustryPE)
	m.RevenueMC = ratio(m.Revenue, m.MarketCap)
	m.EPS = f.TrailingEPS

	ebit := coalesce(f.EBIT, f.EBITDA)
	m.EVEBIT = ratio(f.EnterpriseValue, ebit)

	if f.RegularMarketPrice != nil && f.FreeCashflow != nil &&
		f.SharesOutstanding != nil && *f.SharesOutstanding > 0 {
		if perShare := *f.FreeCashflow / *f.SharesOutstanding; perShare > 0 {
			m.CMPFCF = floatPtr(*f.RegularMarketPrice / perShare)
		}
	}

	opInc := coalesce(f.OperatingIncome, ebit)
	debt := orZero(f.LongTermDebt) + orZero(f.ShortLongTermDebt)
	equity := orZero(f.TotalStockholderEquity)
	cash := orZero(coalesce(f.Cash, f.TotalCash))

	// Internal accumulation: absent balance-sheet terms count as zero here,
	// unlike metric outputs.
	invested := debt + equity - cash
	if opInc != nil && invested > 0 {
		// 0.75 approximates a post-tax operating result.
		m.ROIC = floatPtr(*opInc * 0.75 / invested * 100)
	}

	m.ROE = scaled(f.ReturnOnEquity, 100)

	if opInc != nil && f.TotalAssets != nil && f.TotalCurrentLiabilities != nil {
		if employed := *f.TotalAssets - *f.TotalCurrentLiabilities; employed > 0 {
			m.ROCE = floatPtr(*opInc / employed * 100)
		}
	}

	m.OPM = scaled(f.OperatingMargins, 100)

	m.Beta = coalesce(f.Beta, f.KeyStatsBeta)

	if f.Sector != "" {
		seasonal := false
		for _, s := range seasonalSectors {
			if strings.Contains(f.Sector, s) {
				seasonal = true
				break
			}
		}
		m.Seasonality = &seasonal
		if seasonal {
			m.SeasonalityText = "Yes"
		} else {
			m.SeasonalityText = "No"
		}
	} else {
		m.SeasonalityText = "N/A"
	}

	m.QuickRatio = f.QuickRatio

	netDebt := debt - cash
	m.IsNetCash = netDebt < 0
	ni := coalesce(f.NetIncome, f.NetIncomeToCommon)
	if !m.IsNetCash && ni != nil && *ni > 0 {
		m.NetDebtProfit = floatPtr(netDebt / *ni)
	}
	switch {
	case m.IsNetCash:
		m.NetDebtProfitText = "Net Cash"
	case m.NetDebtProfit != nil:
		m.NetDebtProfitText = fmt.Sprintf("%.2f", *m.NetDebtProfit)
	default:
		m.NetDebtProfitText = "N/A"
	}

	if f.CapitalExpenditures != nil && *f.CapitalExpenditures != 0 {
		capex := math.Abs(*f.CapitalExpenditures)
		m.Capex = floatPtr(capex / crore)
		if rev != nil {
			m.CapexRevenue = floatPtr(capex / *rev * 100)
		}
	}

	m.CAGR, m.Volatility = priceSeriesMetrics(closes)
	m.RevenueVolatility, m.RevenueVolatilityText = revenueStability(f.RevenueHistory)

	return m
}

// priceSeriesMetrics derives annualized growth and volatility from the daily
// close series. Both stay nil unless at least minValidCloses usable closes
// exist, even if more raw timestamps were supplied.
func priceSeriesMetrics(closes []types.Close) (cagr, volatility *float64) {
	valid := make([]float64, 0, len(closes))
	for _, c := range closes {
		if c.Price != nil && *c.Price > 0 {
			valid = append(valid, *c.Price)
		}
	}
	if len(valid) < minValidCloses {
		return nil, nil
	}

	years := float64(len(valid)) / tradingDaysPerYear
	cagr = floatPtr((math.Pow(valid[len(valid)-1]/valid[0], 1/years) - 1) * 100)

	returns := make([]float64, len(valid)-1)
	for i := 1; i < len(valid); i++ {
		returns[i-1] = (valid[i] - valid[i-1]) / valid[i-1]
	}
	volatility = floatPtr(popStdDev(returns) * math.Sqrt(tradingDaysPerYear) * 100)
	return cagr, volatility
}

// revenueStability measures the coefficient of variation across the most
// recent revenue periods, with a descriptive label for display. Requires all
// of the last revenuePeriods figures to be present.
func revenueStability(history []*float64) (*float64, string) {
	if len(history) < revenuePeriods {
		return nil, ""
	}
	revs := make([]float64, 0, revenuePeriods)
	for _, r := range history[:revenuePeriods] {
		if r != nil {
			revs = append(revs, *r)
		}
	}
	if len(revs) < revenuePeriods {
		return nil, ""
	}

	mean := stat.Mean(revs, nil)
	if mean == 0 {
		// A zero mean would make the coefficient NaN, which JSON cannot carry.
		return nil, ""
	}
	cv := popStdDev(revs) / mean * 100

	var label string
	switch {
	case cv < 10:
		label = "Low"
	case cv < 15:
		label = "Medium"
	case cv < 20:
		label = "High"
	default:
		label = "Very High"
	}
	return &cv, label
}

// popStdDev is the population standard deviation; the series here are
// complete observations, not samples.
func popStdDev(xs []float64) float64 {
	mean := stat.Mean(xs, nil)
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}
