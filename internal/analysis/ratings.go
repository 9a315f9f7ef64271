package analysis

// bucketScale maps a raw metric value onto a 0-5 rating. Thresholds are
// ascending upper bounds compared with strict less-than; the first match wins
// and values past the last threshold take the fallback rating. An optional
// multiplier is applied before comparison.
type bucketScale struct {
	multiplier float64
	thresholds []float64
	ratings    []int
	fallback   int
}

func (b bucketScale) rate(v *float64) *int {
	if v == nil {
		return nil
	}
	x := *v
	if b.multiplier != 0 {
		x *= b.multiplier
	}
	for i, t := range b.thresholds {
		if x < t {
			return intPtr(b.ratings[i])
		}
	}
	return intPtr(b.fallback)
}

// ratingScales is keyed by the same metric names as the extractor output, so
// adding or removing a rated metric never touches the averaging logic.
var ratingScales = map[string]bucketScale{
	"revenue":           {thresholds: []float64{1000, 5000, 20000, 50000, 100000}, ratings: []int{0, 1, 2, 3, 4}, fallback: 5},
	"marketCap":         {thresholds: []float64{1000, 5000, 20000, 100000, 500000}, ratings: []int{0, 1, 2, 3, 4}, fallback: 5},
	"peg":               {thresholds: []float64{1, 1.5, 2, 2.5, 3}, ratings: []int{5, 4, 3, 2, 1}, fallback: 0},
	"cagr":              {thresholds: []float64{0, 5, 10, 15, 20}, ratings: []int{0, 1, 2, 3, 4}, fallback: 5},
	"peIndustry":        {thresholds: []float64{0.6, 0.8, 1, 1.2, 1.5}, ratings: []int{5, 4, 3, 2, 1}, fallback: 0},
	"revenueMC":         {multiplier: 100, thresholds: []float64{5, 10, 15, 25, 40}, ratings: []int{0, 1, 2, 3, 4}, fallback: 5},
	"evEbit":            {thresholds: []float64{7, 10, 15, 20, 25}, ratings: []int{5, 4, 3, 2, 1}, fallback: 0},
	"cmpFcf":            {thresholds: []float64{10, 15, 20, 30, 40}, ratings: []int{5, 4, 3, 2, 1}, fallback: 0},
	"roic":              {thresholds: []float64{5, 10, 15, 20, 30}, ratings: []int{0, 1, 2, 3, 4}, fallback: 5},
	"roe":               {thresholds: []float64{8, 12, 15, 20, 30}, ratings: []int{0, 1, 2, 3, 4}, fallback: 5},
	"roce":              {thresholds: []float64{10, 15, 20, 25, 35}, ratings: []int{0, 1, 2, 3, 4}, fallback: 5},
	"opm":               {thresholds: []float64{5, 10, 15, 20, 30}, ratings: []int{0, 1, 2, 3, 4}, fallback: 5},
	"volatility":        {thresholds: []float64{10, 15, 20, 25, 30}, ratings: []int{5, 4, 3, 2, 1}, fallback: 0},
	"beta":              {thresholds: []float64{0.6, 0.8, 1, 1.2, 1.5}, ratings: []int{5, 4, 3, 2, 1}, fallback: 0},
	"revenueVolatility": {thresholds: []float64{10, 15, 20}, ratings: []int{5, 3, 1}, fallback: 0},
	"quickRatio":        {thresholds: []float64{0.8, 1, 1.2, 1.5, 2}, ratings: []int{0, 1, 2, 3, 4}, fallback: 5},
}

func rateMetric(name string, v *float64) *int {
	return ratingScales[name].rate(v)
}

// rateSeasonality departs from the numeric scales: a non-seasonal business
// rates 5, a seasonal one 2, unknown stays unrated.
func rateSeasonality(seasonal *bool) *int {
	if seasonal == nil {
		return nil
	}
	if *seasonal {
		return intPtr(2)
	}
	return intPtr(5)
}

// rateNetDebtProfit rates the net-debt-to-profit multiple. A net-cash balance
// sheet is the best possible outcome regardless of the numeric value.
func rateNetDebtProfit(v *float64, isNetCash bool) *int {
	if isNetCash {
		return intPtr(5)
	}
	if v == nil || *v < 0 {
		return nil
	}
	return bucketScale{
		thresholds: []float64{1, 2, 3, 5},
		ratings:    []int{4, 3, 2, 1},
		fallback:   0,
	}.rate(v)
}

// BuildRatings applies the rating table to each rated metric.
func BuildRatings(m Metrics) Ratings {
	return Ratings{
		Revenue:           rateMetric("revenue", m.Revenue),
		MarketCap:         rateMetric("marketCap", m.MarketCap),
		PEG:               rateMetric("peg", m.PEG),
		CAGR:              rateMetric("cagr", m.CAGR),
		PEIndustry:        rateMetric("peIndustry", m.PEIndustryRatio),
		RevenueMC:         rateMetric("revenueMC", m.RevenueMC),
		EVEBIT:            rateMetric("evEbit", m.EVEBIT),
		CMPFCF:            rateMetric("cmpFcf", m.CMPFCF),
		ROIC:              rateMetric("roic", m.ROIC),
		ROE:               rateMetric("roe", m.ROE),
		ROCE:              rateMetric("roce", m.ROCE),
		OPM:               rateMetric("opm", m.OPM),
		Volatility:        rateMetric("volatility", m.Volatility),
		Beta:              rateMetric("beta", m.Beta),
		Seasonality:       rateSeasonality(m.Seasonality),
		RevenueVolatility: rateMetric("revenueVolatility", m.RevenueVolatility),
		NetDebtProfit:     rateNetDebtProfit(m.NetDebtProfit, m.IsNetCash),
		QuickRatio:        rateMetric("quickRatio", m.QuickRatio),
	}
}

func intPtr(v int) *int { return &v }
