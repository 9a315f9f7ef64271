package analysis

// categoryWeights determine how the six category scores combine into the
// final score. Weights over unavailable categories are renormalized, never
// redistributed by hand.
var categoryWeights = map[string]float64{
	"scale":   0.15,
	"growth":  0.15,
	"value":   0.25,
	"quality": 0.25,
	"risk":    0.10,
	"balance": 0.10,
}

// meanRating averages the non-nil members; nil only when every member is nil.
func meanRating(members ...*int) *float64 {
	sum, n := 0, 0
	for _, m := range members {
		if m != nil {
			sum += *m
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return floatPtr(float64(sum) / float64(n))
}

// ScoreCategories folds the ratings into the six fixed category means.
func ScoreCategories(r Ratings) CategoryScores {
	return CategoryScores{
		Scale:   meanRating(r.Revenue, r.MarketCap),
		Growth:  meanRating(r.PEG, r.CAGR),
		Value:   meanRating(r.PEIndustry, r.RevenueMC, r.EVEBIT, r.CMPFCF),
		Quality: meanRating(r.ROIC, r.ROE, r.ROCE, r.OPM),
		Risk:    meanRating(r.Volatility, r.Beta, r.Seasonality, r.RevenueVolatility),
		Balance: meanRating(r.NetDebtProfit, r.QuickRatio),
	}
}

// FinalScore combines the category scores with the fixed weights. Categories
// without a value drop out of both numerator and denominator, so the result
// is always a proper weighted mean over what is known; nil when nothing is.
func FinalScore(cs CategoryScores) *float64 {
	parts := []struct {
		score  *float64
		weight float64
	}{
		{cs.Scale, categoryWeights["scale"]},
		{cs.Growth, categoryWeights["growth"]},
		{cs.Value, categoryWeights["value"]},
		{cs.Quality, categoryWeights["quality"]},
		{cs.Risk, categoryWeights["risk"]},
		{cs.Balance, categoryWeights["balance"]},
	}

	var weighted, total float64
	for _, p := range parts {
		if p.score != nil {
			weighted += p.weight * *p.score
			total += p.weight
		}
	}
	if total == 0 {
		return nil
	}
	return floatPtr(weighted / total)
}
