package types

// Fundamentals is a flattened snapshot of one ticker's fundamentals as
// reported by the data provider. A nil field was absent from the provider
// response; zero values are kept as-is.
type Fundamentals struct {
	Name   string
	Sector string

	RegularMarketPrice *float64
	MarketCap          *float64

	TrailingPE        *float64
	ForwardPE         *float64
	PEGRatio          *float64
	EnterpriseValue   *float64
	TrailingEPS       *float64
	SharesOutstanding *float64

	// Income statement (most recent period) plus the trailing-twelve-month
	// revenue the provider reports separately.
	TotalRevenue    *float64
	TotalRevenueTTM *float64
	EBIT            *float64
	EBITDA          *float64
	OperatingIncome *float64
	NetIncome       *float64
	// RevenueHistory lists total revenue per historical period, most recent
	// first. May hold nil entries.
	RevenueHistory []*float64

	LongTermDebt            *float64
	ShortLongTermDebt       *float64
	TotalStockholderEquity  *float64
	Cash                    *float64
	TotalCash               *float64
	TotalAssets             *float64
	TotalCurrentLiabilities *float64

	CapitalExpenditures *float64

	ReturnOnEquity    *float64
	OperatingMargins  *float64
	QuickRatio        *float64
	FreeCashflow      *float64
	NetIncomeToCommon *float64
	// Beta from summaryDetail; KeyStatsBeta is the defaultKeyStatistics
	// fallback used when the former is missing or zero.
	Beta         *float64
	KeyStatsBeta *float64
}

// Close is one daily bar from the price history endpoint. Price is nil on
// days the provider reports no close.
type Close struct {
	Timestamp int64
	Price     *float64
}

// AnalyzeRequest is the request body for the analyze endpoint.
type AnalyzeRequest struct {
	Tickers []string `json:"tickers" binding:"required"`
}
