package quote

// rawValue is the provider's numeric field wrapper. Formatted string variants
// are ignored, only the raw number matters.
type rawValue struct {
	Raw *float64 `json:"raw"`
}

func (v *rawValue) value() *float64 {
	if v == nil {
		return nil
	}
	return v.Raw
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *apiError       `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	Price                *priceModule         `json:"price"`
	SummaryDetail        *summaryDetailModule `json:"summaryDetail"`
	DefaultKeyStatistics *keyStatsModule      `json:"defaultKeyStatistics"`
	FinancialData        *financialModule     `json:"financialData"`

	BalanceSheetHistory *struct {
		BalanceSheetStatements []balanceSheetStatement `json:"balanceSheetStatements"`
	} `json:"balanceSheetHistory"`

	IncomeStatementHistory *struct {
		IncomeStatementHistory []incomeStatement `json:"incomeStatementHistory"`
	} `json:"incomeStatementHistory"`

	CashflowStatementHistory *struct {
		CashflowStatements []cashflowStatement `json:"cashflowStatements"`
	} `json:"cashflowStatementHistory"`
}

type priceModule struct {
	LongName           string    `json:"longName"`
	ShortName          string    `json:"shortName"`
	Sector             string    `json:"sector"`
	RegularMarketPrice *rawValue `json:"regularMarketPrice"`
	MarketCap          *rawValue `json:"marketCap"`
}

type summaryDetailModule struct {
	TrailingPE *rawValue `json:"trailingPE"`
	Beta       *rawValue `json:"beta"`
}

type keyStatsModule struct {
	PEGRatio          *rawValue `json:"pegRatio"`
	ForwardPE         *rawValue `json:"forwardPE"`
	TrailingEps       *rawValue `json:"trailingEps"`
	EnterpriseValue   *rawValue `json:"enterpriseValue"`
	SharesOutstanding *rawValue `json:"sharesOutstanding"`
	Beta              *rawValue `json:"beta"`
}

type financialModule struct {
	TotalRevenue      *rawValue `json:"totalRevenue"`
	Ebitda            *rawValue `json:"ebitda"`
	TotalCash         *rawValue `json:"totalCash"`
	ReturnOnEquity    *rawValue `json:"returnOnEquity"`
	OperatingMargins  *rawValue `json:"operatingMargins"`
	QuickRatio        *rawValue `json:"quickRatio"`
	FreeCashflow      *rawValue `json:"freeCashflow"`
	NetIncomeToCommon *rawValue `json:"netIncomeToCommon"`
}

type balanceSheetStatement struct {
	LongTermDebt            *rawValue `json:"longTermDebt"`
	ShortLongTermDebt       *rawValue `json:"shortLongTermDebt"`
	TotalStockholderEquity  *rawValue `json:"totalStockholderEquity"`
	Cash                    *rawValue `json:"cash"`
	TotalAssets             *rawValue `json:"totalAssets"`
	TotalCurrentLiabilities *rawValue `json:"totalCurrentLiabilities"`
}

type incomeStatement struct {
	TotalRevenue    *rawValue `json:"totalRevenue"`
	Ebit            *rawValue `json:"ebit"`
	OperatingIncome *rawValue `json:"operatingIncome"`
	NetIncome       *rawValue `json:"netIncome"`
}

type cashflowStatement struct {
	CapitalExpenditures *rawValue `json:"capitalExpenditures"`
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartQuote struct {
	Close []*float64 `json:"close"`
}
