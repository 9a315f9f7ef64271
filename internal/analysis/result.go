package analysis

// Metrics holds every derived metric for one ticker. A nil field means the
// metric could not be computed from the source data.
type Metrics struct {
	Revenue   *float64 `json:"revenue"`
	MarketCap *float64 `json:"marketCap"`

	PEG  *float64 `json:"peg"`
	CAGR *float64 `json:"cagr"`

	PE              *float64 `json:"pe"`
	ForwardPE       *float64 `json:"forwardPE"`
	IndustryPE      *float64 `json:"industryPE"`
	PEIndustryRatio *float64 `json:"peIndustryRatio"`
	RevenueMC       *float64 `json:"revenueMC"`
	EPS             *float64 `json:"eps"`
	EVEBIT          *float64 `json:"evEbit"`
	CMPFCF          *float64 `json:"cmpFcf"`

	ROIC *float64 `json:"roic"`
	ROE  *float64 `json:"roe"`
	ROCE *float64 `json:"roce"`
	OPM  *float64 `json:"opm"`

	Volatility            *float64 `json:"volatility"`
	Beta                  *float64 `json:"beta"`
	Seasonality           *bool    `json:"seasonality"`
	SeasonalityText       string   `json:"seasonalityText,omitempty"`
	RevenueVolatility     *float64 `json:"revenueVolatility"`
	RevenueVolatilityText string   `json:"revenueVolatilityText,omitempty"`

	IsNetCash         bool     `json:"isNetCash"`
	NetDebtProfit     *float64 `json:"netDebtProfit"`
	NetDebtProfitText string   `json:"netDebtProfitText,omitempty"`
	QuickRatio        *float64 `json:"quickRatio"`

	// Informational only, never rated.
	Capex        *float64 `json:"capex"`
	CapexRevenue *float64 `json:"capexRevenue"`
}

// Ratings maps each rated metric to a 0-5 rating, nil when the metric was
// unavailable.
type Ratings struct {
	Revenue           *int `json:"revenue"`
	MarketCap         *int `json:"marketCap"`
	PEG               *int `json:"peg"`
	CAGR              *int `json:"cagr"`
	PEIndustry        *int `json:"peIndustry"`
	RevenueMC         *int `json:"revenueMC"`
	EVEBIT            *int `json:"evEbit"`
	CMPFCF            *int `json:"cmpFcf"`
	ROIC              *int `json:"roic"`
	ROE               *int `json:"roe"`
	ROCE              *int `json:"roce"`
	OPM               *int `json:"opm"`
	Volatility        *int `json:"volatility"`
	Beta              *int `json:"beta"`
	Seasonality       *int `json:"seasonality"`
	RevenueVolatility *int `json:"revenueVolatility"`
	NetDebtProfit     *int `json:"netDebtProfit"`
	QuickRatio        *int `json:"quickRatio"`
}

// CategoryScores holds the six category means, each in [0,5] or nil when no
// contributing rating was available.
type CategoryScores struct {
	Scale   *float64 `json:"scale"`
	Growth  *float64 `json:"growth"`
	Value   *float64 `json:"value"`
	Quality *float64 `json:"quality"`
	Risk    *float64 `json:"risk"`
	Balance *float64 `json:"balance"`
}

// Result is the complete scoring outcome for one ticker. When Error is set,
// every other field is left at its zero value.
type Result struct {
	Ticker         string         `json:"ticker"`
	Name           string         `json:"name"`
	Sector         string         `json:"sector,omitempty"`
	Metrics        Metrics        `json:"metrics"`
	Ratings        Ratings        `json:"ratings"`
	CategoryScores CategoryScores `json:"categoryScores"`
	FinalScore     *float64       `json:"finalScore"`
	Error          string         `json:"error,omitempty"`
}
