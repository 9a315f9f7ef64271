package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/quantmeter/stock-scorecard/internal/errors"
	"github.com/quantmeter/stock-scorecard/internal/monitoring"
	"github.com/quantmeter/stock-scorecard/internal/resilience"
	"github.com/quantmeter/stock-scorecard/internal/types"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com"
	requestTimeout = 30 * time.Second

	// The provider rejects requests without a browser user agent.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	summaryModules = "price,summaryDetail,defaultKeyStatistics,financialData," +
		"balanceSheetHistory,incomeStatementHistory,cashflowStatementHistory"
)

// ServiceName identifies the quote provider in health tracking.
const ServiceName = "yahoo-finance"

// Client fetches fundamentals and price history from the quote provider. It
// satisfies analysis.Fetcher.
type Client struct {
	baseURL   string
	transport *resilience.Transport
	limiter   *rate.Limiter

	metrics *monitoring.Metrics
	logger  *monitoring.Logger
}

// NewClient creates a client against the production provider endpoint.
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a client against a custom endpoint, used by
// tests to point at a local server.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		transport: resilience.NewTransport(20, 10, requestTimeout,
			resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})),
		limiter: rate.NewLimiter(rate.Limit(2), 4),
	}
}

// SetInstrumentation attaches the application metrics and logger so every
// outbound fetch is counted and logged. Both are optional.
func (c *Client) SetInstrumentation(metrics *monitoring.Metrics, logger *monitoring.Logger) {
	c.metrics = metrics
	c.logger = logger
}

// Fundamentals fetches the quote summary for one symbol and flattens it.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (*types.Fundamentals, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(summaryModules))

	var resp quoteSummaryResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	if resp.QuoteSummary.Error != nil {
		msg := resp.QuoteSummary.Error.Description
		if msg == "" {
			msg = "Yahoo Finance error"
		}
		return nil, apperrors.NewProviderError(msg, nil)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf("No data found for %s. Check ticker symbol.", symbol))
	}

	return flattenSummary(&resp.QuoteSummary.Result[0], symbol), nil
}

// PriceHistory fetches daily closes for the given unix time range.
func (c *Client) PriceHistory(ctx context.Context, symbol string, start, end int64) ([]types.Close, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.baseURL, url.PathEscape(symbol), start, end)

	var resp chartResponse
	if err := c.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		msg := resp.Chart.Error.Description
		if msg == "" {
			msg = "Yahoo Finance error"
		}
		return nil, apperrors.NewProviderError(msg, nil)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf("No price history found for %s", symbol))
	}

	result := resp.Chart.Result[0]
	prices := result.Indicators.Quote[0].Close

	closes := make([]types.Close, len(prices))
	for i, p := range prices {
		var ts int64
		if i < len(result.Timestamp) {
			ts = result.Timestamp[i]
		}
		closes[i] = types.Close{Timestamp: ts, Price: p}
	}
	return closes, nil
}

// PoolStats exposes the underlying transport statistics.
func (c *Client) PoolStats() map[string]interface{} {
	return c.transport.Stats()
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.transport.Close()
}

// getJSON performs a throttled, retried GET and decodes the body. The provider
// reports semantic errors inside the JSON envelope, so the body is decoded
// regardless of HTTP status.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.ToAppError(err)
	}

	if c.metrics != nil {
		c.metrics.IncrementQuoteCalls()
	}

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	headers := map[string]string{
		"User-Agent": userAgent,
		"Accept":     "application/json",
	}

	start := time.Now()
	statusCode := 0
	err := resilience.Retry(reqCtx, func() error {
		resp, err := c.transport.Do(reqCtx, http.MethodGet, endpoint, headers)
		if err != nil {
			return apperrors.ToAppError(err)
		}
		defer resp.Body.Close()
		statusCode = resp.StatusCode

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return apperrors.NewNetworkError("Failed to read provider response", err)
		}

		if err := json.Unmarshal(body, out); err != nil {
			if resp.StatusCode >= http.StatusInternalServerError {
				return apperrors.NewProviderError(
					fmt.Sprintf("Provider returned status %d", resp.StatusCode), err)
			}
			return apperrors.NewMalformedResponseError("Invalid JSON response", err)
		}
		return nil
	})

	resilience.RecordRequest(ServiceName, err == nil)
	if c.logger != nil {
		c.logger.ExternalAPILogger(ServiceName, http.MethodGet, endpoint, statusCode, time.Since(start), err == nil)
	}
	if err != nil {
		return apperrors.ToAppError(err)
	}
	return nil
}

// flattenSummary maps the provider's nested module layout onto the flat
// snapshot the analysis pipeline consumes.
func flattenSummary(res *summaryResult, symbol string) *types.Fundamentals {
	var price priceModule
	if res.Price != nil {
		price = *res.Price
	}
	var summary summaryDetailModule
	if res.SummaryDetail != nil {
		summary = *res.SummaryDetail
	}
	var keyStats keyStatsModule
	if res.DefaultKeyStatistics != nil {
		keyStats = *res.DefaultKeyStatistics
	}
	var financial financialModule
	if res.FinancialData != nil {
		financial = *res.FinancialData
	}

	var bs balanceSheetStatement
	if res.BalanceSheetHistory != nil && len(res.BalanceSheetHistory.BalanceSheetStatements) > 0 {
		bs = res.BalanceSheetHistory.BalanceSheetStatements[0]
	}

	var inc incomeStatement
	var revenueHistory []*float64
	if res.IncomeStatementHistory != nil {
		history := res.IncomeStatementHistory.IncomeStatementHistory
		if len(history) > 0 {
			inc = history[0]
		}
		revenueHistory = make([]*float64, len(history))
		for i, stmt := range history {
			revenueHistory[i] = stmt.TotalRevenue.value()
		}
	}

	var cf cashflowStatement
	if res.CashflowStatementHistory != nil && len(res.CashflowStatementHistory.CashflowStatements) > 0 {
		cf = res.CashflowStatementHistory.CashflowStatements[0]
	}

	name := price.LongName
	if name == "" {
		name = price.ShortName
	}
	if name == "" {
		name = symbol
	}

	return &types.Fundamentals{
		Name:   name,
		Sector: price.Sector,

		RegularMarketPrice: price.RegularMarketPrice.value(),
		MarketCap:          price.MarketCap.value(),

		TrailingPE:        summary.TrailingPE.value(),
		ForwardPE:         keyStats.ForwardPE.value(),
		PEGRatio:          keyStats.PEGRatio.value(),
		EnterpriseValue:   keyStats.EnterpriseValue.value(),
		TrailingEPS:       keyStats.TrailingEps.value(),
		SharesOutstanding: keyStats.SharesOutstanding.value(),

		TotalRevenue:    inc.TotalRevenue.value(),
		TotalRevenueTTM: financial.TotalRevenue.value(),
		EBIT:            inc.Ebit.value(),
		EBITDA:          financial.Ebitda.value(),
		OperatingIncome: inc.OperatingIncome.value(),
		NetIncome:       inc.NetIncome.value(),
		RevenueHistory:  revenueHistory,

		LongTermDebt:            bs.LongTermDebt.value(),
		ShortLongTermDebt:       bs.ShortLongTermDebt.value(),
		TotalStockholderEquity:  bs.TotalStockholderEquity.value(),
		Cash:                    bs.Cash.value(),
		TotalCash:               financial.TotalCash.value(),
		TotalAssets:             bs.TotalAssets.value(),
		TotalCurrentLiabilities: bs.TotalCurrentLiabilities.value(),

		CapitalExpenditures: cf.CapitalExpenditures.value(),

		ReturnOnEquity:    financial.ReturnOnEquity.value(),
		OperatingMargins:  financial.OperatingMargins.value(),
		QuickRatio:        financial.QuickRatio.value(),
		FreeCashflow:      financial.FreeCashflow.value(),
		NetIncomeToCommon: financial.NetIncomeToCommon.value(),
		Beta:              summary.Beta.value(),
		KeyStatsBeta:      keyStats.Beta.value(),
	}
}
