// Package yahoo adapts the public quote endpoints into the candidate
// fundamentals the pipeline consumes. It backs both the structured
// screener feed and the trending-ticker resolver.
package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/internal/tickers"
	"github.com/primogreedy/scout/pkg/config"
	"github.com/primogreedy/scout/pkg/httputil"
	"github.com/primogreedy/scout/pkg/logger"
)

// Client fetches quote fundamentals. One upstream call per symbol;
// the pool builder bounds how many symbols a run touches.
type Client struct {
	http    *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// New creates a quote client
func New(cfg config.YahooConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: cfg.BaseURL,
		logger:  log,
	}
}

// rawValue is the {raw, fmt} number wrapper the quote summary API
// uses for every numeric field
type rawValue struct {
	Raw float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				RegularMarketPrice rawValue `json:"regularMarketPrice"`
				MarketCap          rawValue `json:"marketCap"`
				Currency           string   `json:"currency"`
				ShortName          string   `json:"shortName"`
			} `json:"price"`
			FinancialData struct {
				TotalCash    rawValue `json:"totalCash"`
				TotalDebt    rawValue `json:"totalDebt"`
				EBITDA       rawValue `json:"ebitda"`
				FreeCashflow rawValue `json:"freeCashflow"`
				CurrentRatio rawValue `json:"currentRatio"`
			} `json:"financialData"`
			DefaultKeyStatistics struct {
				TrailingEps rawValue `json:"trailingEps"`
				BookValue   rawValue `json:"bookValue"`
			} `json:"defaultKeyStatistics"`
			SummaryProfile struct {
				Sector string `json:"sector"`
			} `json:"summaryProfile"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Quote fetches fundamentals for one symbol and maps them into a
// candidate. Pence quotes are normalized to pounds, net debt is
// derived from total debt and cash, and a cash runway is derived for
// cash-burning names.
func (c *Client) Quote(ctx context.Context, symbol string, region contracts.Region) (*contracts.Candidate, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(symbol),
		"price,financialData,defaultKeyStatistics,summaryProfile")

	resp, err := c.http.GetWithHeaders(ctx, endpoint, map[string]string{
		"User-Agent": "Mozilla/5.0",
	})
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("quote %s: status %d", symbol, resp.StatusCode)
	}

	var out quoteSummaryResponse
	if err := httputil.DecodeJSON(resp, &out); err != nil {
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}
	if out.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote %s: %s", symbol, out.QuoteSummary.Error.Description)
	}
	if len(out.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quote %s: no result", symbol)
	}

	r := out.QuoteSummary.Result[0]
	currency := r.Price.Currency

	candidate := &contracts.Candidate{
		Ticker:       symbol,
		Region:       region,
		Price:        tickers.NormalizePrice(r.Price.RegularMarketPrice.Raw, symbol, currency),
		MarketCap:    int64(r.Price.MarketCap.Raw),
		EPS:          r.DefaultKeyStatistics.TrailingEps.Raw,
		BookValue:    r.DefaultKeyStatistics.BookValue.Raw,
		EBITDA:       int64(r.FinancialData.EBITDA.Raw),
		NetDebt:      int64(r.FinancialData.TotalDebt.Raw - r.FinancialData.TotalCash.Raw),
		FreeCashFlow: int64(r.FinancialData.FreeCashflow.Raw),
		CurrentRatio: r.FinancialData.CurrentRatio.Raw,
		Sector:       contracts.MapSector(r.SummaryProfile.Sector),
		CompanyName:  r.Price.ShortName,
	}

	// Cash runway only means something for a cash burner
	if fcf := r.FinancialData.FreeCashflow.Raw; fcf < 0 && r.FinancialData.TotalCash.Raw > 0 {
		months := r.FinancialData.TotalCash.Raw / -fcf * 12
		candidate.CashRunwayMonths = &months
	}

	return candidate, nil
}

// Resolve turns a bare trending ticker into a candidate by trying the
// region's exchange suffixes in order. The first listing with a real
// market cap wins.
func (c *Client) Resolve(ctx context.Context, ticker string, region contracts.Region) (*contracts.Candidate, error) {
	var lastErr error
	for _, symbol := range tickers.SuffixCandidates(ticker, region) {
		candidate, err := c.Quote(ctx, symbol, region)
		if err != nil {
			lastErr = err
			continue
		}
		if candidate.MarketCap > 0 {
			return candidate, nil
		}
		lastErr = fmt.Errorf("resolve %s: no market cap for %s", ticker, symbol)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("resolve %s: no listing found", ticker)
	}
	return nil, lastErr
}
