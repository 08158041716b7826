// Package finnhub supplies the insider-sentiment signal the memo
// prompt includes for US names. Insider buying is one of the stronger
// known signals in micro-caps, so the analyst gets it as context.
package finnhub

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/primogreedy/scout/pkg/config"
	"github.com/primogreedy/scout/pkg/httputil"
	"github.com/primogreedy/scout/pkg/logger"
)

const lookback = 180 * 24 * time.Hour

// Client fetches insider sentiment
type Client struct {
	http    *httputil.Client
	baseURL string
	apiKey  string
	logger  *logger.Logger
	now     func() time.Time
}

// New creates an insider-sentiment client
func New(cfg config.FinnhubConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  log,
		now:     time.Now,
	}
}

type sentimentResponse struct {
	Data []struct {
		MSPR   float64 `json:"mspr"`
		Change float64 `json:"change"`
	} `json:"data"`
}

// InsiderSentiment aggregates six months of MSPR (monthly share
// purchase ratio) into a one-line summary for the memo prompt. The
// endpoint only covers US listings; suffixed tickers and missing keys
// return an empty string rather than an error since the signal is
// strictly optional.
func (c *Client) InsiderSentiment(ctx context.Context, ticker string) (string, error) {
	if c.apiKey == "" || strings.Contains(ticker, ".") {
		return "", nil
	}

	to := c.now()
	from := to.Add(-lookback)
	endpoint := fmt.Sprintf("%s/stock/insider-sentiment?symbol=%s&from=%s&to=%s&token=%s",
		c.baseURL, url.QueryEscape(ticker),
		from.Format("2006-01-02"), to.Format("2006-01-02"),
		url.QueryEscape(c.apiKey))

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("insider sentiment %s: %w", ticker, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return "", fmt.Errorf("insider sentiment %s: status %d", ticker, resp.StatusCode)
	}

	var out sentimentResponse
	if err := httputil.DecodeJSON(resp, &out); err != nil {
		return "", fmt.Errorf("insider sentiment %s: %w", ticker, err)
	}
	if len(out.Data) == 0 {
		return "", nil
	}

	var totalMSPR, totalChange float64
	for _, r := range out.Data {
		totalMSPR += r.MSPR
		totalChange += r.Change
	}

	return summarize(totalMSPR, totalChange), nil
}

func summarize(mspr, change float64) string {
	var label string
	switch {
	case mspr > 0:
		label = "bullish, net insider buying"
	case mspr < 0:
		label = "bearish, net insider selling"
	default:
		label = "neutral"
	}
	return fmt.Sprintf("%s (6mo MSPR %.2f, net %s shares)",
		label, mspr, formatShares(change))
}

func formatShares(n float64) string {
	a := math.Abs(n)
	sign := "+"
	if n < 0 {
		sign = "-"
	}
	switch {
	case a >= 1_000_000:
		return fmt.Sprintf("%s%.1fM", sign, a/1_000_000)
	case a >= 1_000:
		return fmt.Sprintf("%s%.1fK", sign, a/1_000)
	default:
		return fmt.Sprintf("%s%.0f", sign, a)
	}
}
