// Package brave implements the web-search trending feed: themed
// queries against the Brave Search API, ticker extraction from the
// result text. It is a supplementary discovery signal; the structured
// screener remains the primary feed.
package brave

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/internal/tickers"
	"github.com/primogreedy/scout/pkg/config"
	"github.com/primogreedy/scout/pkg/httputil"
	"github.com/primogreedy/scout/pkg/logger"
)

const (
	resultCount = 15
	maxTickers  = 20
)

// Client queries the search API for trending micro-cap chatter
type Client struct {
	http    *httputil.Client
	baseURL string
	apiKey  string
	logger  *logger.Logger
}

// New creates a trending search client. The http client should carry
// the shared rate limiter; the free API tier is one request a second.
func New(cfg config.BraveConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		logger:  log,
	}
}

// queries are the themed discovery searches; one is picked per run so
// repeated runs sample different corners of the chatter.
var queries = []string{
	"best undervalued microcap stocks %s 2026",
	"hidden gem penny stocks %s insider buying",
	"small cap stocks breaking out %s this week",
	"reddit microcap stocks %s deep value",
	"unusual volume small cap %s today",
}

type searchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// FetchTrending implements discovery.TrendingFeed. A missing API key
// or a quota rejection surfaces as feed-unavailable so the pool
// builder degrades to the screener alone.
func (c *Client) FetchTrending(ctx context.Context, region contracts.Region) ([]string, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("trending search: %w: no API key configured", contracts.ErrFeedUnavailable)
	}

	query := fmt.Sprintf(queries[rand.Intn(len(queries))], region)
	endpoint := fmt.Sprintf("%s/web/search?q=%s&count=%d&freshness=pw",
		c.baseURL, url.QueryEscape(query), resultCount)

	resp, err := c.http.GetWithHeaders(ctx, endpoint, map[string]string{
		"Accept":               "application/json",
		"X-Subscription-Token": c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("trending search: %w: %v", contracts.ErrFeedUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("trending search: %w: status %d", contracts.ErrFeedUnavailable, resp.StatusCode)
	}

	var out searchResponse
	if err := httputil.DecodeJSON(resp, &out); err != nil {
		return nil, fmt.Errorf("trending search decode: %w", err)
	}

	var text strings.Builder
	for _, r := range out.Web.Results {
		text.WriteString(r.Title)
		text.WriteString(" ")
		text.WriteString(r.Description)
		text.WriteString(" ")
	}

	found := tickers.Extract(text.String())
	if len(found) > maxTickers {
		found = found[:maxTickers]
	}

	c.logger.WithFields(map[string]interface{}{
		"region":  region,
		"query":   query,
		"tickers": len(found),
	}).Debug("Trending search extracted tickers")
	return found, nil
}
