package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/internal/tickers"
	"github.com/primogreedy/scout/pkg/httputil"
	"github.com/primogreedy/scout/pkg/logger"
)

// Trending scrapes the public trending-tickers page. It is the
// fallback trending feed when the search API is not configured; the
// page carries no auth and no quota.
type Trending struct {
	http    *httputil.Client
	baseURL string
	logger  *logger.Logger
	max     int
}

// NewTrending creates the HTML trending feed. baseURL points at the
// www host, not the query API host.
func NewTrending(baseURL string, httpClient *httputil.Client, log *logger.Logger, max int) *Trending {
	if baseURL == "" {
		baseURL = "https://finance.yahoo.com"
	}
	if max <= 0 {
		max = 20
	}
	return &Trending{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
		max:     max,
	}
}

// FetchTrending implements discovery.TrendingFeed. Symbols are pulled
// from quote links in the page and filtered to the region by exchange
// suffix; bare symbols count as US listings.
func (t *Trending) FetchTrending(ctx context.Context, region contracts.Region) ([]string, error) {
	resp, err := t.http.GetWithHeaders(ctx, t.baseURL+"/markets/stocks/trending/", map[string]string{
		"User-Agent": "Mozilla/5.0",
	})
	if err != nil {
		return nil, fmt.Errorf("trending page: %w: %v", contracts.ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trending page: %w: status %d", contracts.ErrFeedUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("trending page parse: %w", err)
	}

	seen := make(map[string]struct{})
	symbols := make([]string, 0, t.max)

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		symbol, ok := symbolFromQuoteLink(href)
		if !ok || tickers.IsNoise(symbol) || !matchesRegion(symbol, region) {
			return true
		}
		if _, dup := seen[symbol]; dup {
			return true
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
		return len(symbols) < t.max
	})

	t.logger.WithFields(map[string]interface{}{
		"region":  region,
		"symbols": len(symbols),
	}).Debug("Trending page scraped")
	return symbols, nil
}

// symbolFromQuoteLink extracts the symbol from a /quote/SYM link
func symbolFromQuoteLink(href string) (string, bool) {
	const prefix = "/quote/"
	i := strings.Index(href, prefix)
	if i < 0 {
		return "", false
	}
	rest := href[i+len(prefix):]
	if j := strings.IndexAny(rest, "/?"); j >= 0 {
		rest = rest[:j]
	}
	rest = strings.ToUpper(strings.TrimSpace(rest))
	if len(rest) < 2 || len(rest) > 12 {
		return "", false
	}
	return rest, true
}

// matchesRegion keeps symbols listed on the region's exchanges
func matchesRegion(symbol string, region contracts.Region) bool {
	suffixes := region.Suffixes()
	if len(suffixes) == 0 {
		return !strings.Contains(symbol, ".")
	}
	for _, s := range suffixes {
		if strings.HasSuffix(symbol, s) {
			return true
		}
	}
	return false
}
