package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/pkg/config"
	"github.com/primogreedy/scout/pkg/httputil"
	"github.com/primogreedy/scout/pkg/logger"
)

func summaryBody(price, marketCap, eps, bookValue, ebitda, totalDebt, totalCash, fcf, currentRatio float64, currency, sector, name string) string {
	return fmt.Sprintf(`{"quoteSummary":{"result":[{
		"price":{"regularMarketPrice":{"raw":%f},"marketCap":{"raw":%f},"currency":%q,"shortName":%q},
		"financialData":{"totalCash":{"raw":%f},"totalDebt":{"raw":%f},"ebitda":{"raw":%f},"freeCashflow":{"raw":%f},"currentRatio":{"raw":%f}},
		"defaultKeyStatistics":{"trailingEps":{"raw":%f},"bookValue":{"raw":%f}},
		"summaryProfile":{"sector":%q}
	}],"error":null}}`,
		price, marketCap, currency, name,
		totalCash, totalDebt, ebitda, fcf, currentRatio,
		eps, bookValue, sector)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	log := logger.NewNop()
	c := New(config.YahooConfig{BaseURL: srv.URL}, httputil.New(log).DisableRetry(), log)
	return c, srv
}

func TestQuoteMapsFundamentals(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/v10/finance/quoteSummary/ACME")
		fmt.Fprint(w, summaryBody(
			12.50, 45_000_000, 1.10, 9.80,
			5_000_000, 8_000_000, 2_000_000, 600_000, 1.8,
			"USD", "Industrials", "Acme Industries"))
	})

	got, err := c.Quote(context.Background(), "ACME", contracts.RegionUSA)
	require.NoError(t, err)

	assert.Equal(t, "ACME", got.Ticker)
	assert.InDelta(t, 12.50, got.Price, 1e-9)
	assert.Equal(t, int64(45_000_000), got.MarketCap)
	assert.InDelta(t, 1.10, got.EPS, 1e-9)
	assert.InDelta(t, 9.80, got.BookValue, 1e-9)
	assert.Equal(t, int64(5_000_000), got.EBITDA)
	assert.Equal(t, int64(6_000_000), got.NetDebt, "net debt = total debt - total cash")
	assert.Equal(t, int64(600_000), got.FreeCashFlow)
	assert.Equal(t, contracts.SectorIndustrial, got.Sector)
	assert.Equal(t, "Acme Industries", got.CompanyName)
	assert.Nil(t, got.CashRunwayMonths, "positive FCF has no runway")
}

func TestQuoteDerivesRunwayForCashBurners(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// burning 4M a year on 3M cash: nine months of runway
		fmt.Fprint(w, summaryBody(
			3.00, 25_000_000, -0.40, 2.00,
			-1_000_000, 0, 3_000_000, -4_000_000, 2.5,
			"USD", "Biotechnology", "Burnco"))
	})

	got, err := c.Quote(context.Background(), "BURN", contracts.RegionUSA)
	require.NoError(t, err)
	require.NotNil(t, got.CashRunwayMonths)
	assert.InDelta(t, 9.0, *got.CashRunwayMonths, 1e-9)
	assert.Equal(t, contracts.SectorTechHealthcare, got.Sector)
}

func TestQuoteNormalizesPenceToGBP(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, summaryBody(
			245.00, 80_000_000, 0.12, 1.90,
			9_000_000, 4_000_000, 6_000_000, 1_000_000, 1.6,
			"GBp", "Industrials", "London Listed plc"))
	})

	got, err := c.Quote(context.Background(), "LLP.L", contracts.RegionUK)
	require.NoError(t, err)
	assert.InDelta(t, 2.45, got.Price, 1e-9)
}

func TestQuoteNoResult(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"quoteSummary":{"result":[],"error":null}}`)
	})
	_, err := c.Quote(context.Background(), "NOPE", contracts.RegionUSA)
	assert.Error(t, err)
}

func TestResolveTriesSuffixesInOrder(t *testing.T) {
	var requested []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		symbol := parts[len(parts)-1]
		requested = append(requested, symbol)
		if symbol == "ABCD.TO" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprint(w, summaryBody(
			4.00, 30_000_000, 0.50, 5.00,
			2_000_000, 1_000_000, 500_000, 100_000, 1.2,
			"CAD", "Energy", "Abcd Resources"))
	})

	got, err := c.Resolve(context.Background(), "ABCD", contracts.RegionCanada)
	require.NoError(t, err)
	assert.Equal(t, "ABCD.V", got.Ticker)
	assert.Equal(t, []string{"ABCD.TO", "ABCD.V"}, requested)
}

func TestResolveAllSuffixesFail(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err := c.Resolve(context.Background(), "ABCD", contracts.RegionCanada)
	assert.Error(t, err)
}

const trendingPage = `<html><body><table><tbody>
<tr><td><a href="/quote/AAPL/">AAPL</a></td></tr>
<tr><td><a href="/quote/ABCD?p=ABCD">ABCD</a></td></tr>
<tr><td><a href="/quote/WXYZ.L/">WXYZ.L</a></td></tr>
<tr><td><a href="/quote/AAPL/">AAPL dup</a></td></tr>
<tr><td><a href="/markets/other">not a quote</a></td></tr>
<tr><td><a href="/quote/ETF/">noise word</a></td></tr>
</tbody></table></body></html>`

func newTestTrending(t *testing.T) *Trending {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets/stocks/trending/", r.URL.Path)
		fmt.Fprint(w, trendingPage)
	}))
	t.Cleanup(srv.Close)
	log := logger.NewNop()
	return NewTrending(srv.URL, httputil.New(log).DisableRetry(), log, 0)
}

func TestFetchTrendingUSKeepsBareSymbols(t *testing.T) {
	got, err := newTestTrending(t).FetchTrending(context.Background(), contracts.RegionUSA)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "ABCD"}, got)
}

func TestFetchTrendingUKKeepsSuffixedSymbols(t *testing.T) {
	got, err := newTestTrending(t).FetchTrending(context.Background(), contracts.RegionUK)
	require.NoError(t, err)
	assert.Equal(t, []string{"WXYZ.L"}, got)
}
