// Package tickers holds symbol plumbing shared by the discovery feeds:
// extracting plausible symbols from free text, appending exchange
// suffixes for non-US regions, and normalizing quote currency quirks.
package tickers

import (
	"regexp"
	"strings"

	"github.com/primogreedy/scout/internal/contracts"
)

// noiseWords are uppercase tokens that look like tickers but are common
// English words, finance jargon or outlet names. Search result titles
// are full of them.
var noiseWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"THE", "AND", "FOR", "ARE", "NOT", "YOU", "ALL", "CAN", "ONE", "OUT",
		"HAS", "NEW", "NOW", "SEE", "WHO", "GET", "SHE", "TOO", "USE", "NONE",
		"THIS", "THAT", "WITH", "HAVE", "FROM", "THEY", "BEEN", "SAID", "MAKE",
		"LIKE", "JUST", "OVER", "SUCH", "TAKE", "YEAR", "SOME", "MOST", "VERY",
		"WHEN", "WHAT", "YOUR", "ALSO", "INTO", "ROLE", "TASK", "INPUT", "STOCK",
		"TICKER", "CAP", "MICRO", "NANO", "CEO", "CFO", "BUY", "SELL", "LOW",
		"HIGH", "ATH", "ETF", "USA", "USD", "YTD", "TOP", "HOT", "BEST", "LIVE",
		"DATA", "GDP", "CPI", "FED", "FOMC", "PCE", "PPI", "CNBC", "NYSE",
		"NASDAQ", "NEWS", "REAL", "TIME", "TODAY", "WSJ", "SEC", "WHY", "IPO",
		"GBP", "EUR", "EPS", "FYI", "AGM",
	} {
		noiseWords[w] = struct{}{}
	}
}

var (
	bareTickerRe = regexp.MustCompile(`\b([A-Z]{2,5}(?:\.[A-Z]{1,2})?)\b`)
	nonTickerRe  = regexp.MustCompile(`[^A-Z.]`)
)

// Extract pulls plausible ticker symbols out of free-form text: search
// result titles, cashtag lists, comma-separated extraction output.
// Returns a deduplicated slice preserving discovery order.
func Extract(text string) []string {
	cleaned := strings.ToUpper(strings.TrimSpace(text))

	var parts []string
	if strings.Contains(cleaned, ",") {
		for _, p := range strings.Split(cleaned, ",") {
			parts = append(parts, nonTickerRe.ReplaceAllString(p, ""))
		}
	} else {
		parts = bareTickerRe.FindAllString(cleaned, -1)
	}

	seen := make(map[string]struct{}, len(parts))
	result := make([]string, 0, len(parts))
	for _, t := range parts {
		if len(t) < 2 {
			continue
		}
		if _, noise := noiseWords[t]; noise {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}

// IsNoise reports whether a token is on the noise list.
func IsNoise(token string) bool {
	_, ok := noiseWords[strings.ToUpper(token)]
	return ok
}

// SuffixCandidates returns the exchange-qualified symbols to try, in
// order, for a bare ticker in the given region. A ticker that already
// carries a suffix is returned as-is. For the US the bare symbol is the
// listing symbol.
func SuffixCandidates(raw string, region contracts.Region) []string {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if strings.Contains(raw, ".") {
		return []string{raw}
	}
	suffixes := region.Suffixes()
	if len(suffixes) == 0 {
		return []string{raw}
	}
	out := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		out = append(out, raw+s)
	}
	return out
}

// NormalizePrice converts London quotes from pence to pounds. LSE feeds
// quote in GBp, a hundredth of a pound, and everything downstream
// assumes major units.
func NormalizePrice(price float64, ticker, currency string) float64 {
	if strings.HasSuffix(ticker, ".L") || currency == "GBp" || currency == "GBX" {
		return price / 100
	}
	return price
}
