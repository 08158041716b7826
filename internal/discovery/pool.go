// Package discovery builds the per-region candidate pool by merging
// the structured screener feed with web-sourced trending tickers.
package discovery

import (
	"context"
	"fmt"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/internal/ledger"
	"github.com/primogreedy/scout/internal/strategyconfig"
	"github.com/primogreedy/scout/pkg/logger"
)

// PoolBuilder merges the two raw feeds, deduplicates by ticker,
// drops ledger-fresh names and pre-filters structurally ineligible
// candidates before any scoring work is spent on them.
type PoolBuilder struct {
	screener ScreenerFeed
	trending TrendingFeed
	resolver Resolver
	ledger   ledger.Store
	clock    ledger.Clock
	filters  strategyconfig.Pool
	logger   *logger.Logger
}

// NewPoolBuilder creates a pool builder
func NewPoolBuilder(
	screener ScreenerFeed,
	trending TrendingFeed,
	resolver Resolver,
	store ledger.Store,
	clock ledger.Clock,
	filters strategyconfig.Pool,
	log *logger.Logger,
) *PoolBuilder {
	return &PoolBuilder{
		screener: screener,
		trending: trending,
		resolver: resolver,
		ledger:   store,
		clock:    clock,
		filters:  filters,
		logger:   log,
	}
}

// Build assembles the deduplicated candidate pool for a region.
// Screener entries take precedence over trending resolutions for the
// same ticker since they originate from structured data. One feed
// failing degrades the pool; both failing fails the build.
func (b *PoolBuilder) Build(ctx context.Context, region contracts.Region) ([]contracts.Candidate, error) {
	now := b.clock()
	byTicker := make(map[string]contracts.Candidate)
	order := make([]string, 0)
	feedsDown := 0

	screened, err := b.screener.FetchScreener(ctx, region)
	if err != nil {
		feedsDown++
		b.logger.WithError(err).WithField("region", region).Warn("Screener feed unavailable, degrading")
	} else {
		for _, c := range screened {
			if _, seen := byTicker[c.Ticker]; !seen {
				order = append(order, c.Ticker)
			}
			byTicker[c.Ticker] = c
		}
	}

	trendTickers, err := b.trending.FetchTrending(ctx, region)
	if err != nil {
		feedsDown++
		b.logger.WithError(err).WithField("region", region).Warn("Trending feed unavailable, degrading")
	} else {
		for _, ticker := range trendTickers {
			if _, exists := byTicker[ticker]; exists {
				continue // screener precedence
			}
			c, err := b.resolver.Resolve(ctx, ticker, region)
			if err != nil {
				b.logger.WithFields(map[string]interface{}{
					"ticker": ticker,
					"region": region,
				}).Debug("Trending ticker unresolvable, skipping")
				continue
			}
			byTicker[c.Ticker] = *c
			order = append(order, c.Ticker)
		}
	}

	if feedsDown == 2 {
		return nil, fmt.Errorf("pool build for %s: %w", region, contracts.ErrFeedUnavailable)
	}

	pool := make([]contracts.Candidate, 0, len(byTicker))
	dropped := make(map[string]int)

	for _, ticker := range order {
		c := byTicker[ticker]

		if err := c.Validate(); err != nil {
			dropped["invalid"]++
			continue
		}

		fresh, err := b.ledger.IsFresh(ctx, c.Ticker, string(region), now)
		if err != nil {
			return nil, fmt.Errorf("ledger lookup for %s/%s: %w", c.Ticker, region, err)
		}
		if fresh {
			dropped["ledger_fresh"]++
			continue
		}

		if c.Price > b.filters.MaxPrice {
			dropped["price"]++
			continue
		}
		if c.MarketCap < b.filters.MinMarketCap || c.MarketCap > b.filters.MaxMarketCap {
			dropped["market_cap"]++
			continue
		}

		pool = append(pool, c)
		if b.filters.MaxPoolSize > 0 && len(pool) >= b.filters.MaxPoolSize {
			break
		}
	}

	b.logger.WithFields(map[string]interface{}{
		"region":     region,
		"raw":        len(byTicker),
		"pool":       len(pool),
		"dropped":    dropped,
		"feeds_down": feedsDown,
	}).Info("Candidate pool built")

	return pool, nil
}
