package discovery

import (
	"context"

	"github.com/primogreedy/scout/internal/contracts"
)

// ScreenerFeed supplies structured fundamentals records for a region.
// May fail transiently; the pool builder degrades on a single feed
// failure.
type ScreenerFeed interface {
	FetchScreener(ctx context.Context, region contracts.Region) ([]contracts.Candidate, error)
}

// TrendingFeed supplies raw ticker symbols extracted from free-text
// search results. Each ticker still needs resolving to fundamentals.
type TrendingFeed interface {
	FetchTrending(ctx context.Context, region contracts.Region) ([]string, error)
}

// Resolver turns a raw ticker into a candidate with fundamentals.
// An unresolvable ticker returns an error and is simply skipped.
type Resolver interface {
	Resolve(ctx context.Context, ticker string, region contracts.Region) (*contracts.Candidate, error)
}
