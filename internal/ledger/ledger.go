// Package ledger tracks recently processed tickers so a region run
// never re-selects a name inside the 30-day exclusion window.
package ledger

import (
	"context"
	"time"
)

// Clock supplies the current time; injected so TTL behavior is
// testable without wall-clock dependence.
type Clock func() time.Time

// Store is the ledger read/write contract. Implementations must
// serialize writes per ticker+region key; the pipeline may run
// regions concurrently and two regions can race on a cross-listed
// ticker.
type Store interface {
	// IsFresh reports whether the ticker was recorded for the region
	// within the TTL window ending at now.
	IsFresh(ctx context.Context, ticker string, region string, now time.Time) (bool, error)

	// Record appends a seen entry for the ticker+region key.
	Record(ctx context.Context, ticker string, region string, at time.Time) error

	// Prune removes entries whose TTL has expired as of now and
	// returns how many were dropped.
	Prune(ctx context.Context, now time.Time) (int, error)
}
