package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/pkg/logger"
)

// Repository is the postgres-backed ledger. Entries are append-only;
// freshness is decided against the latest entry per ticker+region and
// expired rows are pruned lazily on lookup.
type Repository struct {
	db     *pgxpool.Pool
	ttl    time.Duration
	logger *logger.Logger
}

// NewRepository creates a postgres ledger repository
func NewRepository(db *pgxpool.Pool, ttl time.Duration, log *logger.Logger) *Repository {
	if ttl <= 0 {
		ttl = contracts.LedgerTTL
	}
	return &Repository{db: db, ttl: ttl, logger: log}
}

// EnsureSchema creates the ledger table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS seen_tickers (
			ticker   TEXT        NOT NULL,
			region   TEXT        NOT NULL,
			seen_at  TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (ticker, region, seen_at)
		)
	`)
	if err != nil {
		return fmt.Errorf("create seen_tickers table: %w", err)
	}
	return nil
}

// IsFresh checks the latest entry for the key against the TTL window
// and lazily deletes expired rows for the key.
func (r *Repository) IsFresh(ctx context.Context, ticker, region string, now time.Time) (bool, error) {
	cutoff := now.Add(-r.ttl)

	// Lazy prune for this key
	if _, err := r.db.Exec(ctx,
		`DELETE FROM seen_tickers WHERE ticker = $1 AND region = $2 AND seen_at < $3`,
		ticker, region, cutoff,
	); err != nil {
		return false, fmt.Errorf("prune ledger key %s/%s: %w", ticker, region, err)
	}

	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM seen_tickers WHERE ticker = $1 AND region = $2 AND seen_at >= $3`,
		ticker, region, cutoff,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("ledger freshness lookup %s/%s: %w", ticker, region, err)
	}

	return count > 0, nil
}

// Record appends a seen entry. Concurrent region runs can collide on
// a cross-listed ticker; collisions are retried with a short backoff
// here and never surfaced to the orchestrator.
func (r *Repository) Record(ctx context.Context, ticker, region string, at time.Time) error {
	const maxAttempts = 3
	backoff := 50 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		_, err := r.db.Exec(ctx,
			`INSERT INTO seen_tickers (ticker, region, seen_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (ticker, region, seen_at) DO NOTHING`,
			ticker, region, at,
		)
		if err == nil {
			return nil
		}
		if !isWriteConflict(err) {
			return fmt.Errorf("ledger record %s/%s: %w", ticker, region, err)
		}

		lastErr = err
		r.logger.WithFields(map[string]interface{}{
			"ticker":  ticker,
			"region":  region,
			"attempt": attempt,
		}).Warn("Ledger write conflict, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return fmt.Errorf("ledger record %s/%s after %d attempts: %w (%v)",
		ticker, region, maxAttempts, contracts.ErrLedgerConflict, lastErr)
}

// Prune removes all expired entries
func (r *Repository) Prune(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM seen_tickers WHERE seen_at < $1`, now.Add(-r.ttl))
	if err != nil {
		return 0, fmt.Errorf("prune ledger: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// List returns live entries, newest first; operational surface for
// the ledger CLI command.
func (r *Repository) List(ctx context.Context, now time.Time) ([]contracts.LedgerEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ticker, region, seen_at FROM seen_tickers
		 WHERE seen_at >= $1 ORDER BY seen_at DESC`, now.Add(-r.ttl))
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()

	entries := make([]contracts.LedgerEntry, 0)
	for rows.Next() {
		var e contracts.LedgerEntry
		var region string
		if err := rows.Scan(&e.Ticker, &region, &e.SeenAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Region = contracts.Region(region)
		entries = append(entries, e)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", rows.Err())
	}

	return entries, nil
}

// isWriteConflict classifies serialization failures and deadlocks,
// the two collision shapes concurrent region writers can produce.
func isWriteConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
