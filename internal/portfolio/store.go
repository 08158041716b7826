package portfolio

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/primogreedy/scout/internal/contracts"
)

// MemoryStore is the in-memory trade store used in tests and when no
// database is configured. Order of appends is preserved.
type MemoryStore struct {
	mu     sync.Mutex
	trades []Trade
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Append(ctx context.Context, trade Trade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trades = append(s.trades, trade)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Trade, len(s.trades))
	copy(out, s.trades)
	return out, nil
}

// Repository is the postgres trade store
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a postgres trade store
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// EnsureSchema creates the paper_trades table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS paper_trades (
			id          BIGSERIAL PRIMARY KEY,
			ticker      TEXT             NOT NULL,
			region      TEXT             NOT NULL,
			entry_price DOUBLE PRECISION NOT NULL,
			score       INT              NOT NULL,
			entered_at  TIMESTAMPTZ      NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create paper_trades table: %w", err)
	}
	return nil
}

func (r *Repository) Append(ctx context.Context, trade Trade) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO paper_trades (ticker, region, entry_price, score, entered_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		trade.Ticker, string(trade.Region), trade.EntryPrice, trade.Score, trade.EnteredAt,
	)
	if err != nil {
		return fmt.Errorf("insert paper trade %s: %w", trade.Ticker, err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]Trade, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ticker, region, entry_price, score, entered_at
		 FROM paper_trades ORDER BY entered_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list paper trades: %w", err)
	}
	defer rows.Close()

	trades := make([]Trade, 0)
	for rows.Next() {
		var t Trade
		var region string
		if err := rows.Scan(&t.Ticker, &region, &t.EntryPrice, &t.Score, &t.EnteredAt); err != nil {
			return nil, fmt.Errorf("scan paper trade: %w", err)
		}
		t.Region = contracts.Region(region)
		trades = append(trades, t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate paper trades: %w", rows.Err())
	}
	return trades, nil
}
