// Package portfolio paper-tracks accepted picks so the system's track
// record is measurable. No money moves; entries are recommendations
// with their entry price frozen at acceptance time.
package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/pkg/logger"
)

// Trade is one tracked recommendation
type Trade struct {
	Ticker     string
	Region     contracts.Region
	EntryPrice float64
	Score      int
	EnteredAt  time.Time
}

// Day returns the trade's calendar day in UTC, the duplicate-skip key
func (t Trade) Day() string { return t.EnteredAt.UTC().Format("2006-01-02") }

// Store persists trades
type Store interface {
	Append(ctx context.Context, trade Trade) error
	List(ctx context.Context) ([]Trade, error)
}

// Quoter supplies a current price for performance evaluation
type Quoter interface {
	Quote(ctx context.Context, symbol string, region contracts.Region) (*contracts.Candidate, error)
}

// Position is a trade joined with its live performance
type Position struct {
	Trade
	CurrentPrice float64
	ReturnPct    float64
	Priced       bool
}

// Summary aggregates the track record
type Summary struct {
	Positions []Position
	TotalPct  float64
	Winners   int
	Priced    int
}

// Tracker records accepted picks and evaluates the running book
type Tracker struct {
	store  Store
	quoter Quoter
	clock  func() time.Time
	logger *logger.Logger
}

// NewTracker creates a paper-trade tracker
func NewTracker(store Store, quoter Quoter, clock func() time.Time, log *logger.Logger) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{store: store, quoter: quoter, clock: clock, logger: log}
}

// RecordPick tracks an accepted candidate. A second acceptance of the
// same ticker on the same calendar day is skipped; re-acceptance on a
// later day (after ledger expiry) is a fresh entry.
func (t *Tracker) RecordPick(ctx context.Context, c contracts.ScoredCandidate) error {
	now := t.clock()
	trade := Trade{
		Ticker:     c.Ticker,
		Region:     c.Region,
		EntryPrice: c.Price,
		Score:      c.Score,
		EnteredAt:  now,
	}

	existing, err := t.store.List(ctx)
	if err != nil {
		return fmt.Errorf("portfolio list: %w", err)
	}
	for _, e := range existing {
		if e.Ticker == trade.Ticker && e.Day() == trade.Day() {
			t.logger.WithField("ticker", trade.Ticker).Debug("Pick already tracked today, skipping")
			return nil
		}
	}

	if err := t.store.Append(ctx, trade); err != nil {
		return fmt.Errorf("portfolio append: %w", err)
	}
	t.logger.WithFields(map[string]interface{}{
		"ticker": trade.Ticker,
		"entry":  trade.EntryPrice,
	}).Info("Paper trade recorded")
	return nil
}

// Evaluate prices every tracked position and aggregates returns.
// Unpriceable positions stay in the output unpriced rather than
// disappearing from the record.
func (t *Tracker) Evaluate(ctx context.Context) (*Summary, error) {
	trades, err := t.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("portfolio list: %w", err)
	}

	summary := &Summary{Positions: make([]Position, 0, len(trades))}
	for _, trade := range trades {
		pos := Position{Trade: trade}

		quote, err := t.quoter.Quote(ctx, trade.Ticker, trade.Region)
		if err != nil || quote.Price <= 0 || trade.EntryPrice <= 0 {
			if err != nil {
				t.logger.WithError(err).WithField("ticker", trade.Ticker).Debug("Position unpriceable")
			}
			summary.Positions = append(summary.Positions, pos)
			continue
		}

		pos.CurrentPrice = quote.Price
		pos.ReturnPct = (quote.Price - trade.EntryPrice) / trade.EntryPrice * 100
		pos.Priced = true

		summary.TotalPct += pos.ReturnPct
		summary.Priced++
		if pos.ReturnPct > 0 {
			summary.Winners++
		}
		summary.Positions = append(summary.Positions, pos)
	}

	return summary, nil
}
