package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/internal/gatekeeper"
	"github.com/primogreedy/scout/internal/ledger"
	"github.com/primogreedy/scout/internal/scoring"
	"github.com/primogreedy/scout/internal/strategyconfig"
	"github.com/primogreedy/scout/pkg/logger"
)

var fixedNow = time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type stubPool struct {
	candidates []contracts.Candidate
	err        error
	calls      int
}

func (p *stubPool) Build(ctx context.Context, region contracts.Region) ([]contracts.Candidate, error) {
	p.calls++
	return p.candidates, p.err
}

type stubAnalyst struct {
	err    error
	called int
	onCall func(c contracts.ScoredCandidate)
}

func (a *stubAnalyst) WriteMemo(ctx context.Context, c contracts.ScoredCandidate, v contracts.GatekeeperVerdict) (*contracts.Memo, error) {
	a.called++
	if a.onCall != nil {
		a.onCall(c)
	}
	if a.err != nil {
		return nil, a.err
	}
	return &contracts.Memo{Ticker: c.Ticker, Model: "stub", Body: "memo", CreatedAt: fixedNow}, nil
}

// passing clears every gate: cheap, in band, Other sector with sane
// leverage. EPS/BookValue give it a nonzero score for rank checks.
func passing(ticker string) contracts.Candidate {
	return contracts.Candidate{
		Ticker:       ticker,
		Region:       contracts.RegionUSA,
		Price:        5.00,
		MarketCap:    50_000_000,
		EPS:          1.00,
		BookValue:    10.00,
		EBITDA:       5_000_000,
		NetDebt:      1_000_000,
		FreeCashFlow: 500_000,
		CurrentRatio: 2.0,
		Sector:       contracts.SectorOther,
		CompanyName:  ticker + " Corp",
	}
}

// rejecting fails exactly one gate, the price ceiling
func rejecting(ticker string) contracts.Candidate {
	c := passing(ticker)
	c.Price = 50.00
	return c
}

func newOrchestrator(pool PoolSource, an *stubAnalyst, store ledger.Store) *RegionOrchestrator {
	cfg := strategyconfig.Default()
	return NewRegionOrchestrator(
		contracts.RegionUSA,
		pool,
		scoring.NewScorer(cfg.Scoring),
		gatekeeper.New(cfg.Gates),
		an,
		store,
		fixedClock,
		cfg.Pipeline.MaxAttempts,
		logger.NewNop(),
	)
}

func isFresh(t *testing.T, store ledger.Store, ticker string) bool {
	t.Helper()
	fresh, err := store.IsFresh(context.Background(), ticker, string(contracts.RegionUSA), fixedNow.Add(time.Hour))
	require.NoError(t, err)
	return fresh
}

func TestRunAcceptsTopCandidate(t *testing.T) {
	pool := &stubPool{candidates: []contracts.Candidate{passing("GOOD")}}
	an := &stubAnalyst{}
	store := ledger.NewMemoryStore(0)

	report := newOrchestrator(pool, an, store).Run(context.Background())

	assert.Equal(t, contracts.ReportAccepted, report.Kind)
	assert.Equal(t, contracts.StateAccepted, report.Run.State)
	require.NotNil(t, report.Run.Accepted)
	assert.Equal(t, "GOOD", report.Run.Accepted.Ticker)
	assert.Equal(t, 1, report.Run.AttemptsUsed)
	require.NotNil(t, report.Memo)
	assert.Equal(t, "GOOD", report.Memo.Ticker)
	assert.True(t, isFresh(t, store, "GOOD"), "accepted ticker must be in the ledger")
}

func TestRunAdvancesQueueOnRejection(t *testing.T) {
	pool := &stubPool{candidates: []contracts.Candidate{
		rejecting("BAD1"), rejecting("BAD2"), passing("GOOD"),
	}}
	an := &stubAnalyst{}
	store := ledger.NewMemoryStore(0)

	report := newOrchestrator(pool, an, store).Run(context.Background())

	assert.Equal(t, contracts.ReportAccepted, report.Kind)
	assert.Equal(t, 3, report.Run.AttemptsUsed)
	require.Len(t, report.Run.Rejections, 2)
	assert.Equal(t, contracts.StateAccepted, report.Run.State)

	// every attempted ticker lands in the ledger after the analyst step
	for _, ticker := range []string{"BAD1", "BAD2", "GOOD"} {
		assert.True(t, isFresh(t, store, ticker), "%s must be in the ledger", ticker)
	}
}

func TestRunAttemptBudgetHolds(t *testing.T) {
	pool := &stubPool{candidates: []contracts.Candidate{
		rejecting("BAD1"), rejecting("BAD2"), rejecting("BAD3"),
		rejecting("BAD4"), passing("NEVER"), passing("ALSO"),
	}}
	an := &stubAnalyst{}
	store := ledger.NewMemoryStore(0)

	report := newOrchestrator(pool, an, store).Run(context.Background())

	assert.Equal(t, contracts.ReportExhausted, report.Kind)
	assert.Equal(t, contracts.StateExhausted, report.Run.State)
	assert.Equal(t, contracts.ExhaustGatekeeper, report.Run.ExhaustReason)
	assert.Equal(t, contracts.MaxAttempts, report.Run.AttemptsUsed)
	assert.Len(t, report.Run.Rejections, contracts.MaxAttempts)
	assert.ErrorIs(t, report.Err, contracts.ErrGatekeeperExhausted)
	assert.Equal(t, 0, an.called, "exhaustion must never reach the analyst")
}

func TestRunBudgetIsPoolBoundWhenSmaller(t *testing.T) {
	pool := &stubPool{candidates: []contracts.Candidate{rejecting("BAD1"), rejecting("BAD2")}}
	store := ledger.NewMemoryStore(0)

	report := newOrchestrator(pool, &stubAnalyst{}, store).Run(context.Background())

	assert.Equal(t, contracts.ReportExhausted, report.Kind)
	assert.Equal(t, 2, report.Run.AttemptsUsed)
	assert.True(t, isFresh(t, store, "BAD1"))
	assert.True(t, isFresh(t, store, "BAD2"))
}

func TestRunEmptyPoolExhaustsImmediately(t *testing.T) {
	pool := &stubPool{}
	report := newOrchestrator(pool, &stubAnalyst{}, ledger.NewMemoryStore(0)).Run(context.Background())

	assert.Equal(t, contracts.ReportExhausted, report.Kind)
	assert.Equal(t, contracts.ExhaustNoCandidates, report.Run.ExhaustReason)
	assert.ErrorIs(t, report.Err, contracts.ErrPoolEmpty)
	assert.Zero(t, report.Run.AttemptsUsed)
}

func TestRunPoolBuildFailure(t *testing.T) {
	pool := &stubPool{err: contracts.ErrFeedUnavailable}
	report := newOrchestrator(pool, &stubAnalyst{}, ledger.NewMemoryStore(0)).Run(context.Background())

	assert.Equal(t, contracts.ReportExhausted, report.Kind)
	assert.Equal(t, contracts.ExhaustFeedUnavailable, report.Run.ExhaustReason)
	assert.ErrorIs(t, report.Err, contracts.ErrFeedUnavailable)
}

func TestRunNeverRebuildsPoolMidRun(t *testing.T) {
	pool := &stubPool{candidates: []contracts.Candidate{
		rejecting("BAD1"), rejecting("BAD2"), rejecting("BAD3"), rejecting("BAD4"),
	}}
	newOrchestrator(pool, &stubAnalyst{}, ledger.NewMemoryStore(0)).Run(context.Background())

	assert.Equal(t, 1, pool.calls, "rejection advances the snapshot, it never re-scouts")
}

func TestRunAnalystFailureIsDistinctKind(t *testing.T) {
	pool := &stubPool{candidates: []contracts.Candidate{passing("GOOD")}}
	an := &stubAnalyst{err: contracts.ErrAnalystFailure}
	store := ledger.NewMemoryStore(0)

	report := newOrchestrator(pool, an, store).Run(context.Background())

	assert.Equal(t, contracts.ReportAnalystFailed, report.Kind)
	assert.Equal(t, contracts.StateAccepted, report.Run.State, "acceptance stands even when the memo fails")
	require.NotNil(t, report.Run.Accepted)
	assert.ErrorIs(t, report.Err, contracts.ErrAnalystFailure)
	assert.Nil(t, report.Memo)
	assert.True(t, isFresh(t, store, "GOOD"), "attempted tickers are recorded despite the memo failure")
}

func TestRunRecordsAcceptedBeforeAnalyst(t *testing.T) {
	pool := &stubPool{candidates: []contracts.Candidate{passing("GOOD")}}
	store := ledger.NewMemoryStore(0)

	an := &stubAnalyst{}
	an.onCall = func(c contracts.ScoredCandidate) {
		fresh, err := store.IsFresh(context.Background(), c.Ticker, string(contracts.RegionUSA), fixedNow.Add(time.Minute))
		require.NoError(t, err)
		assert.True(t, fresh, "accepted ticker must already be recorded when the analyst runs")
	}

	newOrchestrator(pool, an, store).Run(context.Background())
	assert.Equal(t, 1, an.called)
}

func TestRunRanksBeforeGatekeeping(t *testing.T) {
	weak := passing("WEAK")
	weak.EPS = 0
	weak.BookValue = 0
	weak.FreeCashFlow = 0
	weak.CurrentRatio = 0

	pool := &stubPool{candidates: []contracts.Candidate{weak, passing("STRNG")}}
	report := newOrchestrator(pool, &stubAnalyst{}, ledger.NewMemoryStore(0)).Run(context.Background())

	require.Equal(t, contracts.ReportAccepted, report.Kind)
	assert.Equal(t, "STRNG", report.Run.Accepted.Ticker, "highest score is attempted first")
	assert.Equal(t, 1, report.Run.AttemptsUsed)
}

func TestCheckTickerPass(t *testing.T) {
	an := &stubAnalyst{}
	store := ledger.NewMemoryStore(0)
	o := newOrchestrator(&stubPool{}, an, store)

	report := o.CheckTicker(context.Background(), passing("SOLO"))

	assert.Equal(t, contracts.ReportAccepted, report.Kind)
	require.NotNil(t, report.Memo)
	assert.Equal(t, "SOLO", report.Memo.Ticker)
	assert.True(t, isFresh(t, store, "SOLO"))
}

func TestCheckTickerReject(t *testing.T) {
	an := &stubAnalyst{}
	o := newOrchestrator(&stubPool{}, an, ledger.NewMemoryStore(0))

	report := o.CheckTicker(context.Background(), rejecting("SOLO"))

	assert.Equal(t, contracts.ReportExhausted, report.Kind)
	require.Len(t, report.Run.Rejections, 1)
	assert.Contains(t, report.Run.Rejections[0].Reasons, contracts.ReasonPriceCeiling)
	assert.Equal(t, 0, an.called)
	assert.True(t, errors.Is(report.Err, contracts.ErrGatekeeperExhausted))
}
