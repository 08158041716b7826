// Package pipeline drives the per-region selection state machine and
// fans it out across regions. The orchestrator owns one region's run
// from pool build through the terminal report; the coordinator owns
// the run as a whole.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/primogreedy/scout/internal/analyst"
	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/internal/gatekeeper"
	"github.com/primogreedy/scout/internal/ledger"
	"github.com/primogreedy/scout/internal/scoring"
	"github.com/primogreedy/scout/pkg/logger"
)

// PoolSource builds the raw candidate pool for a region. Satisfied by
// discovery.PoolBuilder; narrowed here so tests can stub it.
type PoolSource interface {
	Build(ctx context.Context, region contracts.Region) ([]contracts.Candidate, error)
}

// RegionOrchestrator runs one region's selection to a terminal state.
// The ranked queue is a fixed snapshot: rejection advances within it,
// the pool is never rebuilt mid-run.
type RegionOrchestrator struct {
	region      contracts.Region
	pool        PoolSource
	scorer      *scoring.Scorer
	gate        *gatekeeper.Gatekeeper
	analyst     analyst.Analyst
	ledger      ledger.Store
	clock       ledger.Clock
	maxAttempts int
	logger      *logger.Logger
}

// NewRegionOrchestrator creates an orchestrator for one region. A
// maxAttempts of zero or less falls back to the standard budget.
func NewRegionOrchestrator(
	region contracts.Region,
	pool PoolSource,
	scorer *scoring.Scorer,
	gate *gatekeeper.Gatekeeper,
	an analyst.Analyst,
	store ledger.Store,
	clock ledger.Clock,
	maxAttempts int,
	log *logger.Logger,
) *RegionOrchestrator {
	if maxAttempts <= 0 {
		maxAttempts = contracts.MaxAttempts
	}
	return &RegionOrchestrator{
		region:      region,
		pool:        pool,
		scorer:      scorer,
		gate:        gate,
		analyst:     an,
		ledger:      store,
		clock:       clock,
		maxAttempts: maxAttempts,
		logger:      log.WithField("region", string(region)),
	}
}

// Run drives the state machine to a terminal state and returns the
// region's report. The report is always non-nil; no failure inside a
// region escapes as an error to the caller.
func (o *RegionOrchestrator) Run(ctx context.Context) *contracts.RegionReport {
	run := &contracts.RegionRun{
		Region:    o.region,
		State:     contracts.StateScouting,
		StartedAt: o.clock(),
	}
	report := &contracts.RegionReport{Region: o.region, Run: run}

	defer func() {
		run.FinishedAt = o.clock()
		o.logger.WithFields(map[string]interface{}{
			"state":    string(run.State),
			"kind":     string(report.Kind),
			"attempts": run.AttemptsUsed,
		}).Info("Region run finished")
	}()

	// SCOUTING: build, score and rank the snapshot
	candidates, err := o.pool.Build(ctx, o.region)
	if err != nil {
		run.State = contracts.StateExhausted
		run.ExhaustReason = contracts.ExhaustFeedUnavailable
		report.Kind = contracts.ReportExhausted
		report.Err = err
		return report
	}
	if len(candidates) == 0 {
		run.State = contracts.StateExhausted
		run.ExhaustReason = contracts.ExhaustNoCandidates
		report.Kind = contracts.ReportExhausted
		report.Err = fmt.Errorf("region %s: %w", o.region, contracts.ErrPoolEmpty)
		return report
	}

	queue := o.scorer.ScoreAll(candidates)
	scoring.Rank(queue)
	run.RankedQueue = queue
	run.State = contracts.StateRanked

	budget := o.maxAttempts
	if len(run.RankedQueue) < budget {
		budget = len(run.RankedQueue)
	}

	// GATEKEEPING: walk the snapshot until a pass or the budget ends
	for run.NextIndex < len(run.RankedQueue) && run.AttemptsUsed < budget {
		candidate := run.RankedQueue[run.NextIndex]
		run.NextIndex++
		run.State = contracts.StateGatekeeping

		verdict := o.gate.Evaluate(candidate.Candidate)
		if verdict.Passed() {
			run.Accepted = &candidate
			run.AttemptsUsed++
			run.State = contracts.StateAccepted
			return o.accept(ctx, run, report, candidate, verdict)
		}

		run.Rejections = append(run.Rejections, verdict)
		run.AttemptsUsed++
		o.logger.WithFields(map[string]interface{}{
			"ticker":  candidate.Ticker,
			"reasons": verdict.Reasons,
			"attempt": run.AttemptsUsed,
		}).Info("Candidate rejected, advancing queue")

		if run.NextIndex < len(run.RankedQueue) && run.AttemptsUsed < budget {
			run.State = contracts.StateRetrying
		}
	}

	run.State = contracts.StateExhausted
	run.ExhaustReason = contracts.ExhaustGatekeeper
	report.Kind = contracts.ReportExhausted
	report.Err = fmt.Errorf("region %s after %d attempts: %w",
		o.region, run.AttemptsUsed, contracts.ErrGatekeeperExhausted)
	o.recordAttempted(ctx, run)
	return report
}

// accept records the winner, invokes the analyst, then records every
// attempted ticker. The accepted ticker is written before the analyst
// call so a crash mid-memo cannot re-select it tomorrow.
func (o *RegionOrchestrator) accept(
	ctx context.Context,
	run *contracts.RegionRun,
	report *contracts.RegionReport,
	candidate contracts.ScoredCandidate,
	verdict contracts.GatekeeperVerdict,
) *contracts.RegionReport {
	o.record(ctx, candidate.Ticker)

	memo, err := o.analyst.WriteMemo(ctx, candidate, verdict)
	o.recordAttempted(ctx, run)

	if err != nil {
		report.Kind = contracts.ReportAnalystFailed
		report.Err = err
		if !errors.Is(err, contracts.ErrAnalystFailure) {
			report.Err = fmt.Errorf("%w: %v", contracts.ErrAnalystFailure, err)
		}
		o.logger.WithError(err).WithField("ticker", candidate.Ticker).
			Error("Memo generation failed for accepted candidate")
		return report
	}

	report.Kind = contracts.ReportAccepted
	report.Memo = memo
	return report
}

// recordAttempted writes every ticker that reached the gatekeeper
func (o *RegionOrchestrator) recordAttempted(ctx context.Context, run *contracts.RegionRun) {
	for _, ticker := range run.Attempted() {
		o.record(ctx, ticker)
	}
}

// record writes one ledger entry; ledger failures are logged and
// swallowed because they must never change a run's terminal outcome.
func (o *RegionOrchestrator) record(ctx context.Context, ticker string) {
	if err := o.ledger.Record(ctx, ticker, string(o.region), o.clock()); err != nil {
		o.logger.WithError(err).WithField("ticker", ticker).Warn("Ledger write failed")
	}
}

// CheckTicker is the on-demand path: one externally supplied
// candidate straight into the gatekeeper, bypassing pool building and
// ranking. On a pass the analyst runs and the ticker is recorded.
func (o *RegionOrchestrator) CheckTicker(ctx context.Context, c contracts.Candidate) *contracts.RegionReport {
	now := o.clock()
	scored := o.scorer.Score(c)
	verdict := o.gate.Evaluate(c)

	run := &contracts.RegionRun{
		Region:       o.region,
		RankedQueue:  []contracts.ScoredCandidate{scored},
		NextIndex:    1,
		AttemptsUsed: 1,
		StartedAt:    now,
		FinishedAt:   o.clock(),
	}
	report := &contracts.RegionReport{Region: o.region, Run: run}

	if !verdict.Passed() {
		run.State = contracts.StateExhausted
		run.ExhaustReason = contracts.ExhaustGatekeeper
		run.Rejections = []contracts.GatekeeperVerdict{verdict}
		report.Kind = contracts.ReportExhausted
		report.Err = fmt.Errorf("ticker %s: %w", c.Ticker, contracts.ErrGatekeeperExhausted)
		return report
	}

	run.State = contracts.StateAccepted
	run.Accepted = &scored
	return o.accept(ctx, run, report, scored, verdict)
}
