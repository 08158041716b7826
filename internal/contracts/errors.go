package contracts

import "errors"

// Error kinds the pipeline distinguishes. Wrap with %w and test with
// errors.Is; none of these crashes a run, each maps to a defined
// degradation or terminal outcome.
var (
	// ErrFeedUnavailable means both discovery feeds failed for a
	// region. A single feed failing only degrades the pool.
	ErrFeedUnavailable = errors.New("discovery feeds unavailable")

	// ErrPoolEmpty means no eligible candidates survived pool
	// building; the region terminates EXHAUSTED.
	ErrPoolEmpty = errors.New("candidate pool empty")

	// ErrGatekeeperExhausted means every attempted candidate was
	// rejected within the budget.
	ErrGatekeeperExhausted = errors.New("gatekeeper rejected all attempts")

	// ErrAnalystFailure means memo generation failed for an accepted
	// candidate. Reported as its own kind, never retried here.
	ErrAnalystFailure = errors.New("analyst memo generation failed")

	// ErrLedgerConflict means a concurrent ledger write collision
	// survived its backoff retries.
	ErrLedgerConflict = errors.New("ledger write conflict")
)
