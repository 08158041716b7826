package contracts

import "time"

// RunState is the orchestrator's state machine position. ACCEPTED and
// EXHAUSTED are terminal; everything else is transient.
type RunState string

const (
	StateScouting    RunState = "SCOUTING"
	StateRanked      RunState = "RANKED"
	StateGatekeeping RunState = "GATEKEEPING"
	StateRetrying    RunState = "RETRYING"
	StateAccepted    RunState = "ACCEPTED"
	StateExhausted   RunState = "EXHAUSTED"
)

// Terminal reports whether the state ends a region run
func (s RunState) Terminal() bool {
	return s == StateAccepted || s == StateExhausted
}

// MaxAttempts is the gatekeeping budget per region run: the top
// candidate plus at most three backups from the same snapshot.
const MaxAttempts = 4

// Exhaustion reasons carried on a terminal EXHAUSTED run
const (
	ExhaustNoCandidates    = "no_candidates"
	ExhaustGatekeeper      = "gatekeeper_exhausted"
	ExhaustFeedUnavailable = "feed_unavailable"
)

// RegionRun is one orchestrator instance's state. The ranked queue is
// a fixed snapshot taken once at scouting time; rejection advances
// NextIndex within it and never re-scouts.
type RegionRun struct {
	Region        Region
	State         RunState
	RankedQueue   []ScoredCandidate
	NextIndex     int
	AttemptsUsed  int
	Accepted      *ScoredCandidate
	Rejections    []GatekeeperVerdict
	ExhaustReason string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Attempted returns the tickers that reached the gatekeeper, in
// attempt order. The accepted ticker, if any, is included.
func (r *RegionRun) Attempted() []string {
	out := make([]string, 0, r.AttemptsUsed+1)
	for _, v := range r.Rejections {
		out = append(out, v.Ticker)
	}
	if r.Accepted != nil {
		out = append(out, r.Accepted.Ticker)
	}
	return out
}

// ReportKind classifies a region's terminal outcome for reporting
type ReportKind string

const (
	ReportAccepted      ReportKind = "accepted"
	ReportAnalystFailed ReportKind = "analyst_failed"
	ReportExhausted     ReportKind = "exhausted"
	ReportSkipped       ReportKind = "skipped"
)

// Memo is the analyst's structured output for an accepted candidate
type Memo struct {
	Ticker    string
	Model     string
	Body      string
	CreatedAt time.Time
}

// RegionReport is the coordinator's per-region aggregate: the terminal
// run (nil when the region was skipped before starting), the memo when
// the analyst succeeded, and the error behind a failure kind.
type RegionReport struct {
	Region Region
	Kind   ReportKind
	Run    *RegionRun
	Memo   *Memo
	Err    error
}
