// Package analyst is the boundary to the LLM memo writer. The core
// only ever invokes it on a candidate that passed the gatekeeper.
package analyst

import (
	"context"

	"github.com/primogreedy/scout/internal/contracts"
)

// Analyst writes an investment memo for an accepted candidate. A
// failure here is reported as its own outcome kind; the orchestrator
// never re-enters gatekeeping because of it.
type Analyst interface {
	WriteMemo(ctx context.Context, c contracts.ScoredCandidate, verdict contracts.GatekeeperVerdict) (*contracts.Memo, error)
}

// InsiderFeed supplies the insider-sentiment context the memo prompt
// includes for US names. Optional; a nil feed skips the section.
type InsiderFeed interface {
	InsiderSentiment(ctx context.Context, ticker string) (string, error)
}
