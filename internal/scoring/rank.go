package scoring

import (
	"sort"

	"github.com/primogreedy/scout/internal/contracts"
)

// Rank sorts scored candidates into the deterministic total order the
// orchestrator's queue depends on: score descending, ties broken by
// larger market cap, then lexicographic ticker. Sorting an
// already-ranked slice is a no-op.
func Rank(scored []contracts.ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].MarketCap != scored[j].MarketCap {
			return scored[i].MarketCap > scored[j].MarketCap
		}
		return scored[i].Ticker < scored[j].Ticker
	})
}
