// Package scoring computes the deterministic 0-100 quality score that
// ranks candidates before the gatekeeper and the expensive analyst
// step see them.
package scoring

import (
	"fmt"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/internal/strategyconfig"
)

// Scorer scores candidates against seven weighted criteria. Each
// criterion is all-or-nothing; a candidate missing a required input
// earns zero for that criterion rather than failing. Score is a pure
// function of the candidate: no side effects, no external calls.
type Scorer struct {
	weights strategyconfig.Scoring
}

// NewScorer creates a scorer with the given criterion weights
func NewScorer(weights strategyconfig.Scoring) *Scorer {
	return &Scorer{weights: weights}
}

// Score computes the candidate's quality score and attaches the
// Graham value whenever it is defined, independent of whether the
// undervaluation criterion earned points.
func (s *Scorer) Score(c contracts.Candidate) contracts.ScoredCandidate {
	sc := contracts.ScoredCandidate{Candidate: c}
	breakdown := make([]string, 0, 7)

	// Profitability
	if c.EPS > 0 {
		sc.Score += s.weights.Profitability
		breakdown = append(breakdown, fmt.Sprintf("+%d profitable (EPS > 0)", s.weights.Profitability))
	}

	// Graham undervaluation. The value itself is kept for the memo
	// writer whenever it is computable.
	if graham, ok := GrahamNumber(c.EPS, c.BookValue); ok {
		g := graham
		sc.GrahamValue = &g
		if c.Price < graham {
			sc.Score += s.weights.GrahamDiscount
			breakdown = append(breakdown, fmt.Sprintf("+%d price %.2f below Graham %.2f",
				s.weights.GrahamDiscount, c.Price, graham))
		}
	}

	// Price-to-book deep value
	if pb, ok := c.PriceToBook(); ok && pb < 1.0 {
		sc.Score += s.weights.PriceToBook
		breakdown = append(breakdown, fmt.Sprintf("+%d P/B %.2f under 1.0", s.weights.PriceToBook, pb))
	}

	// Free cash flow
	if c.FreeCashFlow > 0 {
		sc.Score += s.weights.FreeCashFlow
		breakdown = append(breakdown, fmt.Sprintf("+%d positive FCF", s.weights.FreeCashFlow))
	}

	// Low leverage
	if ratio, ok := c.NetDebtToEBITDA(); ok && ratio < s.weights.MaxNetDebtEBITDA {
		sc.Score += s.weights.LowLeverage
		breakdown = append(breakdown, fmt.Sprintf("+%d net debt %.1fx EBITDA", s.weights.LowLeverage, ratio))
	}

	// Liquidity
	if c.CurrentRatio > s.weights.MinCurrentRatio {
		sc.Score += s.weights.Liquidity
		breakdown = append(breakdown, fmt.Sprintf("+%d current ratio %.2f", s.weights.Liquidity, c.CurrentRatio))
	}

	// Cash runway, unprofitable names only
	if c.EPS <= 0 && c.CashRunwayMonths != nil && *c.CashRunwayMonths >= s.weights.MinRunwayMonths {
		sc.Score += s.weights.CashRunway
		breakdown = append(breakdown, fmt.Sprintf("+%d runway %.0f months", s.weights.CashRunway, *c.CashRunwayMonths))
	}

	sc.Breakdown = breakdown
	return sc
}

// ScoreAll scores a slice of candidates
func (s *Scorer) ScoreAll(candidates []contracts.Candidate) []contracts.ScoredCandidate {
	scored := make([]contracts.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, s.Score(c))
	}
	return scored
}
