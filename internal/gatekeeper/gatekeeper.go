// Package gatekeeper applies the hard pass/fail rules that stand
// between a ranked candidate and the expensive analyst step.
package gatekeeper

import (
	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/internal/strategyconfig"
)

// Gatekeeper evaluates one candidate against the hard rules. It is a
// pure function of the candidate's fundamentals: no external calls,
// no score consultation, safe to run concurrently.
type Gatekeeper struct {
	gates strategyconfig.Gates
}

// New creates a gatekeeper with the given thresholds
func New(gates strategyconfig.Gates) *Gatekeeper {
	return &Gatekeeper{gates: gates}
}

// Evaluate runs every applicable rule independently and records all
// violated rules in order, never just the first. Exactly one
// sector-specific health rule applies per candidate.
func (g *Gatekeeper) Evaluate(c contracts.Candidate) contracts.GatekeeperVerdict {
	verdict := contracts.GatekeeperVerdict{
		Ticker:  c.Ticker,
		Outcome: contracts.OutcomePass,
	}

	if c.Price > g.gates.MaxPrice {
		verdict.Reasons = append(verdict.Reasons, contracts.ReasonPriceCeiling)
	}

	if c.MarketCap < g.gates.MinMarketCap || c.MarketCap > g.gates.MaxMarketCap {
		verdict.Reasons = append(verdict.Reasons, contracts.ReasonMarketCapBand)
	}

	if reason := g.sectorCheck(c); reason != "" {
		verdict.Reasons = append(verdict.Reasons, reason)
	}

	if len(verdict.Reasons) > 0 {
		verdict.Outcome = contracts.OutcomeReject
	}
	return verdict
}

// sectorCheck applies the single health rule chosen by sector and
// returns the reason code when it fires.
func (g *Gatekeeper) sectorCheck(c contracts.Candidate) string {
	switch c.Sector {
	case contracts.SectorBank:
		// Banks must trade at or under book
		pb, ok := c.PriceToBook()
		if !ok || pb > g.gates.BankMaxPB {
			return contracts.ReasonBankPBExceeded
		}

	case contracts.SectorTechHealthcare:
		// Zombie filter: unprofitable names need a known runway of
		// at least six months. Profitable names pass untouched.
		if c.EPS <= 0 {
			if c.CashRunwayMonths == nil || *c.CashRunwayMonths < g.gates.MinRunwayMonths {
				return contracts.ReasonZombieFilter
			}
		}

	default:
		// Industrial and Other share the leverage rule. A
		// non-positive EBITDA makes the ratio meaningless, which
		// counts as failing the check.
		ratio, ok := c.NetDebtToEBITDA()
		if !ok || ratio >= g.gates.MaxNetDebtEBITDA {
			return contracts.ReasonLeverageExceeded
		}
	}

	return ""
}
