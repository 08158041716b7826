package contracts

import (
	"errors"
	"strings"
)

// Sector buckets a candidate into the gatekeeper rule family that
// applies to it. Mapping from raw feed sector strings is lossy on
// purpose; anything unrecognized lands in Other, which shares the
// leverage rule with Industrial.
type Sector string

const (
	SectorBank           Sector = "Bank"
	SectorTechHealthcare Sector = "TechHealthcare"
	SectorIndustrial     Sector = "Industrial"
	SectorOther          Sector = "Other"
)

// MapSector buckets a raw feed sector string
func MapSector(raw string) Sector {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "bank") || strings.Contains(s, "financial"):
		return SectorBank
	case strings.Contains(s, "tech") || strings.Contains(s, "health") ||
		strings.Contains(s, "biotech") || strings.Contains(s, "pharma") ||
		strings.Contains(s, "software") || strings.Contains(s, "communication"):
		return SectorTechHealthcare
	case strings.Contains(s, "industrial") || strings.Contains(s, "material") ||
		strings.Contains(s, "energy") || strings.Contains(s, "utilit") ||
		strings.Contains(s, "manufactur"):
		return SectorIndustrial
	default:
		return SectorOther
	}
}

// Candidate is one equity with the fundamentals the scorer and
// gatekeeper consume. Monetary amounts are in the region's currency,
// major units; market cap and the flow figures are whole currency
// units, per-share figures are decimals.
type Candidate struct {
	Ticker           string
	Region           Region
	Price            float64
	MarketCap        int64
	EPS              float64
	BookValue        float64
	EBITDA           int64
	NetDebt          int64
	FreeCashFlow     int64
	CurrentRatio     float64
	Sector           Sector
	CashRunwayMonths *float64 // meaningful only when EPS <= 0
	CompanyName      string
}

var (
	errNoTicker     = errors.New("candidate has no ticker")
	errBadPrice     = errors.New("candidate price must be positive")
	errBadMarketCap = errors.New("candidate market cap must be positive")
)

// Validate checks the structural minimum a candidate needs before it
// can be scored at all
func (c Candidate) Validate() error {
	if strings.TrimSpace(c.Ticker) == "" {
		return errNoTicker
	}
	if c.Price <= 0 {
		return errBadPrice
	}
	if c.MarketCap <= 0 {
		return errBadMarketCap
	}
	return nil
}

// Profitable reports whether trailing EPS is positive
func (c Candidate) Profitable() bool { return c.EPS > 0 }

// NetDebtToEBITDA returns the leverage ratio. A non-positive EBITDA
// makes the ratio undefined and ok is false.
func (c Candidate) NetDebtToEBITDA() (float64, bool) {
	if c.EBITDA <= 0 {
		return 0, false
	}
	return float64(c.NetDebt) / float64(c.EBITDA), true
}

// PriceToBook returns the P/B multiple; undefined without a positive
// book value per share.
func (c Candidate) PriceToBook() (float64, bool) {
	if c.BookValue <= 0 {
		return 0, false
	}
	return c.Price / c.BookValue, true
}

// ScoredCandidate is a candidate annotated with its composite score,
// the Graham number when defined, and the human-readable criterion
// breakdown that feeds the memo prompt.
type ScoredCandidate struct {
	Candidate
	Score       int
	GrahamValue *float64
	Breakdown   []string
}
