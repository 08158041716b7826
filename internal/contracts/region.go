// Package contracts holds the domain types shared across the pipeline:
// regions, candidates, verdicts, run state and the error kinds the
// orchestrator distinguishes. It has no dependencies of its own.
package contracts

import "strings"

// Region identifies a supported market region
type Region string

const (
	RegionUSA       Region = "USA"
	RegionUK        Region = "UK"
	RegionCanada    Region = "CA"
	RegionAustralia Region = "AU"
)

// AllRegions lists supported regions in the canonical run order
var AllRegions = []Region{RegionUSA, RegionUK, RegionCanada, RegionAustralia}

// ParseRegion maps user or config input to a Region. Accepts the
// canonical codes plus common long forms, case-insensitively.
func ParseRegion(s string) (Region, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "USA", "US":
		return RegionUSA, true
	case "UK", "GB":
		return RegionUK, true
	case "CA", "CANADA":
		return RegionCanada, true
	case "AU", "AUSTRALIA":
		return RegionAustralia, true
	}
	return "", false
}

func (r Region) String() string { return string(r) }

// Suffixes returns the exchange suffixes tried, in order, when
// resolving a bare ticker for the region. The US listing symbol
// carries no suffix.
func (r Region) Suffixes() []string {
	switch r {
	case RegionUK:
		return []string{".L"}
	case RegionCanada:
		return []string{".TO", ".V"}
	case RegionAustralia:
		return []string{".AX"}
	default:
		return nil
	}
}

// Currency returns the region's quote currency in major units
func (r Region) Currency() string {
	switch r {
	case RegionUK:
		return "GBP"
	case RegionCanada:
		return "CAD"
	case RegionAustralia:
		return "AUD"
	default:
		return "USD"
	}
}

// FilingSource returns the name and search URL of the region's
// primary public-filings registry, used when formatting reports.
func (r Region) FilingSource() (name, url string) {
	switch r {
	case RegionUK:
		return "Companies House", "https://find-and-update.company-information.service.gov.uk/"
	case RegionCanada:
		return "SEDAR+", "https://www.sedarplus.ca/"
	case RegionAustralia:
		return "ASX announcements", "https://www.asx.com.au/markets/trade-our-cash-market/announcements"
	default:
		return "SEC EDGAR", "https://www.sec.gov/cgi-bin/browse-edgar?action=getcompany"
	}
}
