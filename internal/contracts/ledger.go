package contracts

import "time"

// LedgerTTL is the exclusion window: a seen ticker is not reconsidered
// for the same region until the window has fully elapsed.
const LedgerTTL = 30 * 24 * time.Hour

// LedgerEntry records one sighting of a ticker in a region
type LedgerEntry struct {
	Ticker string
	Region Region
	SeenAt time.Time
}

// Fresh reports whether the entry still excludes its ticker at now.
// An entry aged exactly one TTL is no longer fresh.
func (e LedgerEntry) Fresh(now time.Time) bool {
	return now.Sub(e.SeenAt) < LedgerTTL
}
