package contracts

// Outcome is the gatekeeper's binary decision
type Outcome string

const (
	OutcomePass   Outcome = "PASS"
	OutcomeReject Outcome = "REJECT"
)

// Machine-readable gatekeeper reason codes. A verdict carries every
// rule that fired, in evaluation order, not just the first.
const (
	ReasonPriceCeiling     = "price_ceiling"
	ReasonMarketCapBand    = "market_cap_band"
	ReasonBankPBExceeded   = "bank_pb_exceeded"
	ReasonZombieFilter     = "zombie_filter"
	ReasonLeverageExceeded = "leverage_exceeded"
)

// GatekeeperVerdict is the result of evaluating one candidate against
// the hard rules. Reasons is empty exactly when Outcome is PASS.
type GatekeeperVerdict struct {
	Ticker  string
	Outcome Outcome
	Reasons []string
}

// Passed reports whether the candidate cleared every rule
func (v GatekeeperVerdict) Passed() bool { return v.Outcome == OutcomePass }
