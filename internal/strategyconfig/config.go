package strategyconfig

import "time"

// Config is the full candidate-selection strategy definition. It is
// loaded from a YAML file with strict field checking so a typo fails
// the run instead of silently using a default.
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Pool      Pool      `yaml:"pool" json:"pool"`
	Scoring   Scoring   `yaml:"scoring" json:"scoring"`
	Gates     Gates     `yaml:"gates" json:"gates"`
	Pipeline  Pipeline  `yaml:"pipeline" json:"pipeline"`
	Reporting Reporting `yaml:"reporting" json:"reporting"`
}

// Meta identifies the strategy for run snapshots
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Pool bounds the structurally eligible universe before scoring
type Pool struct {
	MaxPrice     float64 `yaml:"max_price" json:"max_price"`
	MinMarketCap int64   `yaml:"min_market_cap" json:"min_market_cap"`
	MaxMarketCap int64   `yaml:"max_market_cap" json:"max_market_cap"`
	MaxPoolSize  int     `yaml:"max_pool_size" json:"max_pool_size"`
}

// Scoring holds the per-criterion point weights. Each criterion is
// all-or-nothing; the weights must not sum past 100.
type Scoring struct {
	Profitability  int `yaml:"profitability" json:"profitability"`
	GrahamDiscount int `yaml:"graham_discount" json:"graham_discount"`
	PriceToBook    int `yaml:"price_to_book" json:"price_to_book"`
	FreeCashFlow   int `yaml:"free_cash_flow" json:"free_cash_flow"`
	LowLeverage    int `yaml:"low_leverage" json:"low_leverage"`
	Liquidity      int `yaml:"liquidity" json:"liquidity"`
	CashRunway     int `yaml:"cash_runway" json:"cash_runway"`

	MinCurrentRatio  float64 `yaml:"min_current_ratio" json:"min_current_ratio"`
	MaxNetDebtEBITDA float64 `yaml:"max_net_debt_ebitda" json:"max_net_debt_ebitda"`
	MinRunwayMonths  float64 `yaml:"min_runway_months" json:"min_runway_months"`
}

// Gates holds the gatekeeper hard thresholds
type Gates struct {
	MaxPrice         float64 `yaml:"max_price" json:"max_price"`
	MinMarketCap     int64   `yaml:"min_market_cap" json:"min_market_cap"`
	MaxMarketCap     int64   `yaml:"max_market_cap" json:"max_market_cap"`
	BankMaxPB        float64 `yaml:"bank_max_pb" json:"bank_max_pb"`
	MaxNetDebtEBITDA float64 `yaml:"max_net_debt_ebitda" json:"max_net_debt_ebitda"`
	MinRunwayMonths  float64 `yaml:"min_runway_months" json:"min_runway_months"`
}

// Pipeline holds orchestration parameters
type Pipeline struct {
	MaxAttempts    int      `yaml:"max_attempts" json:"max_attempts"`
	Regions        []string `yaml:"regions" json:"regions"`
	LedgerTTLDays  int      `yaml:"ledger_ttl_days" json:"ledger_ttl_days"`
	ConcurrentRuns bool     `yaml:"concurrent_runs" json:"concurrent_runs"`
}

// Reporting holds report delivery parameters
type Reporting struct {
	EmailEnabled bool `yaml:"email_enabled" json:"email_enabled"`
}

// LedgerTTL converts the configured day count to a duration
func (c *Config) LedgerTTL() time.Duration {
	return time.Duration(c.Pipeline.LedgerTTLDays) * 24 * time.Hour
}

// Default returns the built-in strategy matching the published
// selection criteria; used when no YAML file is present.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "microcap_value_v1",
			Version:    "1.0",
		},
		Pool: Pool{
			MaxPrice:     30.00,
			MinMarketCap: 10_000_000,
			MaxMarketCap: 300_000_000,
			MaxPoolSize:  15,
		},
		Scoring: Scoring{
			Profitability:  20,
			GrahamDiscount: 25,
			PriceToBook:    15,
			FreeCashFlow:   15,
			LowLeverage:    10,
			Liquidity:      10,
			CashRunway:     5,

			MinCurrentRatio:  1.5,
			MaxNetDebtEBITDA: 3.5,
			MinRunwayMonths:  6,
		},
		Gates: Gates{
			MaxPrice:         30.00,
			MinMarketCap:     10_000_000,
			MaxMarketCap:     300_000_000,
			BankMaxPB:        1.0,
			MaxNetDebtEBITDA: 3.5,
			MinRunwayMonths:  6,
		},
		Pipeline: Pipeline{
			MaxAttempts:    4,
			Regions:        []string{"USA", "UK", "CA", "AU"},
			LedgerTTLDays:  30,
			ConcurrentRuns: true,
		},
		Reporting: Reporting{
			EmailEnabled: true,
		},
	}
}
