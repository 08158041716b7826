package strategyconfig

import (
	"fmt"

	"github.com/primogreedy/scout/internal/contracts"
)

// Validate checks structural sanity of a strategy config
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return fmt.Errorf("meta.strategy_id is required")
	}

	if cfg.Pool.MaxPrice <= 0 {
		return fmt.Errorf("pool.max_price must be positive")
	}
	if cfg.Pool.MinMarketCap <= 0 || cfg.Pool.MaxMarketCap <= cfg.Pool.MinMarketCap {
		return fmt.Errorf("pool market cap band [%d, %d] is invalid",
			cfg.Pool.MinMarketCap, cfg.Pool.MaxMarketCap)
	}

	total := cfg.Scoring.Profitability + cfg.Scoring.GrahamDiscount +
		cfg.Scoring.PriceToBook + cfg.Scoring.FreeCashFlow +
		cfg.Scoring.LowLeverage + cfg.Scoring.Liquidity + cfg.Scoring.CashRunway
	if total > 100 {
		return fmt.Errorf("scoring weights sum to %d, must not exceed 100", total)
	}
	if cfg.Scoring.MinCurrentRatio <= 0 || cfg.Scoring.MaxNetDebtEBITDA <= 0 {
		return fmt.Errorf("scoring thresholds must be positive")
	}

	if cfg.Gates.BankMaxPB <= 0 {
		return fmt.Errorf("gates.bank_max_pb must be positive")
	}

	if cfg.Pipeline.MaxAttempts < 1 {
		return fmt.Errorf("pipeline.max_attempts must be at least 1")
	}
	if cfg.Pipeline.LedgerTTLDays < 1 {
		return fmt.Errorf("pipeline.ledger_ttl_days must be at least 1")
	}
	for _, r := range cfg.Pipeline.Regions {
		if _, ok := contracts.ParseRegion(r); !ok {
			return fmt.Errorf("pipeline.regions: unknown region %q", r)
		}
	}

	return nil
}
