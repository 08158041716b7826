package strategyconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := Validate(cfg); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}

	if cfg.Scoring.Profitability != 20 || cfg.Scoring.GrahamDiscount != 25 {
		t.Errorf("default scoring weights changed: %+v", cfg.Scoring)
	}
	if cfg.Pipeline.MaxAttempts != 4 {
		t.Errorf("MaxAttempts = %d, want 4", cfg.Pipeline.MaxAttempts)
	}
	if cfg.LedgerTTL().Hours() != 30*24 {
		t.Errorf("LedgerTTL = %v, want 720h", cfg.LedgerTTL())
	}
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strategy.yaml")

	badYAML := `
meta:
  strategy_id: test
  version: "1.0"
pool:
  max_price: 30
  min_market_cap: 10000000
  max_market_cap: 300000000
  max_pool_size: 15
  not_a_field: true
`
	if err := os.WriteFile(path, []byte(badYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown YAML field")
	}
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault error: %v", err)
	}
	if cfg.Meta.StrategyID != "microcap_value_v1" {
		t.Errorf("expected default strategy, got %s", cfg.Meta.StrategyID)
	}
}

func TestValidate_WeightsOverflow(t *testing.T) {
	cfg := Default()
	cfg.Scoring.Profitability = 50 // pushes the sum past 100
	if err := Validate(cfg); err == nil {
		t.Error("expected error for weight sum > 100")
	}
}

func TestValidate_UnknownRegion(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.Regions = []string{"USA", "MARS"}
	if err := Validate(cfg); err == nil {
		t.Error("expected error for unknown region")
	}
}

func TestHash_Deterministic(t *testing.T) {
	a, err := Hash(Default())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Hash(Default())
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("hash not deterministic: %s != %s", a, b)
	}

	changed := Default()
	changed.Gates.BankMaxPB = 1.2
	c, err := Hash(changed)
	if err != nil {
		t.Fatal(err)
	}
	if a == c {
		t.Error("hash did not change with config")
	}
}
