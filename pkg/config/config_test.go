package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if len(cfg.Regions) != 4 {
		t.Errorf("Regions = %v, want 4 default regions", cfg.Regions)
	}
	if cfg.RunDeadline != 50*time.Minute {
		t.Errorf("RunDeadline = %v, want 50m", cfg.RunDeadline)
	}
	if len(cfg.OpenRouter.Models) == 0 {
		t.Error("OpenRouter.Models should have a default fallback chain")
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ENV", "testing")
	if _, err := Load(); err == nil {
		t.Error("expected validation error for unknown ENV")
	}
}

func TestLoad_RegionList(t *testing.T) {
	t.Setenv("SCOUT_REGIONS", " USA , UK ")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Regions) != 2 || cfg.Regions[0] != "USA" || cfg.Regions[1] != "UK" {
		t.Errorf("Regions = %v, want [USA UK]", cfg.Regions)
	}
}
