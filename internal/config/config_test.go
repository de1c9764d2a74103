package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Pricing.BusinessQuota != 300 {
		t.Errorf("BusinessQuota = %v, want 300", cfg.Pricing.BusinessQuota)
	}
	if cfg.Pricing.EnterpriseQuota != 1000 {
		t.Errorf("EnterpriseQuota = %v, want 1000", cfg.Pricing.EnterpriseQuota)
	}
	if cfg.Pricing.OverageRatePerRequest != 0.04 {
		t.Errorf("OverageRatePerRequest = %v, want 0.04", cfg.Pricing.OverageRatePerRequest)
	}
	if cfg.ChunkSize != defaultChunkSize {
		t.Errorf("ChunkSize = %d, want %d", cfg.ChunkSize, defaultChunkSize)
	}
	if cfg.ProgressResolution != defaultProgressResolution {
		t.Errorf("ProgressResolution = %d, want %d", cfg.ProgressResolution, defaultProgressResolution)
	}
	if cfg.LogFile == "" {
		t.Error("LogFile should have a default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CPT_BUSINESS_QUOTA", "500")
	t.Setenv("CPT_CHUNK_SIZE", "250")
	t.Setenv("CPT_POWER_USER_TOP_N", "10")
	t.Setenv("CPT_NOTIFY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Pricing.BusinessQuota != 500 {
		t.Errorf("BusinessQuota = %v, want 500", cfg.Pricing.BusinessQuota)
	}
	if cfg.ChunkSize != 250 {
		t.Errorf("ChunkSize = %d, want 250", cfg.ChunkSize)
	}
	if cfg.PowerUserTopN != 10 {
		t.Errorf("PowerUserTopN = %d, want 10", cfg.PowerUserTopN)
	}
	if !cfg.Notify {
		t.Error("Notify should be true")
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("CPT_CHUNK_SIZE", "not-a-number")
	t.Setenv("CPT_OVERAGE_RATE", "lots")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ChunkSize != defaultChunkSize {
		t.Errorf("ChunkSize = %d, want default %d", cfg.ChunkSize, defaultChunkSize)
	}
	if cfg.Pricing.OverageRatePerRequest != 0.04 {
		t.Errorf("OverageRatePerRequest = %v, want default 0.04", cfg.Pricing.OverageRatePerRequest)
	}
}

func TestLoadRejectsInvertedPlans(t *testing.T) {
	t.Setenv("CPT_BUSINESS_QUOTA", "2000")
	t.Setenv("CPT_ENTERPRISE_QUOTA", "1000")
	if _, err := Load(); err == nil {
		t.Error("expected error when business quota exceeds enterprise quota")
	}
}

func TestLoadRejectsInvertedThresholds(t *testing.T) {
	t.Setenv("CPT_STRONG_OVERAGE", "100")
	t.Setenv("CPT_BREAK_EVEN_OVERAGE", "200")
	if _, err := Load(); err == nil {
		t.Error("expected error when break-even exceeds strong threshold")
	}
}
