package config

import "testing"

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("MEMORY_TTL_DAYS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Provider != "gemini" {
		t.Fatalf("expected provider gemini, got %s", cfg.Provider)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("expected default redis addr, got %s", cfg.RedisAddr)
	}
	if cfg.MemoryTTLDays != 7 {
		t.Fatalf("expected default memory TTL of 7 days, got %d", cfg.MemoryTTLDays)
	}
}

func TestLoadConfig_UnsupportedProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "unknown")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestGetEnvIntOrDefault(t *testing.T) {
	t.Setenv("UNIT_TEST_INT", "12")
	if got := getEnvIntOrDefault("UNIT_TEST_INT", 3); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}

	t.Setenv("UNIT_TEST_INT", "not-a-number")
	if got := getEnvIntOrDefault("UNIT_TEST_INT", 3); got != 3 {
		t.Fatalf("expected fallback 3, got %d", got)
	}
}
