package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Addr string `env:"DUALITY_TABLE_TEST_ADDR" envDefault:":3000"`
	Port int    `env:"DUALITY_TABLE_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != ":3000" {
		t.Fatalf("expected default addr :3000, got %q", cfg.Addr)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvOverride(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("DUALITY_TABLE_TEST_PORT", "9999")

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 9999 {
		t.Fatalf("expected port 9999, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("DUALITY_TABLE_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
