package config

import (
	"testing"
	"time"
)

func TestLoadRequiresTokenSecret(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when TOKEN_SECRET is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.ServerPort)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h token lifetime, got %s", cfg.TokenTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("expected default bcrypt cost 10, got %d", cfg.BcryptCost)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "s3cret")
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("BCRYPT_COST", "12")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.ServerPort != 9000 || cfg.TokenTTL != time.Hour || cfg.BcryptCost != 12 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
