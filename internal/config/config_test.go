package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:               "8000",
		Env:                "development",
		DatabaseURL:        "postgres://localhost/medirec",
		AccessTokenSecret:  "access-secret",
		AccessTokenExpiry:  "15m",
		RefreshTokenSecret: "refresh-secret",
		RefreshTokenExpiry: "240h",
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_MissingAccessSecret(t *testing.T) {
	cfg := validConfig()
	cfg.AccessTokenSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing ACCESS_TOKEN_SECRET")
	}
}

func TestValidate_MissingRefreshSecret(t *testing.T) {
	cfg := validConfig()
	cfg.RefreshTokenSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing REFRESH_TOKEN_SECRET")
	}
}

func TestValidate_IdenticalSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.RefreshTokenSecret = cfg.AccessTokenSecret
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for identical secrets")
	}
}

func TestValidate_BadExpiry(t *testing.T) {
	for _, expiry := range []string{"", "soon", "-5m", "0s"} {
		cfg := validConfig()
		cfg.AccessTokenExpiry = expiry
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for expiry %q", expiry)
		}
	}
}

func TestAccessTokenTTL(t *testing.T) {
	cfg := validConfig()
	ttl, err := cfg.AccessTokenTTL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl != 15*time.Minute {
		t.Errorf("expected 15m, got %s", ttl)
	}
}

func TestRefreshTokenTTL(t *testing.T) {
	cfg := validConfig()
	ttl, err := cfg.RefreshTokenTTL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl != 240*time.Hour {
		t.Errorf("expected 240h, got %s", ttl)
	}
}
