package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "SERVER_PORT", "JWT_SECRET", "STORE_DRIVER", "APP_ENV", "TOKEN_TTL", "AUTH_BCRYPT_COST"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.HTTP.Port)
	}
	if cfg.Store.Driver != DriverFile {
		t.Fatalf("expected file driver, got %q", cfg.Store.Driver)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.Secret != DevelopmentSecret || !cfg.Auth.SecretDefaulted {
		t.Fatalf("expected development secret fallback, got %q (defaulted=%v)", cfg.Auth.Secret, cfg.Auth.SecretDefaulted)
	}
}

func TestLoad_PortPrecedence(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("PORT", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != "8081" {
		t.Fatalf("expected SERVER_PORT fallback, got %q", cfg.HTTP.Port)
	}

	t.Setenv("PORT", "9090")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != "9090" {
		t.Fatalf("expected PORT to win, got %q", cfg.HTTP.Port)
	}
	if cfg.Address() != "0.0.0.0:9090" {
		t.Fatalf("unexpected address %q", cfg.Address())
	}
}

func TestLoad_RequiresSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is not set in production")
	}

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with secret set: %v", err)
	}
	if cfg.Auth.SecretDefaulted {
		t.Fatalf("secret should not be marked as defaulted")
	}
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestGetDuration_AcceptsSeconds(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")
	if got := getDuration("REQUEST_TIMEOUT_SECONDS", time.Second); got != 7*time.Second {
		t.Fatalf("expected 7s, got %v", got)
	}
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "250ms")
	if got := getDuration("REQUEST_TIMEOUT_SECONDS", time.Second); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", got)
	}
}
