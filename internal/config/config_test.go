package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("BESSA_USERNAME", "user@example.com")
	t.Setenv("BESSA_PASSWORD", "secret")
	t.Setenv("BESSA_VENUE_ID", "42")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.VenueID != 42 {
		t.Fatalf("expected venue 42, got %d", cfg.VenueID)
	}
	if cfg.BaseURL != "https://api.bessa.app" {
		t.Fatalf("unexpected default base url %q", cfg.BaseURL)
	}
	if cfg.Port != "8080" {
		t.Fatalf("unexpected default port %q", cfg.Port)
	}
	if cfg.RefreshInterval != 30*time.Minute {
		t.Fatalf("unexpected default interval %v", cfg.RefreshInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BESSA_BASE_URL", "http://localhost:9999")
	t.Setenv("REFRESH_INTERVAL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://localhost:9999" {
		t.Fatalf("override ignored: %q", cfg.BaseURL)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Fatalf("override ignored: %v", cfg.RefreshInterval)
	}
}

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("BESSA_USERNAME", "user@example.com")
	t.Setenv("BESSA_PASSWORD", "secret")
	t.Setenv("BESSA_VENUE_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing venue id")
	}
}
