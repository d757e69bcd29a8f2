package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("AI_MODE", "")
	t.Setenv("AUTH_MODE", "")

	cfg := Load()

	if cfg.Env != "local" {
		t.Errorf("expected env=local, got %q", cfg.Env)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port=8080, got %d", cfg.Port)
	}
	if cfg.AIMode != "mock" {
		t.Errorf("expected ai_mode=mock, got %q", cfg.AIMode)
	}
	if cfg.AuthMode != "none" {
		t.Errorf("expected auth_mode=none, got %q", cfg.AuthMode)
	}
	if cfg.AIMaxToolCalls != 8 {
		t.Errorf("expected default chain cap 8, got %d", cfg.AIMaxToolCalls)
	}
	if cfg.ChatHistoryLimit != 20 {
		t.Errorf("expected history limit 20, got %d", cfg.ChatHistoryLimit)
	}
}

func TestLoadUnknownModesFallBack(t *testing.T) {
	t.Setenv("AI_MODE", "gemini")
	t.Setenv("AUTH_MODE", "oauth")
	t.Setenv("BLOB_MODE", "ftp")

	cfg := Load()

	if cfg.AIMode != "mock" {
		t.Errorf("expected fallback to mock, got %q", cfg.AIMode)
	}
	if cfg.AuthMode != "none" {
		t.Errorf("expected fallback to none, got %q", cfg.AuthMode)
	}
	if cfg.Blob.Mode != BlobModeLocal {
		t.Errorf("expected fallback to local, got %q", cfg.Blob.Mode)
	}
}

func TestDatabaseURLPriority(t *testing.T) {
	t.Setenv("DATABASE_URL_POOLED", "postgres://pooled")
	t.Setenv("DATABASE_URL", "postgres://plain")
	t.Setenv("DATABASE_URL_DIRECT", "postgres://direct")

	cfg := Load()

	if cfg.DatabaseURL != "postgres://pooled" {
		t.Errorf("expected pooled URL to win, got %q", cfg.DatabaseURL)
	}
}

func TestParseCORSOrigins(t *testing.T) {
	origins := parseCORSOrigins(" https://app.modo.fit , https://staging.modo.fit ", "production")
	if len(origins) != 2 {
		t.Fatalf("expected 2 origins, got %d", len(origins))
	}
	if origins[0] != "https://app.modo.fit" {
		t.Errorf("expected trimmed origin, got %q", origins[0])
	}

	if got := parseCORSOrigins("", "production"); got != nil {
		t.Errorf("expected nil origins in production, got %v", got)
	}
	if got := parseCORSOrigins("", "local"); len(got) == 0 {
		t.Errorf("expected localhost defaults in local mode")
	}
}

func TestS3ConfigMissingRequired(t *testing.T) {
	c := S3Config{Endpoint: "https://storage.example.com", Bucket: "modo"}
	missing := c.MissingRequired()
	if len(missing) != 3 {
		t.Fatalf("expected 3 missing keys, got %v", missing)
	}
	if c.IsConfigured() {
		t.Error("expected incomplete config to report not configured")
	}
}
