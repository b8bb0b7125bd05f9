package main

// Notes:
// - Tests here mutate the process environment and cannot run in parallel.
// - loadDotEnv: we test default, explicit and missing files. Variables the
//   file sets are registered with t.Setenv first so they are restored.
// - loadEnvConfig/applyEnvConfig: we test prefix parsing, nested delivery
//   settings, validation and precedence over the config file.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mailsafe/internal/config"
)

// clearMailsafeEnv unsets every MAILSAFE_* variable for the test.
func clearMailsafeEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - MAILSAFE_* parsing
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		clearMailsafeEnv(t)
		t.Setenv("MAILSAFE_STYLE", "dark")
		t.Setenv("MAILSAFE_TIMEOUT", "45s")
		t.Setenv("MAILSAFE_WORKERS", "3")
		t.Setenv("MAILSAFE_PAGE_SIZE", "a4")
		t.Setenv("MAILSAFE_POSTMARK_SERVER_TOKEN", "server-token")
		t.Setenv("MAILSAFE_FROM", "team@example.com")
		t.Setenv("MAILSAFE_TRACK_OPENS", "false")

		got, err := loadEnvConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Style != "dark" || got.Timeout != 45*time.Second || got.Workers != 3 || got.PageSize != "a4" {
			t.Errorf("envConfig = %+v", got)
		}
		if got.Delivery.PostmarkServerToken != "server-token" || got.Delivery.From != "team@example.com" {
			t.Errorf("Delivery = %+v", got.Delivery)
		}
		if got.Delivery.TrackOpens {
			t.Error("TrackOpens should follow MAILSAFE_TRACK_OPENS")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		clearMailsafeEnv(t)

		got, err := loadEnvConfig()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Delivery.TrackOpens {
			t.Error("TrackOpens should default to true")
		}
		if got.Timeout != 0 || got.Workers != 0 {
			t.Errorf("envConfig = %+v, want zero values", got)
		}
	})

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparsable timeout", "MAILSAFE_TIMEOUT", "soon"},
		{"negative timeout", "MAILSAFE_TIMEOUT", "-1s"},
		{"negative workers", "MAILSAFE_WORKERS", "-2"},
		{"unparsable workers", "MAILSAFE_WORKERS", "many"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearMailsafeEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := loadEnvConfig(); !errors.Is(err, ErrEnvConfig) {
				t.Errorf("error = %v, want ErrEnvConfig", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadDotEnv - .env loading
// ---------------------------------------------------------------------------

func TestLoadDotEnv(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		clearMailsafeEnv(t)
		t.Setenv("MAILSAFE_SUBJECT", "")
		os.Unsetenv("MAILSAFE_SUBJECT")
		path := writeFile(t, t.TempDir(), "prod.env", "MAILSAFE_SUBJECT=From file\n")

		if err := loadDotEnv(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := os.Getenv("MAILSAFE_SUBJECT"); got != "From file" {
			t.Errorf("MAILSAFE_SUBJECT = %q", got)
		}
	})

	t.Run("process environment wins", func(t *testing.T) {
		clearMailsafeEnv(t)
		t.Setenv("MAILSAFE_TAG", "from-env")
		path := writeFile(t, t.TempDir(), "prod.env", "MAILSAFE_TAG=from-file\n")

		if err := loadDotEnv(path); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := os.Getenv("MAILSAFE_TAG"); got != "from-env" {
			t.Errorf("MAILSAFE_TAG = %q, want process value", got)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		err := loadDotEnv(filepath.Join(t.TempDir(), "missing.env"))
		if !errors.Is(err, ErrEnvConfig) {
			t.Errorf("error = %v, want ErrEnvConfig", err)
		}
	})

	t.Run("missing default file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if err := loadDotEnv(""); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	clearMailsafeEnv(t)
	t.Setenv("MAILSAFE_STYLE", "dark")
	t.Setenv("MAILSAFE_POSTMARK_TOKEN", "x")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "MAILSAFE_POSTMARK_TOKEN") {
		t.Errorf("output = %q, want warning for unknown variable", out)
	}
	if strings.Contains(out, "MAILSAFE_STYLE") {
		t.Errorf("output = %q, known variable should not warn", out)
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Precedence over the config file
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Document.Style = "default"
	cfg.Delivery.Subject = "From config"
	cfg.Delivery.Tag = "config-tag"

	applyEnvConfig(&envConfig{
		Style:    "dark",
		Subject:  "From env",
		PageSize: "legal",
	}, cfg)

	if cfg.Document.Style != "dark" {
		t.Errorf("Style = %q, env should override config", cfg.Document.Style)
	}
	if cfg.Delivery.Subject != "From env" {
		t.Errorf("Subject = %q, env should override config", cfg.Delivery.Subject)
	}
	if cfg.Delivery.Tag != "config-tag" {
		t.Errorf("Tag = %q, unset env should keep config", cfg.Delivery.Tag)
	}
	if !cfg.PDF.Enabled || cfg.PDF.Size != "legal" {
		t.Errorf("PDF = %+v, page size should enable the proof", cfg.PDF)
	}
}

// ---------------------------------------------------------------------------
// TestLoadCommandConfig - Resolution order
// ---------------------------------------------------------------------------

func TestLoadCommandConfig(t *testing.T) {
	clearMailsafeEnv(t)
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "team.yaml", "document:\n  style: default\ndelivery:\n  subject: Config subject\n")
	t.Setenv("MAILSAFE_CONFIG", cfgPath)
	t.Setenv("MAILSAFE_STYLE", "dark")

	var stderr bytes.Buffer
	cfg, e, err := loadCommandConfig(commonFlags{envFile: writeFile(t, dir, "empty.env", "")}, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ConfigPath != cfgPath {
		t.Errorf("ConfigPath = %q", e.ConfigPath)
	}
	if cfg.Delivery.Subject != "Config subject" {
		t.Errorf("Subject = %q, want value from MAILSAFE_CONFIG file", cfg.Delivery.Subject)
	}
	if cfg.Document.Style != "dark" {
		t.Errorf("Style = %q, want env override", cfg.Document.Style)
	}
}
