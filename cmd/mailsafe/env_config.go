package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/alnah/go-mailsafe/internal/config"
	"github.com/alnah/go-mailsafe/internal/delivery"
)

const (
	envPrefix     = "MAILSAFE_"
	defaultDotEnv = ".env"
)

// ErrEnvConfig is returned when an environment variable or .env file is invalid.
var ErrEnvConfig = errors.New("invalid environment configuration")

// envConfig holds configuration from MAILSAFE_* environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        `env:"CONFIG"`
	Style      string        `env:"STYLE"`
	Timeout    time.Duration `env:"TIMEOUT"`

	// Tier 2 - I/O and conversion
	InputDir   string `env:"INPUT_DIR"`
	OutputDir  string `env:"OUTPUT_DIR"`
	Charset    string `env:"CHARSET"`
	Template   string `env:"TEMPLATE"`
	TextColor  string `env:"TEXT_COLOR"`
	FontFamily string `env:"FONT_FAMILY"`
	PageSize   string `env:"PAGE_SIZE"`
	Workers    int    `env:"WORKERS"`

	// Tier 3 - Delivery
	Subject      string `env:"SUBJECT"`
	Tag          string `env:"TAG"`
	DeliveryMode string `env:"DELIVERY_MODE"`
	DevDir       string `env:"DEV_DIR"`
	Delivery     delivery.Config
}

// knownEnvVars lists valid MAILSAFE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MAILSAFE_CONFIG":                 true,
	"MAILSAFE_STYLE":                  true,
	"MAILSAFE_TIMEOUT":                true,
	"MAILSAFE_INPUT_DIR":              true,
	"MAILSAFE_OUTPUT_DIR":             true,
	"MAILSAFE_CHARSET":                true,
	"MAILSAFE_TEMPLATE":               true,
	"MAILSAFE_TEXT_COLOR":             true,
	"MAILSAFE_FONT_FAMILY":            true,
	"MAILSAFE_PAGE_SIZE":              true,
	"MAILSAFE_WORKERS":                true,
	"MAILSAFE_SUBJECT":                true,
	"MAILSAFE_TAG":                    true,
	"MAILSAFE_DELIVERY_MODE":          true,
	"MAILSAFE_DEV_DIR":                true,
	"MAILSAFE_POSTMARK_SERVER_TOKEN":  true,
	"MAILSAFE_POSTMARK_ACCOUNT_TOKEN": true,
	"MAILSAFE_FROM":                   true,
	"MAILSAFE_REPLY_TO":               true,
	"MAILSAFE_TRACK_OPENS":            true,
}

// loadDotEnv loads variables from a .env file without overriding the
// process environment. A missing default file is not an error; a missing
// explicit one is.
func loadDotEnv(path string) error {
	explicit := path != ""
	if !explicit {
		path = defaultDotEnv
	}
	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: loading %s: %v", ErrEnvConfig, path, err)
	}
	return nil
}

// loadEnvConfig reads configuration from MAILSAFE_* environment variables.
func loadEnvConfig() (*envConfig, error) {
	cfg := &envConfig{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvConfig, err)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("%w: %sTIMEOUT must be positive", ErrEnvConfig, envPrefix)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: %sWORKERS must be positive", ErrEnvConfig, envPrefix)
	}
	return cfg, nil
}

// warnUnknownEnvVars logs warnings for unrecognized MAILSAFE_* variables.
// Helps catch typos like MAILSAFE_POSTMARK_TOKEN.
func warnUnknownEnvVars(w io.Writer) {
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies set environment values over the config file.
// CLI flags are applied afterwards, giving: flags > env vars > config file > defaults.
func applyEnvConfig(e *envConfig, cfg *config.Config) {
	setString(&cfg.Document.Style, e.Style)
	setString(&cfg.Document.TemplateSet, e.Template)
	setString(&cfg.Input.DefaultDir, e.InputDir)
	setString(&cfg.Input.Charset, e.Charset)
	setString(&cfg.Output.DefaultDir, e.OutputDir)
	setString(&cfg.Convert.TextColor, e.TextColor)
	setString(&cfg.Convert.FontFamily, e.FontFamily)

	// A page size implies a PDF proof.
	if e.PageSize != "" {
		cfg.PDF.Size = e.PageSize
		cfg.PDF.Enabled = true
	}

	setString(&cfg.Delivery.Subject, e.Subject)
	setString(&cfg.Delivery.Tag, e.Tag)
	setString(&cfg.Delivery.Mode, e.DeliveryMode)
	setString(&cfg.Delivery.DevDir, e.DevDir)
	setString(&cfg.Delivery.From, e.Delivery.From)
	setString(&cfg.Delivery.ReplyTo, e.Delivery.ReplyTo)
}

// setString overwrites dst when v is non-empty.
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
