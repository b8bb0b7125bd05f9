package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mailsafe/internal/fileutil"
	"github.com/alnah/go-mailsafe/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldOutOfRange = errors.New("field out of range")
	ErrInvalidValue    = errors.New("invalid field value")
)

// Field length limits for multi-tenant safety.
const (
	MaxNameLength         = 100  // Full name (generous)
	MaxTitleLength        = 100  // Professional title
	MaxEmailLength        = 254  // RFC 5321
	MaxURLLength          = 2048 // Browser limit
	MaxLabelLength        = 100  // Link label
	MaxPhoneLength        = 32   // E.164 plus formatting
	MaxOrganizationLength = 100  // Organization name
	MaxSubjectLength      = 998  // RFC 5322 line limit
	MaxPreheaderLength    = 250  // Inbox preview text
	MaxColorLength        = 20   // "#888888"
	MaxFontFamilyLength   = 200  // Font stack
	MaxLangLength         = 35   // BCP 47 tag
	MaxCharsetLength      = 40   // "windows-1252", "iso-8859-15"
	MaxTagLength          = 1000 // Postmark tag limit
	MaxPageSizeLength     = 10   // "letter", "a4", "legal"
	MaxOrientationLength  = 10   // "portrait", "landscape"
)

// Numeric bounds.
const (
	MaxWorkers       = 32
	MaxFontSizePx    = 200
	MaxImageColumnPx = 2000
)

// Delivery modes.
const (
	DeliveryModeBatch      = "batch"
	DeliveryModeIndividual = "individual"
)

// Config holds all configuration for email conversion and delivery.
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Convert   ConvertConfig   `yaml:"convert"`
	Document  DocumentConfig  `yaml:"document"`
	Signature SignatureConfig `yaml:"signature"`
	Assets    AssetsConfig    `yaml:"assets"`
	PDF       PDFConfig       `yaml:"pdf"`
	Delivery  DeliveryConfig  `yaml:"delivery"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
	Charset    string `yaml:"charset"`    // Source encoding label (empty = sniff, fall back to UTF-8)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = next to source)
}

// ConvertConfig mirrors the converter settings. Zero values use the converter defaults.
type ConvertConfig struct {
	TextColor        string  `yaml:"textColor"`
	ImageColumnWidth int     `yaml:"imageColumnWidth"`
	MinFontSize      float64 `yaml:"minFontSize"`
	BaseFontSize     float64 `yaml:"baseFontSize"`
	FontFamily       string  `yaml:"fontFamily"`
	DisableWrapper   bool    `yaml:"disableWrapper"`
}

// DocumentConfig defines the full email document shell.
type DocumentConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Title       string `yaml:"title"`
	Preheader   string `yaml:"preheader"`
	Lang        string `yaml:"lang"`
	Style       string `yaml:"style"`       // Head stylesheet name
	TemplateSet string `yaml:"templateSet"` // Document and signature templates
}

// SignatureConfig defines the signature block appended to each message.
type SignatureConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Name         string `yaml:"name"`
	Title        string `yaml:"title"`
	Email        string `yaml:"email"`
	Organization string `yaml:"organization"`
	Phone        string `yaml:"phone"`
	ImageURL     string `yaml:"imageURL"`
	Links        []Link `yaml:"links"`
}

// Link represents a signature link.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath      string `yaml:"basePath"`      // Custom styles/ and templates/ root (empty = embedded only)
	MaxImageBytes int64  `yaml:"maxImageBytes"` // Cap per inlined image (0 = converter default)
}

// PDFConfig defines the PDF proof.
type PDFConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Size        string  `yaml:"size"`
	Orientation string  `yaml:"orientation"`
	Margin      float64 `yaml:"margin"`
}

// DeliveryConfig defines how converted messages are sent.
// Credentials come from the environment, never from this file.
type DeliveryConfig struct {
	From    string `yaml:"from"`
	ReplyTo string `yaml:"replyTo"`
	Subject string `yaml:"subject"`
	Tag     string `yaml:"tag"`
	Mode    string `yaml:"mode"`    // "batch" or "individual" (empty = batch)
	Workers int    `yaml:"workers"` // Parallel sends in individual mode (0 = auto)
	DevDir  string `yaml:"devDir"`  // Write messages here instead of sending
}

// Validate checks field lengths and ranges.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.charset", c.Input.Charset, MaxCharsetLength); err != nil {
		return err
	}

	// Validate convert fields
	if err := validateFieldLength("convert.textColor", c.Convert.TextColor, MaxColorLength); err != nil {
		return err
	}
	if err := validateFieldLength("convert.fontFamily", c.Convert.FontFamily, MaxFontFamilyLength); err != nil {
		return err
	}
	if c.Convert.ImageColumnWidth < 0 || c.Convert.ImageColumnWidth > MaxImageColumnPx {
		return fmt.Errorf("%w: convert.imageColumnWidth must be between 0 and %d, got %d",
			ErrFieldOutOfRange, MaxImageColumnPx, c.Convert.ImageColumnWidth)
	}
	if c.Convert.MinFontSize < 0 || c.Convert.MinFontSize > MaxFontSizePx {
		return fmt.Errorf("%w: convert.minFontSize must be between 0 and %d, got %.2f",
			ErrFieldOutOfRange, MaxFontSizePx, c.Convert.MinFontSize)
	}
	if c.Convert.BaseFontSize < 0 || c.Convert.BaseFontSize > MaxFontSizePx {
		return fmt.Errorf("%w: convert.baseFontSize must be between 0 and %d, got %.2f",
			ErrFieldOutOfRange, MaxFontSizePx, c.Convert.BaseFontSize)
	}

	// Validate document fields
	if err := validateFieldLength("document.title", c.Document.Title, MaxSubjectLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.preheader", c.Document.Preheader, MaxPreheaderLength); err != nil {
		return err
	}
	if err := validateFieldLength("document.lang", c.Document.Lang, MaxLangLength); err != nil {
		return err
	}

	// Validate signature fields
	if err := validateFieldLength("signature.name", c.Signature.Name, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("signature.title", c.Signature.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("signature.email", c.Signature.Email, MaxEmailLength); err != nil {
		return err
	}
	if err := validateFieldLength("signature.organization", c.Signature.Organization, MaxOrganizationLength); err != nil {
		return err
	}
	if err := validateFieldLength("signature.phone", c.Signature.Phone, MaxPhoneLength); err != nil {
		return err
	}
	if err := validateFieldLength("signature.imageURL", c.Signature.ImageURL, MaxURLLength); err != nil {
		return err
	}
	for i, link := range c.Signature.Links {
		if err := validateFieldLength(fmt.Sprintf("signature.links[%d].label", i), link.Label, MaxLabelLength); err != nil {
			return err
		}
		if err := validateFieldLength(fmt.Sprintf("signature.links[%d].url", i), link.URL, MaxURLLength); err != nil {
			return err
		}
	}

	if c.Assets.MaxImageBytes < 0 {
		return fmt.Errorf("%w: assets.maxImageBytes must not be negative, got %d",
			ErrFieldOutOfRange, c.Assets.MaxImageBytes)
	}

	// Validate PDF fields
	if err := validateFieldLength("pdf.size", c.PDF.Size, MaxPageSizeLength); err != nil {
		return err
	}
	if err := validateFieldLength("pdf.orientation", c.PDF.Orientation, MaxOrientationLength); err != nil {
		return err
	}

	// Validate delivery fields
	if err := validateFieldLength("delivery.from", c.Delivery.From, MaxEmailLength); err != nil {
		return err
	}
	if err := validateFieldLength("delivery.replyTo", c.Delivery.ReplyTo, MaxEmailLength); err != nil {
		return err
	}
	if err := validateFieldLength("delivery.subject", c.Delivery.Subject, MaxSubjectLength); err != nil {
		return err
	}
	if err := validateFieldLength("delivery.tag", c.Delivery.Tag, MaxTagLength); err != nil {
		return err
	}
	if c.Delivery.Mode != "" {
		switch strings.ToLower(c.Delivery.Mode) {
		case DeliveryModeBatch, DeliveryModeIndividual:
			// valid
		default:
			return fmt.Errorf("%w: delivery.mode %q (must be batch or individual)", ErrInvalidValue, c.Delivery.Mode)
		}
	}
	if c.Delivery.Workers < 0 || c.Delivery.Workers > MaxWorkers {
		return fmt.Errorf("%w: delivery.workers must be between 0 and %d, got %d",
			ErrFieldOutOfRange, MaxWorkers, c.Delivery.Workers)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration with all optional features disabled.
func DefaultConfig() *Config {
	return &Config{
		Document:  DocumentConfig{Enabled: false},
		Signature: SignatureConfig{Enabled: false},
		PDF:       PDFConfig{Enabled: false},
		Delivery:  DeliveryConfig{Mode: DeliveryModeBatch},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mailsafe/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-mailsafe", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
