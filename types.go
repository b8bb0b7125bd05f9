package mailsafe

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-mailsafe/internal/emailsafe"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// Settings bounds.
const (
	MaxImageColumnWidthPx = 2000
	MaxFontSizePx         = 200
	MaxFontFamilyLength   = 200
)

// Report counts the rewrites made by one conversion.
type Report = emailsafe.Report

// Issue is one compatibility finding.
type Issue = emailsafe.Issue

// Lint severities.
const (
	SeverityWarning = emailsafe.SeverityWarning
	SeverityError   = emailsafe.SeverityError
)

// Settings configures the email-safe conversion.
// Zero fields fall back to defaults.
type Settings struct {
	DefaultTextColor          string  // wrapper text color (default "#000000")
	DefaultImageColumnWidthPx int     // float cell width when an image has none (default 260)
	MinimumFontSizePx         float64 // font-size floor (default 10)
	BaseFontSizePx            float64 // wrapper size and em/line-height base (default 14)
	FontFamily                string  // wrapper font stack (default "Arial, Helvetica, sans-serif")
	DisableWrapper            bool    // skip the outer presentation table
}

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks that settings are usable.
// Returns nil if s is nil (nil means use defaults).
func (s *Settings) Validate() error {
	if s == nil {
		return nil
	}
	if s.DefaultTextColor != "" && !hexColorPattern.MatchString(s.DefaultTextColor) {
		return fmt.Errorf("%w: text color %q (must be #rgb or #rrggbb)", ErrInvalidSettings, s.DefaultTextColor)
	}
	if s.DefaultImageColumnWidthPx < 0 || s.DefaultImageColumnWidthPx > MaxImageColumnWidthPx {
		return fmt.Errorf("%w: image column width %d (must be between 0 and %d)",
			ErrInvalidSettings, s.DefaultImageColumnWidthPx, MaxImageColumnWidthPx)
	}
	if s.MinimumFontSizePx < 0 || s.MinimumFontSizePx > MaxFontSizePx {
		return fmt.Errorf("%w: minimum font size %.2f", ErrInvalidSettings, s.MinimumFontSizePx)
	}
	if s.BaseFontSizePx < 0 || s.BaseFontSizePx > MaxFontSizePx {
		return fmt.Errorf("%w: base font size %.2f", ErrInvalidSettings, s.BaseFontSizePx)
	}
	if len(s.FontFamily) > MaxFontFamilyLength {
		return fmt.Errorf("%w: font family exceeds %d characters", ErrInvalidSettings, MaxFontFamilyLength)
	}
	if strings.ContainsAny(s.FontFamily, ";{}<>") {
		return fmt.Errorf("%w: font family %q contains reserved characters", ErrInvalidSettings, s.FontFamily)
	}
	return nil
}

func (s Settings) toInternal() emailsafe.Settings {
	return emailsafe.Settings{
		DefaultTextColor:          s.DefaultTextColor,
		DefaultImageColumnWidthPx: s.DefaultImageColumnWidthPx,
		MinimumFontSizePx:         s.MinimumFontSizePx,
		BaseFontSizePx:            s.BaseFontSizePx,
		FontFamily:                s.FontFamily,
		DisableWrapper:            s.DisableWrapper,
	}
}

// PageSettings configures PDF proof page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means no PDF proof).
// Does not mutate - uses case-insensitive comparison.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	if !isValidPageSize(p.Size) {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	if !isValidOrientation(p.Orientation) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// isValidPageSize checks if size is a known page size (case-insensitive).
func isValidPageSize(size string) bool {
	switch strings.ToLower(size) {
	case PageSizeLetter, PageSizeA4, PageSizeLegal:
		return true
	}
	return false
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// Input contains conversion parameters.
type Input struct {
	HTML      string         // HTML fragment (exclusive with Markdown)
	Markdown  string         // Markdown content (exclusive with HTML)
	SourceDir string         // base directory for relative images (optional)
	Settings  *Settings      // per-call settings (optional, nil = converter settings)
	Signature *Signature     // signature block appended to the content (optional)
	Document  *DocumentShell // wrap the fragment in a full email document (optional)
	PDF       *PageSettings  // render a PDF proof (optional, nil = skip)
}

// ConvertResult contains the outputs of a conversion.
type ConvertResult struct {
	HTML   []byte
	PDF    []byte // nil unless Input.PDF was set
	Report Report
	Issues []Issue
}

// DocumentShell configures the full email document around the converted fragment.
type DocumentShell struct {
	Title     string
	Preheader string // hidden inbox preview text
	Lang      string // BCP 47 tag, default "en"
}

var langPattern = regexp.MustCompile(`^[A-Za-z]{2,3}(?:-[A-Za-z0-9]{2,8})*$`)

// Validate checks that the document shell is valid.
// Returns nil if d is nil (nil means no shell).
func (d *DocumentShell) Validate() error {
	if d == nil || d.Lang == "" {
		return nil
	}
	if !langPattern.MatchString(d.Lang) {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, d.Lang)
	}
	return nil
}

// Signature configures the signature block.
type Signature struct {
	Name         string
	Title        string
	Email        string
	Organization string
	Phone        string
	ImageURL     string
	Links        []Link
}

// Link represents a clickable link.
type Link struct {
	Label string
	URL   string
}

// Validate checks that signature links use a scheme email clients follow.
// Returns nil if s is nil (nil means no signature).
func (s *Signature) Validate() error {
	if s == nil {
		return nil
	}
	for _, l := range s.Links {
		u, err := url.Parse(l.URL)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidSignatureLink, l.URL, err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "mailto":
		default:
			return fmt.Errorf("%w: %q (must be http, https or mailto)", ErrInvalidSignatureLink, l.URL)
		}
	}
	return nil
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout       time.Duration
	settings      Settings
	assetPath     string
	templateSet   string
	style         string
	maxImageBytes int64
}

// Defaults used when no option is specified.
const (
	defaultTimeout = 30 * time.Second

	// DefaultMaxImageBytes caps one inlined image unless WithMaxImageBytes is set.
	DefaultMaxImageBytes = 1 << 20
)

// WithTimeout sets the PDF proof timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mailsafe: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithSettings sets the conversion settings used when Input.Settings is nil.
func WithSettings(s Settings) Option {
	return func(c *Converter) {
		c.cfg.settings = s
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// embedded assets.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithTemplateSet selects the document and signature templates by name.
func WithTemplateSet(name string) Option {
	return func(c *Converter) {
		c.cfg.templateSet = name
	}
}

// WithStyle selects the head stylesheet of the document shell by name.
func WithStyle(name string) Option {
	return func(c *Converter) {
		c.cfg.style = name
	}
}

// WithMaxImageBytes caps the size of a single inlined image.
// Panics if n <= 0.
func WithMaxImageBytes(n int64) Option {
	if n <= 0 {
		panic("mailsafe: WithMaxImageBytes limit must be positive")
	}
	return func(c *Converter) {
		c.cfg.maxImageBytes = n
	}
}
