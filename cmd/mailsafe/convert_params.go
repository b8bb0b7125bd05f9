package main

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	mailsafe "github.com/alnah/go-mailsafe"
	"github.com/alnah/go-mailsafe/internal/config"
	"github.com/alnah/go-mailsafe/internal/dom"
)

// ErrInvalidTimeout is returned for an unparsable or non-positive --timeout.
var ErrInvalidTimeout = errors.New("invalid timeout")

// buildSettings maps the convert section to library settings.
func buildSettings(cfg *config.Config) mailsafe.Settings {
	return mailsafe.Settings{
		DefaultTextColor:          cfg.Convert.TextColor,
		DefaultImageColumnWidthPx: cfg.Convert.ImageColumnWidth,
		MinimumFontSizePx:         cfg.Convert.MinFontSize,
		BaseFontSizePx:            cfg.Convert.BaseFontSize,
		FontFamily:                cfg.Convert.FontFamily,
		DisableWrapper:            cfg.Convert.DisableWrapper,
	}
}

// buildDocumentShell returns the document shell template, or nil when disabled.
// An empty title is filled per file from its first heading.
func buildDocumentShell(cfg *config.Config) *mailsafe.DocumentShell {
	if !cfg.Document.Enabled {
		return nil
	}
	return &mailsafe.DocumentShell{
		Title:     cfg.Document.Title,
		Preheader: cfg.Document.Preheader,
		Lang:      cfg.Document.Lang,
	}
}

// documentFor copies the shell template and fills a missing title from input.
func documentFor(shell *mailsafe.DocumentShell, input mailsafe.Input) *mailsafe.DocumentShell {
	if shell == nil {
		return nil
	}
	doc := *shell
	if doc.Title == "" {
		if input.Markdown != "" {
			doc.Title = extractFirstHeading(input.Markdown)
		} else {
			doc.Title = extractFirstHTMLHeading(input.HTML)
		}
	}
	return &doc
}

// firstHeadingPattern matches the first # heading in markdown content.
var firstHeadingPattern = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// extractFirstHeading extracts the first # heading from markdown content.
func extractFirstHeading(markdown string) string {
	matches := firstHeadingPattern.FindStringSubmatch(markdown)
	if len(matches) >= 2 {
		return strings.TrimSpace(matches[1])
	}
	return ""
}

// extractFirstHTMLHeading returns the text of the first <h1>, or of <title>
// when the source has no <h1>.
func extractFirstHTMLHeading(content string) string {
	frag, err := dom.Parse(content)
	if err != nil {
		return ""
	}
	var h1, title string
	dom.Walk(frag.Children, func(el *dom.Element) bool {
		switch {
		case el.Tag == "h1" && h1 == "":
			h1 = strings.Join(strings.Fields(dom.TextContent(el)), " ")
			return false
		case el.Tag == "title" && title == "":
			title = strings.TrimSpace(dom.TextContent(el))
			return false
		}
		return h1 == ""
	})
	if h1 != "" {
		return h1
	}
	return title
}

// buildSignature creates a mailsafe.Signature from config.
// Returns nil when the block is disabled or has no name.
func buildSignature(cfg *config.Config) *mailsafe.Signature {
	if !cfg.Signature.Enabled || cfg.Signature.Name == "" {
		return nil
	}
	links := make([]mailsafe.Link, len(cfg.Signature.Links))
	for i, l := range cfg.Signature.Links {
		links[i] = mailsafe.Link{Label: l.Label, URL: l.URL}
	}
	return &mailsafe.Signature{
		Name:         cfg.Signature.Name,
		Title:        cfg.Signature.Title,
		Email:        cfg.Signature.Email,
		Organization: cfg.Signature.Organization,
		Phone:        cfg.Signature.Phone,
		ImageURL:     cfg.Signature.ImageURL,
		Links:        links,
	}
}

// buildPageSettings returns validated proof page settings, or nil when the
// proof is disabled. Unset fields fall back to the defaults.
func buildPageSettings(cfg *config.Config) (*mailsafe.PageSettings, error) {
	if !cfg.PDF.Enabled {
		return nil, nil
	}
	ps := mailsafe.DefaultPageSettings()
	if cfg.PDF.Size != "" {
		ps.Size = strings.ToLower(cfg.PDF.Size)
	}
	if cfg.PDF.Orientation != "" {
		ps.Orientation = strings.ToLower(cfg.PDF.Orientation)
	}
	if cfg.PDF.Margin > 0 {
		ps.Margin = cfg.PDF.Margin
	}
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// converterOptions translates config into converter options.
func converterOptions(cfg *config.Config, timeout time.Duration) []mailsafe.Option {
	opts := []mailsafe.Option{mailsafe.WithSettings(buildSettings(cfg))}
	if timeout > 0 {
		opts = append(opts, mailsafe.WithTimeout(timeout))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, mailsafe.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Assets.MaxImageBytes > 0 {
		opts = append(opts, mailsafe.WithMaxImageBytes(cfg.Assets.MaxImageBytes))
	}
	if cfg.Document.Style != "" {
		opts = append(opts, mailsafe.WithStyle(cfg.Document.Style))
	}
	if cfg.Document.TemplateSet != "" {
		opts = append(opts, mailsafe.WithTemplateSet(cfg.Document.TemplateSet))
	}
	return opts
}

// resolveTimeout picks the flag value over the environment. Zero means the
// converter default.
func resolveTimeout(flagValue string, envValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return envValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

// mergeSourceFlags merges conversion flags into config. CLI values override config values.
func mergeSourceFlags(f *sourceFlags, cfg *config.Config) {
	setString(&cfg.Input.Charset, f.charset)
	mergeSettingsFlags(&f.settings, cfg)

	if f.document.enabled {
		cfg.Document.Enabled = true
	}
	if f.document.disabled {
		cfg.Document.Enabled = false
	}
	setString(&cfg.Document.Title, f.document.title)
	setString(&cfg.Document.Preheader, f.document.preheader)
	setString(&cfg.Document.Lang, f.document.lang)

	setString(&cfg.Document.Style, f.assets.style)
	setString(&cfg.Document.TemplateSet, f.assets.template)
	setString(&cfg.Assets.BasePath, f.assets.assetPath)
	if f.assets.maxImageBytes > 0 {
		cfg.Assets.MaxImageBytes = f.assets.maxImageBytes
	}

	if f.signature.disabled {
		cfg.Signature.Enabled = false
	}
}

// mergeSettingsFlags merges settings flags into config.
func mergeSettingsFlags(f *settingsFlags, cfg *config.Config) {
	setString(&cfg.Convert.TextColor, f.textColor)
	setString(&cfg.Convert.FontFamily, f.fontFamily)
	if f.imageWidth > 0 {
		cfg.Convert.ImageColumnWidth = f.imageWidth
	}
	if f.minFontSize > 0 {
		cfg.Convert.MinFontSize = f.minFontSize
	}
	if f.baseFontSize > 0 {
		cfg.Convert.BaseFontSize = f.baseFontSize
	}
	if f.disableWrapper {
		cfg.Convert.DisableWrapper = true
	}
}

// mergePDFFlags merges proof flags into config. Any page flag implies --pdf.
func mergePDFFlags(f *pdfFlags, cfg *config.Config) {
	if f.enabled || f.size != "" || f.orientation != "" || f.margin > 0 {
		cfg.PDF.Enabled = true
	}
	setString(&cfg.PDF.Size, f.size)
	setString(&cfg.PDF.Orientation, f.orientation)
	if f.margin > 0 {
		cfg.PDF.Margin = f.margin
	}
}
