package mailsafe

import (
	"context"
	"fmt"

	"github.com/alnah/go-mailsafe/internal/assets"
	"github.com/alnah/go-mailsafe/internal/emailsafe"
	"github.com/alnah/go-mailsafe/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.ImageInliner         = (*pipeline.FileImageInliner)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.SignatureInjector    = (*pipeline.SignatureInjection)(nil)
	_ pipeline.DocumentInjector     = (*pipeline.DocumentInjection)(nil)
	_ pdfConverter                  = (*rodConverter)(nil)
	_ pdfRenderer                   = (*rodRenderer)(nil)
)

// Converter runs sources through the email-safe conversion and renders the
// optional document shell and PDF proof.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
type Converter struct {
	cfg               converterConfig
	assetLoader       assets.AssetLoader
	styleCSS          string
	preprocessor      pipeline.MarkdownPreprocessor
	htmlConverter     pipeline.HTMLConverter
	imageInliner      pipeline.ImageInliner
	cssInjector       pipeline.CSSInjector
	signatureInjector pipeline.SignatureInjector
	documentInjector  pipeline.DocumentInjector
	pdfConverter      pdfConverter
}

// NewConverter creates a Converter with default configuration.
// Returns error if settings are invalid or asset loading or template parsing fails.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:       defaultTimeout,
			maxImageBytes: DefaultMaxImageBytes,
			templateSet:   assets.DefaultTemplateSetName,
			style:         assets.DefaultStyleName,
		},
		assetLoader:   assets.NewEmbeddedLoader(),
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
		cssInjector:   &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.settings.Validate(); err != nil {
		return nil, err
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	css, err := c.assetLoader.LoadStyle(c.cfg.style)
	if err != nil {
		return nil, fmt.Errorf("loading style %q: %w", c.cfg.style, err)
	}
	c.styleCSS = css

	templateSet, err := c.assetLoader.LoadTemplateSet(c.cfg.templateSet)
	if err != nil {
		return nil, fmt.Errorf("loading template set %q: %w", c.cfg.templateSet, err)
	}

	// Injected collaborators (tests) are kept as is.
	if c.signatureInjector == nil {
		c.signatureInjector, err = pipeline.NewSignatureInjection(templateSet.Signature)
		if err != nil {
			return nil, fmt.Errorf("initializing signature injector: %w", err)
		}
	}

	if c.documentInjector == nil {
		c.documentInjector, err = pipeline.NewDocumentInjection(templateSet.Document)
		if err != nil {
			return nil, fmt.Errorf("initializing document injector: %w", err)
		}
	}

	if c.imageInliner == nil {
		c.imageInliner = pipeline.NewFileImageInliner(c.cfg.maxImageBytes)
	}

	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout)
	}

	return c, nil
}

// Convert runs the full pipeline and returns the converted HTML, the report,
// lint issues and, when input.PDF is set, a PDF proof.
// The context is used for cancellation and timeout.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := c.validateInput(input); err != nil {
		return nil, err
	}

	htmlContent, err := c.source(ctx, input)
	if err != nil {
		return nil, err
	}

	if input.SourceDir != "" {
		htmlContent, err = c.imageInliner.InlineImages(ctx, htmlContent, input.SourceDir)
		if err != nil {
			return nil, fmt.Errorf("inlining images: %w", err)
		}
	}

	// The signature goes in before conversion so its markup is normalized too.
	htmlContent, err = c.signatureInjector.InjectSignature(ctx, htmlContent, toSignatureData(input.Signature))
	if err != nil {
		return nil, fmt.Errorf("injecting signature: %w", err)
	}

	settings := c.cfg.settings
	if input.Settings != nil {
		settings = *input.Settings
	}
	internal := settings.toInternal()

	converted, report := emailsafe.ConvertWithReport(htmlContent, internal)
	res := &ConvertResult{
		Report: report,
		Issues: emailsafe.Lint(converted, internal),
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if input.Document != nil {
		converted, err = c.documentInjector.InjectDocument(ctx, converted, toDocumentData(input.Document))
		if err != nil {
			return nil, fmt.Errorf("building document: %w", err)
		}
		converted = c.cssInjector.InjectCSS(ctx, converted, c.styleCSS)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	res.HTML = []byte(converted)

	if input.PDF == nil {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, converted, &pdfOptions{Page: input.PDF})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	res.PDF = pdfBytes
	return res, nil
}

// source returns the HTML fragment for input, rendering Markdown first when given.
func (c *Converter) source(ctx context.Context, input Input) (string, error) {
	if input.Markdown == "" {
		return input.HTML, nil
	}

	mdContent := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	htmlContent, err := c.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}

	// Completes the ==text== feature started in preprocessing.
	return pipeline.ConvertMarkPlaceholders(htmlContent), nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their input validated earlier by Config.Validate() at config load time.
func (c *Converter) validateInput(input Input) error {
	switch {
	case input.HTML == "" && input.Markdown == "":
		return ErrEmptyInput
	case input.HTML != "" && input.Markdown != "":
		return ErrAmbiguousInput
	}
	if err := input.Settings.Validate(); err != nil {
		return err
	}
	if err := input.PDF.Validate(); err != nil {
		return err
	}
	if err := input.Document.Validate(); err != nil {
		return err
	}
	if err := input.Signature.Validate(); err != nil {
		return err
	}
	return nil
}

// toSignatureData converts the public Signature type to internal pipeline.SignatureData.
func toSignatureData(sig *Signature) *pipeline.SignatureData {
	if sig == nil {
		return nil
	}
	links := make([]pipeline.SignatureLink, len(sig.Links))
	for i, l := range sig.Links {
		links[i] = pipeline.SignatureLink(l)
	}
	return &pipeline.SignatureData{
		Name:         sig.Name,
		Title:        sig.Title,
		Email:        sig.Email,
		Organization: sig.Organization,
		Phone:        sig.Phone,
		ImageURL:     sig.ImageURL,
		Links:        links,
	}
}

// toDocumentData converts the public DocumentShell type to internal pipeline.DocumentData.
func toDocumentData(d *DocumentShell) *pipeline.DocumentData {
	lang := d.Lang
	if lang == "" {
		lang = "en"
	}
	return &pipeline.DocumentData{
		Title:     d.Title,
		Preheader: d.Preheader,
		Lang:      lang,
	}
}
