package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// Sentinel errors for template rendering.
var (
	ErrSignatureRender = errors.New("signature template rendering failed")
	ErrDocumentRender  = errors.New("document template rendering failed")
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
//
// Clients that keep <style> (Apple Mail, iOS, Outlook.com) read it; the
// rest rely on the inline declarations the converter writes.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	if ctx.Err() != nil {
		return htmlContent
	}

	sanitizedCSS := sanitizeCSS(cssContent)
	styleBlock := "<style>" + sanitizedCSS + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	// Try inserting before </head>
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	// Try inserting after <body>
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	// Fallback: prepend
	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
// Prevents CSS injection by escaping </style> and similar closing sequences.
func sanitizeCSS(css string) string {
	// Escape </ sequences to prevent closing the style tag prematurely
	return strings.ReplaceAll(css, "</", `<\/`)
}

// SignatureData holds signature information for injection into HTML.
type SignatureData struct {
	Name         string
	Title        string
	Email        string
	Organization string
	Phone        string
	ImageURL     string
	Links        []SignatureLink
}

// SignatureLink represents a clickable link in the signature block.
type SignatureLink struct {
	Label string
	URL   string
}

// SignatureInjector defines the contract for signature injection into HTML.
type SignatureInjector interface {
	InjectSignature(ctx context.Context, htmlContent string, data *SignatureData) (string, error)
}

// SignatureInjection renders and injects a signature block into HTML content.
type SignatureInjection struct {
	tmpl *template.Template
}

// NewSignatureInjection creates a SignatureInjection from template content.
// Returns error if the template cannot be parsed.
func NewSignatureInjection(tmplContent string) (*SignatureInjection, error) {
	tmpl, err := template.New("signature").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing signature template: %w", err)
	}

	return &SignatureInjection{tmpl: tmpl}, nil
}

// InjectSignature renders the signature template and appends it to the
// content, before </body> when the content is a full document.
// If data is nil, returns htmlContent unchanged.
func (s *SignatureInjection) InjectSignature(ctx context.Context, htmlContent string, data *SignatureData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSignatureRender, err)
	}

	signatureHTML := buf.String()
	lowerHTML := strings.ToLower(htmlContent)

	// Try inserting before </body>
	if idx := strings.Index(lowerHTML, "</body>"); idx != -1 {
		return htmlContent[:idx] + signatureHTML + htmlContent[idx:], nil
	}

	// Fallback: append to end
	return htmlContent + signatureHTML, nil
}

// DocumentData holds the fields of the email document shell.
type DocumentData struct {
	Title     string
	Preheader string
	Lang      string
	Body      template.HTML
}

// DocumentInjector defines the contract for wrapping a fragment in a document.
type DocumentInjector interface {
	InjectDocument(ctx context.Context, bodyHTML string, data *DocumentData) (string, error)
}

// DocumentInjection renders converted content inside a full email document.
type DocumentInjection struct {
	tmpl *template.Template
}

// documentFuncs are available to document templates.
// html/template strips literal comments, so Outlook conditional comments
// are produced by mso.
var documentFuncs = template.FuncMap{
	"mso": func(markup string) template.HTML {
		return template.HTML("<!--[if mso]>" + markup + "<![endif]-->") // #nosec G203 -- template author content
	},
}

// NewDocumentInjection creates a DocumentInjection from template content.
// Returns error if the template cannot be parsed.
func NewDocumentInjection(tmplContent string) (*DocumentInjection, error) {
	tmpl, err := template.New("document").Funcs(documentFuncs).Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}

	return &DocumentInjection{tmpl: tmpl}, nil
}

// InjectDocument renders the document template with bodyHTML as its Body.
// bodyHTML is trusted converter output and is not escaped.
// If data is nil, returns bodyHTML unchanged.
func (d *DocumentInjection) InjectDocument(ctx context.Context, bodyHTML string, data *DocumentData) (string, error) {
	if data == nil {
		return bodyHTML, nil
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	fields := *data
	fields.Body = template.HTML(bodyHTML) // #nosec G203 -- converter output

	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, fields); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}

	return buf.String(), nil
}
