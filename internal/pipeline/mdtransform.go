package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters, which
// pass through Goldmark unchanged (no WithUnsafe needed).
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end

	markStartRune = '\uE000'
	markEndRune   = '\uE001'
)

// HighlightColor is the background of ==highlighted== text.
// <mark> has no default styling in Outlook, so the span carries it.
const HighlightColor = "#fff59d"

const (
	highlightOpen  = `<span style="background-color:` + HighlightColor + `;">`
	highlightClose = `</span>`
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Highlight syntax ==text==
	highlightPattern = regexp.MustCompile(`==(.*?)==`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor applies transformations before CommonMark conversion.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown applies all transformations to prepare Markdown for conversion.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = convertHighlights(content)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// convertHighlights transforms ==text== to placeholder markers.
func convertHighlights(content string) string {
	return highlightPattern.ReplaceAllString(content, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders turns placeholder markers into highlighted spans.
// Called after Goldmark HTML conversion. A stray end marker is dropped and
// an unclosed start is closed at the end of the content.
func ConvertMarkPlaceholders(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	open := false
	for _, r := range content {
		switch r {
		case markStartRune:
			if !open {
				b.WriteString(highlightOpen)
				open = true
			}
		case markEndRune:
			if open {
				b.WriteString(highlightClose)
				open = false
			}
		default:
			b.WriteRune(r)
		}
	}
	if open {
		b.WriteString(highlightClose)
	}
	return b.String()
}
