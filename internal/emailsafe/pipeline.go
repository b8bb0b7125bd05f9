// Package emailsafe rewrites browser-authored HTML into markup that email
// clients render faithfully, Outlook's Word engine in particular.
//
// The passes run in a fixed order over one parsed fragment:
//
//	legacy fonts -> sizes -> colors -> images -> floats -> wrapper
//
// Conversion is a pure function of the input and Settings. It performs no
// I/O, keeps no state between calls and never fails: input the passes
// cannot handle is passed through.
package emailsafe

import (
	"strings"

	"github.com/alnah/go-mailsafe/internal/dom"
)

// Report counts what a conversion changed.
type Report struct {
	LegacyFonts int // <font> elements replaced
	FontSizes   int // font-size declarations rewritten
	LineHeights int // line-height declarations rewritten
	Colors      int // white foreground colors fixed
	Images      int // images whose dimensions were normalized
	Floats      int // floated images rewritten to tables
}

// Changed reports whether any pass modified the document.
func (r Report) Changed() bool {
	return r != Report{}
}

// Convert returns the email-safe rendition of raw.
func Convert(raw string, s Settings) string {
	out, _ := ConvertWithReport(raw, s)
	return out
}

// ConvertWithReport converts raw and reports what changed. When parsing or
// rendering fails, or a pass panics, raw is returned unchanged with an empty
// report.
func ConvertWithReport(raw string, s Settings) (out string, r Report) {
	if strings.TrimSpace(raw) == "" {
		return raw, Report{}
	}

	defer func() {
		if rec := recover(); rec != nil {
			out, r = raw, Report{}
		}
	}()

	s = s.withDefaults()
	frag, err := dom.Parse(raw)
	if err != nil {
		return raw, Report{}
	}

	r = runPasses(frag, s)

	out, err = dom.Render(frag)
	if err != nil {
		return raw, Report{}
	}
	return out, r
}

// runPasses applies every pass to frag in order.
func runPasses(frag *dom.Fragment, s Settings) Report {
	var r Report

	r.LegacyFonts = normalizeLegacyFonts(frag.Children)

	var sc sizeCounts
	normalizeSizes(frag.Children, s.BaseFontSizePx, s, &sc)
	r.FontSizes, r.LineHeights = sc.fontSizes, sc.lineHeights

	r.Colors = guardColors(frag.Children)
	r.Images = normalizeImages(frag.Children)

	fw := &floatRewriter{settings: s}
	frag.Children, _ = fw.rewrite(frag.Children)
	r.Floats = fw.count

	if !s.DisableWrapper {
		frag.Children = wrap(frag.Children, s)
	}
	return r
}
