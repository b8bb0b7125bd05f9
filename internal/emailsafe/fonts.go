package emailsafe

import (
	"strconv"
	"strings"

	"github.com/alnah/go-mailsafe/internal/dom"
	"github.com/alnah/go-mailsafe/internal/style"
)

// legacyFontPx maps <font size> 1-7 to pixels. Size 1 is held at the 10px
// floor; the legacy 8px is unreadable in Outlook.
var legacyFontPx = [8]float64{0, 10, 13, 16, 18, 24, 32, 48}

const defaultLegacyFontSize = 3

// legacyFontAttrs are consumed by the rewrite; other attributes stay.
var legacyFontAttrs = map[string]bool{"size": true, "color": true, "face": true, "style": true}

// normalizeLegacyFonts turns every <font> into a <span> with inline styles.
// The element is rewritten in place, so the text nodes around it keep their
// content and position. Returns the number of elements rewritten.
func normalizeLegacyFonts(nodes []dom.Node) int {
	count := 0
	dom.Walk(nodes, func(el *dom.Element) bool {
		if el.Tag == "font" && el.Namespace == "" {
			fontToSpan(el)
			count++
		}
		return true
	})
	return count
}

// fontToSpan retags a <font> element. Inline style set by the author wins
// over the presentational attributes.
func fontToSpan(el *dom.Element) {
	sizeAttr, hasSize := el.Attr("size")
	d := &style.Declaration{}
	d.Set("font-size", style.PxValue(legacyFontPx[legacyFontSize(sizeAttr, hasSize)], false))
	if color, ok := el.Attr("color"); ok && strings.TrimSpace(color) != "" {
		d.SetRaw("color", color)
	}
	if face, ok := el.Attr("face"); ok && strings.TrimSpace(face) != "" {
		d.SetRaw("font-family", face)
	}
	for _, p := range styleOf(el).Properties() {
		d.Set(p.Name, p.Value)
	}

	kept := make([]dom.Attr, 0, len(el.Attrs)+1)
	for _, a := range el.Attrs {
		if !legacyFontAttrs[a.Key] {
			kept = append(kept, a)
		}
	}
	el.Tag = "span"
	el.Attrs = append([]dom.Attr{{Key: "style", Val: d.String()}}, kept...)
}

// legacyFontSize resolves a size attribute to 1-7. Relative values (+1, -2)
// are taken from the default size 3; out-of-range numbers clamp; anything
// unparseable falls back to 3.
func legacyFontSize(raw string, present bool) int {
	raw = strings.TrimSpace(raw)
	if !present || raw == "" {
		return defaultLegacyFontSize
	}

	size := 0
	switch raw[0] {
	case '+', '-':
		n, err := strconv.Atoi(raw[1:])
		if err != nil {
			return defaultLegacyFontSize
		}
		if raw[0] == '-' {
			n = -n
		}
		size = defaultLegacyFontSize + n
	default:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return defaultLegacyFontSize
		}
		size = n
	}

	if size < 1 {
		return 1
	}
	if size > 7 {
		return 7
	}
	return size
}
