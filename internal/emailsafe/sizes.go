package emailsafe

import (
	"math"

	"github.com/alnah/go-mailsafe/internal/dom"
	"github.com/alnah/go-mailsafe/internal/style"
)

// ptToPx converts points to CSS pixels.
const ptToPx = 1.3333

// sizeCounts tallies rewritten declarations.
type sizeCounts struct {
	fontSizes   int
	lineHeights int
}

// normalizeSizes rewrites font-size and line-height declarations to pixels.
// inherited is the nearest resolved ancestor font size, carried down the
// walk instead of looked up through parent pointers.
func normalizeSizes(nodes []dom.Node, inherited float64, s Settings, c *sizeCounts) {
	for _, n := range nodes {
		el, ok := n.(*dom.Element)
		if !ok {
			continue
		}

		next := inherited
		if _, hasStyle := el.Attr("style"); hasStyle {
			d := styleOf(el)
			changed := false
			own := 0.0

			if v, ok := d.Get("font-size"); ok {
				if px, ok := resolveFontSize(v, inherited); ok {
					px = math.Max(px, s.MinimumFontSizePx)
					nv := style.PxValue(px, v.Important)
					if nv.Raw != v.Raw {
						d.Set("font-size", nv)
						c.fontSizes++
						changed = true
					}
					own = nv.Num
				}
			}

			if v, ok := d.Get("line-height"); ok {
				base := own
				if base == 0 {
					base = s.BaseFontSizePx
				}
				if px, ok := resolveLineHeight(v, base); ok {
					nv := style.PxValue(math.Round(px), v.Important)
					if nv.Raw != v.Raw || !d.Has("mso-line-height-rule") {
						d.Set("line-height", nv)
						d.Set("mso-line-height-rule", style.KeywordValue("exactly", false))
						c.lineHeights++
						changed = true
					}
				}
			}

			if changed {
				setStyle(el, d)
			}
			if own > 0 {
				next = own
			}
		}

		normalizeSizes(el.Children, next, s, c)
	}
}

// resolveFontSize converts a font-size value to pixels. Keywords, unitless
// numbers and unknown units are not resolvable.
func resolveFontSize(v style.Value, inherited float64) (float64, bool) {
	switch v.Unit {
	case style.Px:
		return v.Num, true
	case style.Pt:
		return v.Num * ptToPx, true
	case style.Em:
		return v.Num * inherited, true
	case style.Percent:
		return v.Num * inherited / 100, true
	default:
		return 0, false
	}
}

// resolveLineHeight converts a line-height value to pixels against the
// element's own font size.
func resolveLineHeight(v style.Value, fontSize float64) (float64, bool) {
	switch v.Unit {
	case style.Px:
		return v.Num, true
	case style.Pt:
		return v.Num * ptToPx, true
	case style.Unitless, style.Em:
		return v.Num * fontSize, true
	case style.Percent:
		return v.Num * fontSize / 100, true
	default:
		return 0, false
	}
}
