package emailsafe

import (
	"strings"

	"github.com/alnah/go-mailsafe/internal/dom"
	"github.com/alnah/go-mailsafe/internal/style"
)

// whiteForms are the normalized spellings of white text.
var whiteForms = map[string]bool{
	"white":                 true,
	"#fff":                  true,
	"#ffffff":               true,
	"rgb(255,255,255)":      true,
	"rgba(255,255,255,1)":   true,
	"rgba(255,255,255,1.0)": true,
}

// guardColors rewrites white foreground colors to black, in both the style
// color declaration and the legacy color attribute. background-color is never
// inspected. Returns the number of values rewritten.
func guardColors(nodes []dom.Node) int {
	count := 0
	dom.Walk(nodes, func(el *dom.Element) bool {
		if raw, ok := el.Attr("color"); ok && isWhite(raw) {
			el.SetAttr("color", "black")
			count++
		}
		if _, ok := el.Attr("style"); !ok {
			return true
		}
		d := styleOf(el)
		if v, ok := d.Get("color"); ok && isWhite(v.Raw) {
			d.Set("color", style.KeywordValue("black", v.Important))
			setStyle(el, d)
			count++
		}
		return true
	})
	return count
}

// isWhite reports whether a color value is white, ignoring case, whitespace
// and an !important flag.
func isWhite(raw string) bool {
	v := style.ParseValue(raw).Keyword()
	v = strings.Join(strings.Fields(v), "")
	return whiteForms[v]
}
