package emailsafe

import (
	"strings"

	"github.com/alnah/go-mailsafe/internal/dom"
	"github.com/alnah/go-mailsafe/internal/style"
)

// normalizeImages strips explicit heights from every <img> and forces
// height:auto so the client scales by width. Returns the number of images
// whose markup changed.
func normalizeImages(nodes []dom.Node) int {
	count := 0
	dom.Walk(nodes, func(el *dom.Element) bool {
		if el.Tag == "img" && el.Namespace == "" && normalizeImage(el) {
			count++
		}
		return true
	})
	return count
}

func normalizeImage(el *dom.Element) bool {
	before, _ := el.Attr("style")
	changed := el.RemoveAttr("height")

	d := styleOf(el)
	if v, ok := d.Get("height"); !ok || v.Keyword() != "auto" {
		d.Delete("height")
		d.Set("height", style.KeywordValue("auto", false))
	}

	// Style width wins over a conflicting attribute.
	if sw, ok := d.Get("width"); ok && sw.Unit == style.Px {
		if aw, ok := widthAttrPx(el); ok && aw != sw.Num {
			el.SetAttr("width", style.FormatNumber(sw.Num))
			changed = true
		}
	}

	setStyle(el, d)
	after, _ := el.Attr("style")
	return changed || before != after
}

// explicitWidth returns the author's pixel width for an image, preferring the
// style declaration over the attribute.
func explicitWidth(el *dom.Element) (float64, bool) {
	if v, ok := styleOf(el).Get("width"); ok && v.Unit == style.Px && v.Num > 0 {
		return v.Num, true
	}
	if n, ok := widthAttrPx(el); ok && n > 0 {
		return n, true
	}
	return 0, false
}

// widthAttrPx parses a width attribute written as "150" or "150px".
// Percentages are not pixel widths.
func widthAttrPx(el *dom.Element) (float64, bool) {
	raw, ok := el.Attr("width")
	if !ok {
		return 0, false
	}
	v := style.ParseValue(strings.TrimSpace(raw))
	switch v.Unit {
	case style.Px, style.Unitless:
		return v.Num, true
	default:
		return 0, false
	}
}
