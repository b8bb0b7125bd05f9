package emailsafe

import (
	"github.com/alnah/go-mailsafe/internal/dom"
	"github.com/alnah/go-mailsafe/internal/style"
)

// Defaults applied to zero-valued Settings fields.
const (
	DefaultTextColor          = "#000000"
	DefaultImageColumnWidthPx = 260
	DefaultMinimumFontSizePx  = 10
	DefaultBaseFontSizePx     = 14
	DefaultFontFamily         = "Arial, Helvetica, sans-serif"
)

// Settings is the per-call configuration. It is passed by value and never
// mutated, so one value can be shared by concurrent conversions.
type Settings struct {
	DefaultTextColor          string  // wrapper text color only
	DefaultImageColumnWidthPx int     // image cell width when a float has no explicit width
	MinimumFontSizePx         float64 // font-size floor
	BaseFontSizePx            float64 // fallback for em, % and unitless line-height
	FontFamily                string  // wrapper font-family
	DisableWrapper            bool    // skip the outer presentation table
}

// withDefaults fills zero fields with the package defaults.
func (s Settings) withDefaults() Settings {
	if s.DefaultTextColor == "" {
		s.DefaultTextColor = DefaultTextColor
	}
	if s.DefaultImageColumnWidthPx <= 0 {
		s.DefaultImageColumnWidthPx = DefaultImageColumnWidthPx
	}
	if s.MinimumFontSizePx <= 0 {
		s.MinimumFontSizePx = DefaultMinimumFontSizePx
	}
	if s.BaseFontSizePx <= 0 {
		s.BaseFontSizePx = DefaultBaseFontSizePx
	}
	if s.FontFamily == "" {
		s.FontFamily = DefaultFontFamily
	}
	return s
}

// styleOf parses the element's style attribute. A missing attribute yields an
// empty declaration.
func styleOf(el *dom.Element) *style.Declaration {
	raw, _ := el.Attr("style")
	return style.Parse(raw)
}

// setStyle writes d back to the element, dropping the attribute when empty.
func setStyle(el *dom.Element, d *style.Declaration) {
	if d.Len() == 0 {
		el.RemoveAttr("style")
		return
	}
	el.SetAttr("style", d.String())
}

// presentationTable builds the layout table shell shared by the float
// rewriter and the wrapper.
func presentationTable() *dom.Element {
	return dom.NewElement("table",
		dom.Attr{Key: "role", Val: "presentation"},
		dom.Attr{Key: "cellpadding", Val: "0"},
		dom.Attr{Key: "cellspacing", Val: "0"},
		dom.Attr{Key: "border", Val: "0"},
		dom.Attr{Key: "width", Val: "100%"},
		dom.Attr{Key: "style", Val: "mso-table-lspace:0pt;mso-table-rspace:0pt;"},
	)
}
