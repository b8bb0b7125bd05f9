package emailsafe

import (
	"github.com/alnah/go-mailsafe/internal/dom"
	"github.com/alnah/go-mailsafe/internal/style"
)

// wrap moves the whole fragment into a one-cell presentation table. The cell
// is the only place base typography is asserted; the other passes never add
// default sizes to individual elements.
func wrap(nodes []dom.Node, s Settings) []dom.Node {
	d := &style.Declaration{}
	d.SetRaw("font-family", s.FontFamily)
	d.Set("font-size", style.PxValue(s.BaseFontSizePx, false))
	d.SetRaw("color", s.DefaultTextColor)
	d.SetRaw("mso-line-height-rule", "exactly")

	cell := dom.NewElement("td", dom.Attr{Key: "style", Val: d.String()})
	cell.Children = nodes

	row := dom.NewElement("tr")
	row.AppendChild(cell)

	t := presentationTable()
	t.AppendChild(row)
	return []dom.Node{t}
}
