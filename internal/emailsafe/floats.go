package emailsafe

import (
	"strings"

	"github.com/alnah/go-mailsafe/internal/dom"
	"github.com/alnah/go-mailsafe/internal/style"
)

// runBoundaries end a float run.
var runBoundaries = map[string]bool{
	"p": true, "div": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// floatRewriter replaces floated images and the content wrapping them with
// presentation tables. Outlook's Word engine ignores CSS floats, so the
// layout has to be expressed as table columns.
type floatRewriter struct {
	settings Settings
	count    int
}

// rewrite processes nodes in document order and returns the new child list.
// The second result reports whether a float was rewritten at this level.
//
// A run is the index range [i+1, end) of nodes following the float at i. It
// is only ever held as indexes into nodes; the slice is rebuilt once the
// replacement is known. Existing tables are never entered.
func (w *floatRewriter) rewrite(nodes []dom.Node) ([]dom.Node, bool) {
	out := make([]dom.Node, 0, len(nodes))
	rewrote := false

	for i := 0; i < len(nodes); {
		target := nodes[i]
		img, side, ok := floatTarget(target)
		if !ok {
			if el, isEl := target.(*dom.Element); isEl && el.Tag != "table" {
				children, direct := w.rewrite(el.Children)
				el.Children = children
				if direct && el.Tag == "p" {
					// A table cannot live inside a paragraph.
					el.Tag = "div"
				}
			}
			out = append(out, target)
			i++
			continue
		}

		end := runEnd(nodes, i+1)
		keep := end
		for keep > i+1 && isWhitespaceText(nodes[keep-1]) {
			keep--
		}
		run, _ := w.rewrite(nodes[i+1 : keep])

		out = append(out, w.table(target, img, side, run), spacer())
		out = append(out, nodes[keep:end]...)
		w.count++
		rewrote = true
		i = end
	}
	return out, rewrote
}

// runEnd returns the index of the first node at or after start that closes a
// run: a block boundary or another floated image. Without one the run extends
// to the end of the parent.
func runEnd(nodes []dom.Node, start int) int {
	for j := start; j < len(nodes); j++ {
		if el, ok := nodes[j].(*dom.Element); ok && runBoundaries[el.Tag] {
			return j
		}
		if _, _, ok := floatTarget(nodes[j]); ok {
			return j
		}
	}
	return len(nodes)
}

// floatTarget reports whether n is a floated image, either bare or as the
// only content of a link. It returns the image and the float side.
func floatTarget(n dom.Node) (*dom.Element, string, bool) {
	el, ok := n.(*dom.Element)
	if !ok || el.Namespace != "" {
		return nil, "", false
	}
	switch el.Tag {
	case "img":
		side := floatSide(el)
		return el, side, side != ""
	case "a":
		var img *dom.Element
		for _, c := range el.Children {
			if isWhitespaceText(c) {
				continue
			}
			child, ok := c.(*dom.Element)
			if !ok || child.Tag != "img" || img != nil {
				return nil, "", false
			}
			img = child
		}
		if img == nil {
			return nil, "", false
		}
		side := floatSide(img)
		return img, side, side != ""
	default:
		return nil, "", false
	}
}

func floatSide(img *dom.Element) string {
	if _, ok := img.Attr("style"); !ok {
		return ""
	}
	v, ok := styleOf(img).Get("float")
	if !ok {
		return ""
	}
	switch side := v.Keyword(); side {
	case "left", "right":
		return side
	default:
		return ""
	}
}

// table builds the replacement for one float. The image cell has a fixed
// pixel width; the text cell takes the rest of the 100% table. An empty run
// yields a single-column table.
func (w *floatRewriter) table(target dom.Node, img *dom.Element, side string, run []dom.Node) *dom.Element {
	width := float64(w.settings.DefaultImageColumnWidthPx)
	if n, ok := explicitWidth(img); ok {
		width = n
	}

	imageCell := dom.NewElement("td",
		dom.Attr{Key: "width", Val: style.FormatNumber(width)},
		dom.Attr{Key: "valign", Val: "top"},
	)
	if pad := detachFloat(img); pad.Len() > 0 {
		imageCell.SetAttr("style", pad.String())
	}
	imageCell.AppendChild(target)

	row := dom.NewElement("tr")
	if len(run) == 0 {
		row.AppendChild(imageCell)
	} else {
		textCell := dom.NewElement("td", dom.Attr{Key: "valign", Val: "top"})
		textCell.Children = run
		if side == "right" {
			row.AppendChild(textCell, imageCell)
		} else {
			row.AppendChild(imageCell, textCell)
		}
	}

	t := presentationTable()
	t.AppendChild(row)
	return t
}

// detachFloat removes the float from the image style and turns its margins
// into cell padding. Negative and auto margins have no padding equivalent
// and are dropped.
func detachFloat(img *dom.Element) *style.Declaration {
	d := styleOf(img)
	d.Delete("float")

	pad := &style.Declaration{}
	for _, p := range d.Properties() {
		if p.Name != "margin" && !strings.HasPrefix(p.Name, "margin-") {
			continue
		}
		d.Delete(p.Name)
		raw := strings.ToLower(p.Value.Raw)
		if strings.Contains(raw, "auto") || strings.Contains(raw, "-") {
			continue
		}
		pad.Set("padding"+strings.TrimPrefix(p.Name, "margin"), p.Value)
	}
	setStyle(img, d)
	return pad
}

// spacer restores block flow after a generated table.
func spacer() *dom.Element {
	p := dom.NewElement("p")
	p.AppendChild(dom.NewElement("br"))
	return p
}

func isWhitespaceText(n dom.Node) bool {
	t, ok := n.(*dom.Text)
	return ok && t.IsWhitespace()
}
