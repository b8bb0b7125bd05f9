package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render serializes the fragment's children back to HTML.
func Render(f *Fragment) (string, error) {
	return RenderNodes(f.Children)
}

// RenderNodes serializes a node list in order.
func RenderNodes(nodes []Node) (string, error) {
	var buf strings.Builder
	for _, n := range nodes {
		if err := html.Render(&buf, toHTML(n)); err != nil {
			return "", fmt.Errorf("%w: %v", ErrRender, err)
		}
	}
	return buf.String(), nil
}

// toHTML builds an x/net/html node for rendering.
func toHTML(n Node) *html.Node {
	switch v := n.(type) {
	case *Text:
		return &html.Node{Type: html.TextNode, Data: v.Content}
	case *Comment:
		return &html.Node{Type: html.CommentNode, Data: v.Content}
	case *Element:
		out := &html.Node{
			Type:      html.ElementNode,
			Data:      v.Tag,
			DataAtom:  atom.Lookup([]byte(v.Tag)),
			Namespace: v.Namespace,
			Attr:      make([]html.Attribute, 0, len(v.Attrs)),
		}
		for _, a := range v.Attrs {
			attr := html.Attribute{Key: a.Key, Val: a.Val}
			if ns, key, ok := strings.Cut(a.Key, ":"); ok && v.Namespace != "" {
				attr.Namespace, attr.Key = ns, key
			}
			out.Attr = append(out.Attr, attr)
		}
		for _, c := range v.Children {
			out.AppendChild(toHTML(c))
		}
		return out
	default:
		return &html.Node{Type: html.TextNode}
	}
}
