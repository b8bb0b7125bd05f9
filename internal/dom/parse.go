package dom

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sentinel errors for parsing and rendering.
var (
	ErrParse  = errors.New("HTML parse failed")
	ErrRender = errors.New("HTML render failed")
)

// Parse parses an HTML fragment as if it were the content of <body>.
// The parser is lenient: unbalanced markup is auto-closed and accepted.
// Doctype nodes are dropped.
func Parse(content string) (*Fragment, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	f := &Fragment{Children: make([]Node, 0, len(nodes))}
	for _, n := range nodes {
		if converted := fromHTML(n); converted != nil {
			f.Children = append(f.Children, converted)
		}
	}
	return f, nil
}

// fromHTML copies an x/net/html node into the owned tree.
func fromHTML(n *html.Node) Node {
	switch n.Type {
	case html.TextNode:
		return &Text{Content: n.Data}
	case html.CommentNode:
		return &Comment{Content: n.Data}
	case html.ElementNode:
		el := &Element{
			Tag:       n.Data,
			Namespace: n.Namespace,
			Attrs:     make([]Attr, 0, len(n.Attr)),
		}
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			el.Attrs = append(el.Attrs, Attr{Key: key, Val: a.Val})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if converted := fromHTML(c); converted != nil {
				el.Children = append(el.Children, converted)
			}
		}
		return el
	default:
		return nil
	}
}
