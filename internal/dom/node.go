// Package dom holds an owned HTML tree used by the email-safe passes.
//
// Nodes are a closed set of variants (Element, Text, Comment). Only Element
// carries attributes and children. Nodes keep no parent pointer: every node is
// owned by exactly one child list, and algorithms that need context walk down
// from the container they are processing.
package dom

import "strings"

// Node is one of *Element, *Text or *Comment.
type Node interface {
	isNode()
}

// Attr is a single attribute. Order in Element.Attrs is preserved on render.
type Attr struct {
	Key string
	Val string
}

// Element is a tagged element with ordered attributes and children.
type Element struct {
	Tag       string // lower-case tag name
	Namespace string // empty for HTML, "svg" or "math" for foreign content
	Attrs     []Attr
	Children  []Node
}

// Text is a character data node. Content is unescaped.
type Text struct {
	Content string
}

// Comment is an HTML comment, including Outlook conditional comments.
type Comment struct {
	Content string
}

func (*Element) isNode() {}
func (*Text) isNode()    {}
func (*Comment) isNode() {}

// Fragment is the root of a parsed HTML fragment.
type Fragment struct {
	Children []Node
}

// NewElement creates an element with the given attributes.
func NewElement(tag string, attrs ...Attr) *Element {
	return &Element{Tag: tag, Attrs: attrs}
}

// Attr returns the value of the attribute named key.
func (e *Element) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr rewrites key in place, or appends it when absent.
func (e *Element) SetAttr(key, val string) {
	for i := range e.Attrs {
		if e.Attrs[i].Key == key {
			e.Attrs[i].Val = val
			return
		}
	}
	e.Attrs = append(e.Attrs, Attr{Key: key, Val: val})
}

// RemoveAttr deletes every attribute named key and reports whether one existed.
func (e *Element) RemoveAttr(key string) bool {
	kept := e.Attrs[:0]
	removed := false
	for _, a := range e.Attrs {
		if a.Key == key {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	e.Attrs = kept
	return removed
}

// AppendChild adds nodes to the end of e.Children.
func (e *Element) AppendChild(nodes ...Node) {
	e.Children = append(e.Children, nodes...)
}

// IsWhitespace reports whether the text node holds only ASCII whitespace.
// A non-breaking space is content, not whitespace.
func (t *Text) IsWhitespace() bool {
	return IsWhitespace(t.Content)
}

// IsWhitespace reports whether s is empty or holds only HTML whitespace.
func IsWhitespace(s string) bool {
	return strings.Trim(s, " \t\n\r\f") == ""
}

// Walk visits elements in document order. When fn returns false the
// element's children are skipped.
func Walk(nodes []Node, fn func(*Element) bool) {
	for _, n := range nodes {
		el, ok := n.(*Element)
		if !ok {
			continue
		}
		if fn(el) {
			Walk(el.Children, fn)
		}
	}
}

// TextContent concatenates all text below n.
func TextContent(n Node) string {
	var b strings.Builder
	appendText(&b, n)
	return b.String()
}

func appendText(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Text:
		b.WriteString(v.Content)
	case *Element:
		for _, c := range v.Children {
			appendText(b, c)
		}
	}
}

// Count returns the number of elements named tag in nodes.
func Count(nodes []Node, tag string) int {
	total := 0
	Walk(nodes, func(el *Element) bool {
		if el.Tag == tag {
			total++
		}
		return true
	})
	return total
}
