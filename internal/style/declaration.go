// Package style parses and serializes inline CSS declaration blocks.
//
// A Declaration keeps properties in order so that rewriting one value does
// not reshuffle the author's style attribute. Malformed declarations are
// dropped silently; nothing in this package returns an error.
package style

import "strings"

// Property is one name:value pair.
type Property struct {
	Name  string
	Value Value
}

// Declaration is an ordered inline style block.
type Declaration struct {
	props []Property
}

// Parse splits a style attribute into properties.
// Names are lower-cased, values keep their case. A declaration without a
// colon, name or value is dropped. When a name repeats, the last write wins
// and takes the position of that last write.
func Parse(styleAttr string) *Declaration {
	d := &Declaration{}
	for _, decl := range splitDeclarations(styleAttr) {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		d.Delete(name)
		d.props = append(d.props, Property{Name: name, Value: ParseValue(value)})
	}
	return d
}

// splitDeclarations splits on ';' outside parentheses and quotes, so values
// such as url(data:image/png;base64,...) stay whole.
func splitDeclarations(s string) []string {
	var (
		parts []string
		depth int
		quote byte
		start int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == ';' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// Get returns the value of name.
func (d *Declaration) Get(name string) (Value, bool) {
	for _, p := range d.props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether name is declared.
func (d *Declaration) Has(name string) bool {
	_, ok := d.Get(name)
	return ok
}

// Set stores v under name. An existing property is rewritten in place;
// a new one is appended.
func (d *Declaration) Set(name string, v Value) {
	name = strings.ToLower(name)
	for i := range d.props {
		if d.props[i].Name == name {
			d.props[i].Value = v
			return
		}
	}
	d.props = append(d.props, Property{Name: name, Value: v})
}

// SetRaw parses raw and stores it under name.
func (d *Declaration) SetRaw(name, raw string) {
	d.Set(name, ParseValue(raw))
}

// Delete removes name and reports whether it was present.
func (d *Declaration) Delete(name string) bool {
	for i, p := range d.props {
		if p.Name == name {
			d.props = append(d.props[:i], d.props[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of properties.
func (d *Declaration) Len() int {
	return len(d.props)
}

// Properties returns a copy of the properties in order.
func (d *Declaration) Properties() []Property {
	out := make([]Property, len(d.props))
	copy(out, d.props)
	return out
}

// String serializes the block as "name:value;" pairs with no padding.
func (d *Declaration) String() string {
	var b strings.Builder
	for _, p := range d.props {
		b.WriteString(p.Name)
		b.WriteByte(':')
		b.WriteString(p.Value.Raw)
		b.WriteByte(';')
	}
	return b.String()
}
