package realex

import (
	"bytes"
	"encoding/xml"

	"github.com/cobaltpay/realex-gateway/pkg/encoding"
)

// element is a minimal XML tree node. Request documents are composed in
// memory so child and attribute order stays explicit and testable, then
// rendered exactly once.
type element struct {
	name     string
	attrs    []xmlAttr
	text     string
	children []*element
}

type xmlAttr struct {
	key   string
	value string
}

func newElement(name string) *element {
	return &element{name: name}
}

// attr appends an attribute and returns the element for chaining.
func (e *element) attr(key, value string) *element {
	e.attrs = append(e.attrs, xmlAttr{key: key, value: value})
	return e
}

// setText sets the element's character data.
func (e *element) setText(text string) *element {
	e.text = text
	return e
}

// add appends child elements in order.
func (e *element) add(children ...*element) *element {
	e.children = append(e.children, children...)
	return e
}

// child creates a named child, appends it, and returns the child.
func (e *element) child(name string) *element {
	c := newElement(name)
	e.children = append(e.children, c)
	return c
}

// render writes the element and its subtree to buf with escaped text and
// attribute values.
func (e *element) render(buf *bytes.Buffer) {
	buf.WriteByte('<')
	buf.WriteString(e.name)
	for _, a := range e.attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.key)
		buf.WriteString(`="`)
		escapeXML(buf, a.value)
		buf.WriteByte('"')
	}
	buf.WriteByte('>')
	escapeXML(buf, e.text)
	for _, c := range e.children {
		c.render(buf)
	}
	buf.WriteString("</")
	buf.WriteString(e.name)
	buf.WriteByte('>')
}

// String serializes the element tree through a pooled buffer.
func (e *element) String() string {
	buf := encoding.GetBuffer()
	defer encoding.PutBuffer(buf)
	e.render(buf)
	return buf.String()
}

func escapeXML(buf *bytes.Buffer, s string) {
	if s == "" {
		return
	}
	// xml.EscapeText only fails on writer errors; bytes.Buffer cannot fail.
	_ = xml.EscapeText(buf, []byte(s))
}
