package tree

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// In-memory backend. Used by tests and by embedders that do not carry a
// real document around - the engine itself never depends on a concrete
// backend.

// Element is an in-memory non-leaf node.
type Element struct {
	parent *Element
	tag    string
	attrs  map[string]string
	kids   []Node
}

// Text is an in-memory text leaf.
type Text struct {
	parent *Element
	data   string
}

// NewElement creates a detached element, usually the container root.
func NewElement(tag string) *Element {
	return &Element{tag: tag}
}

func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Element) Children() []Node { return e.kids }
func (e *Element) Leaf() bool       { return false }
func (e *Element) Text() string     { return "" }
func (e *Element) Length() int      { return 0 }
func (e *Element) Tag() string      { return e.tag }

func (e *Element) Attr(key string) string { return e.attrs[key] }

func (e *Element) SetAttr(key, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[key] = value
}

// AppendElement creates a child element at the end of e's children.
func (e *Element) AppendElement(tag string) *Element {
	c := &Element{parent: e, tag: tag}
	e.kids = append(e.kids, c)
	return c
}

// AppendText creates a text leaf at the end of e's children.
func (e *Element) AppendText(data string) *Text {
	t := &Text{parent: e, data: data}
	e.kids = append(e.kids, t)
	return t
}

// String renders the subtree for diagnostics.
func (e *Element) String() string {
	var b strings.Builder
	e.render(&b)
	return b.String()
}

func (e *Element) render(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(e.tag)
	if len(e.attrs) > 0 {
		fmt.Fprintf(b, " %v", e.attrs)
	}
	b.WriteByte('>')
	for _, k := range e.kids {
		switch c := k.(type) {
		case *Element:
			c.render(b)
		case *Text:
			b.WriteString(c.data)
		}
	}
	b.WriteString("</" + e.tag + ">")
}

func (t *Text) Parent() Node {
	if t.parent == nil {
		return nil
	}
	return t.parent
}

func (t *Text) Children() []Node { return nil }
func (t *Text) Leaf() bool       { return true }
func (t *Text) Text() string     { return t.data }
func (t *Text) Length() int      { return utf8.RuneCountInString(t.data) }

type memoryEditor struct{}

// NewMemoryEditor returns an Editor over the in-memory backend.
func NewMemoryEditor() Editor { return memoryEditor{} }

func (memoryEditor) WrapRange(leaf Node, start, end int) (Wrapper, error) {
	t, ok := leaf.(*Text)
	if !ok || t.parent == nil {
		return nil, ErrNotLeaf
	}
	runes := []rune(t.data)
	if start < 0 || end < start || end > len(runes) {
		return nil, fmt.Errorf("%w: [%d, %d) of %d", ErrBadRange, start, end, len(runes))
	}

	p := t.parent
	idx := -1
	for i, k := range p.kids {
		if k == Node(t) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotLeaf
	}

	w := &Element{parent: p, tag: WrapperTag, attrs: map[string]string{"class": MarkerClass}}
	w.kids = []Node{&Text{parent: w, data: string(runes[start:end])}}

	repl := make([]Node, 0, len(p.kids)+2)
	repl = append(repl, p.kids[:idx]...)
	if start > 0 {
		repl = append(repl, &Text{parent: p, data: string(runes[:start])})
	}
	repl = append(repl, w)
	if end < len(runes) {
		repl = append(repl, &Text{parent: p, data: string(runes[end:])})
	}
	repl = append(repl, p.kids[idx+1:]...)
	p.kids = repl

	return w, nil
}

func (memoryEditor) WrapNode(n Node) (Wrapper, error) {
	var p *Element
	switch c := n.(type) {
	case *Text:
		p = c.parent
	case *Element:
		p = c.parent
	}
	if p == nil {
		return nil, ErrNotLeaf
	}

	idx := -1
	for i, k := range p.kids {
		if k == n {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotLeaf
	}

	w := &Element{parent: p, tag: WrapperTag, attrs: map[string]string{"class": MarkerClass}}
	w.kids = []Node{n}
	switch c := n.(type) {
	case *Text:
		c.parent = w
	case *Element:
		c.parent = w
	}
	p.kids[idx] = w

	return w, nil
}

func (memoryEditor) IsWrapper(n Node) bool {
	e, ok := n.(*Element)
	return ok && e.attrs["class"] == MarkerClass
}
