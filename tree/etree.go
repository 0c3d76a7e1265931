package tree

import (
	"fmt"
	"unicode/utf8"

	"github.com/beevik/etree"
)

// XML document backend on top of github.com/beevik/etree. Adapter values
// are comparable structs holding the underlying token pointer, so two
// adapters over the same token compare equal and identity survives
// re-adaptation.

type etreeNode struct {
	el *etree.Element
	cd *etree.CharData
}

// FromEtree adapts an etree element (usually the document root) as a Node.
func FromEtree(el *etree.Element) Node {
	return etreeNode{el: el}
}

func (n etreeNode) Parent() Node {
	var p *etree.Element
	if n.cd != nil {
		p = n.cd.Parent()
	} else if n.el != nil {
		p = n.el.Parent()
	}
	if p == nil {
		return nil
	}
	return etreeNode{el: p}
}

func (n etreeNode) Children() []Node {
	if n.el == nil {
		return nil
	}
	var out []Node
	for _, tok := range n.el.Child {
		switch c := tok.(type) {
		case *etree.Element:
			out = append(out, etreeNode{el: c})
		case *etree.CharData:
			out = append(out, etreeNode{cd: c})
		}
	}
	return out
}

func (n etreeNode) Leaf() bool { return n.cd != nil }

func (n etreeNode) Text() string {
	if n.cd != nil {
		return n.cd.Data
	}
	return ""
}

func (n etreeNode) Length() int {
	if n.cd != nil {
		return utf8.RuneCountInString(n.cd.Data)
	}
	return 0
}

func (n etreeNode) Attr(key string) string {
	if n.el == nil {
		return ""
	}
	return n.el.SelectAttrValue(key, "")
}

func (n etreeNode) SetAttr(key, value string) {
	if n.el != nil {
		n.el.CreateAttr(key, value)
	}
}

type etreeEditor struct{}

// NewEtreeEditor returns an Editor over the etree backend.
func NewEtreeEditor() Editor { return etreeEditor{} }

func (etreeEditor) WrapRange(leaf Node, start, end int) (Wrapper, error) {
	n, ok := leaf.(etreeNode)
	if !ok || n.cd == nil || n.cd.Parent() == nil {
		return nil, ErrNotLeaf
	}
	runes := []rune(n.cd.Data)
	if start < 0 || end < start || end > len(runes) {
		return nil, fmt.Errorf("%w: [%d, %d) of %d", ErrBadRange, start, end, len(runes))
	}

	parent := n.cd.Parent()
	at := n.cd.Index()
	parent.RemoveChildAt(at)

	if start > 0 {
		parent.InsertChildAt(at, etree.NewText(string(runes[:start])))
		at++
	}
	w := etree.NewElement(WrapperTag)
	w.CreateAttr("class", MarkerClass)
	w.SetText(string(runes[start:end]))
	parent.InsertChildAt(at, w)
	at++
	if end < len(runes) {
		parent.InsertChildAt(at, etree.NewText(string(runes[end:])))
	}

	return etreeNode{el: w}, nil
}

func (etreeEditor) WrapNode(n Node) (Wrapper, error) {
	en, ok := n.(etreeNode)
	if !ok {
		return nil, ErrNotLeaf
	}

	var (
		tok    etree.Token
		parent *etree.Element
	)
	if en.cd != nil {
		tok, parent = en.cd, en.cd.Parent()
	} else if en.el != nil {
		tok, parent = en.el, en.el.Parent()
	}
	if parent == nil {
		return nil, ErrNotLeaf
	}

	at := tok.Index()
	parent.RemoveChildAt(at)

	w := etree.NewElement(WrapperTag)
	w.CreateAttr("class", MarkerClass)
	w.AddChild(tok)
	parent.InsertChildAt(at, w)

	return etreeNode{el: w}, nil
}

func (etreeEditor) IsWrapper(n Node) bool {
	en, ok := n.(etreeNode)
	return ok && en.el != nil && en.el.SelectAttrValue("class", "") == MarkerClass
}
